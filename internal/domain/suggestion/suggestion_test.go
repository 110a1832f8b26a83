package suggestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/etherescape/internal/domain/entity"
)

const twoRecords = `[
  {"activity":"Trail hike","location":"Lincoln Trail","description":"Loop through the woods","time_availability":"Weekends","longitude":-89.65,"latitude":39.78},
  {"activity":"Open mic","location":"Downtown Cafe","description":"Live local music","time_availability":"Fridays 7pm","longitude":-89.64,"latitude":39.80}
]`

type stubModel struct {
	raw    string
	err    error
	prompt string
	schema []Field
	calls  int
}

func (m *stubModel) GenerateJSON(ctx context.Context, prompt string, schema []Field) (string, error) {
	m.calls++
	m.prompt = prompt
	m.schema = schema
	return m.raw, m.err
}

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("hiking,music", entity.GeoLocation{City: "Springfield", Region: "Illinois"})
	assert.Equal(t, "Give me a list of suggested activities based on these interests: hiking,music in the area of Springfield, Illinois", got)
}

func TestGenerateReturnsRecordsInOrder(t *testing.T) {
	model := &stubModel{raw: twoRecords}
	g := NewGenerator(model, time.Second)

	res, err := g.Generate(context.Background(), "hiking,music", entity.GeoLocation{City: "Springfield", Region: "Illinois"})
	require.NoError(t, err)

	assert.Equal(t, 1, model.calls)
	assert.Equal(t, "Give me a list of suggested activities based on these interests: hiking,music in the area of Springfield, Illinois", model.prompt)
	assert.Equal(t, ActivitySchema, model.schema)
	require.Len(t, res.Suggestions, 2)
	assert.Equal(t, entity.ActivitySuggestion{
		Activity: "Trail hike", Location: "Lincoln Trail", Description: "Loop through the woods",
		TimeAvailability: "Weekends", Longitude: -89.65, Latitude: 39.78,
	}, res.Suggestions[0])
	assert.Equal(t, "Open mic", res.Suggestions[1].Activity)
	assert.Equal(t, twoRecords, res.Raw)
}

func TestGenerateUpstreamFailure(t *testing.T) {
	g := NewGenerator(&stubModel{err: errors.New("503 from model")}, time.Second)
	res, err := g.Generate(context.Background(), "x", entity.GeoLocation{City: "a", Region: "b"})
	require.ErrorIs(t, err, ErrUpstream)
	assert.Empty(t, res.Suggestions)
}

func TestGenerateWithoutModel(t *testing.T) {
	_, err := NewGenerator(nil, 0).Generate(context.Background(), "x", entity.GeoLocation{City: "a", Region: "b"})
	require.ErrorIs(t, err, ErrUpstream)
}

func TestParseMissingDescription(t *testing.T) {
	raw := `[
	  {"activity":"a","location":"l","description":"d","time_availability":"t","longitude":1,"latitude":2},
	  {"activity":"a","location":"l","time_availability":"t","longitude":1,"latitude":2}
	]`
	got, err := Parse(raw)
	require.ErrorIs(t, err, ErrSchemaViolation)
	assert.Contains(t, err.Error(), `"description"`)
	assert.Nil(t, got)
}

func TestParseRejectsWrongTypes(t *testing.T) {
	cases := map[string]string{
		"string coordinate": `[{"activity":"a","location":"l","description":"d","time_availability":"t","longitude":"1.5","latitude":2}]`,
		"numeric activity":  `[{"activity":5,"location":"l","description":"d","time_availability":"t","longitude":1,"latitude":2}]`,
		"null latitude":     `[{"activity":"a","location":"l","description":"d","time_availability":"t","longitude":1,"latitude":null}]`,
		"object not array":  `{"activity":"a"}`,
		"array of strings":  `["hike"]`,
		"null element":      `[null]`,
		"not json":          `Sure! Here are some activities`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(raw)
			assert.ErrorIs(t, err, ErrSchemaViolation)
		})
	}
}

func TestParseEmptyArray(t *testing.T) {
	got, err := Parse(`[]`)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPrepareIP(t *testing.T) {
	_, err := PrepareIP(UnknownIP, "129.15.64.228")
	assert.ErrorIs(t, err, ErrNoIP)

	_, err = PrepareIP("  ", "129.15.64.228")
	assert.ErrorIs(t, err, ErrNoIP)

	_, err = PrepareIP("not-an-ip", "129.15.64.228")
	assert.ErrorIs(t, err, ErrNoIP)

	ip, err := PrepareIP("127.0.0.1", "129.15.64.228")
	require.NoError(t, err)
	assert.Equal(t, "129.15.64.228", ip)

	ip, err = PrepareIP("::1", "129.15.64.228")
	require.NoError(t, err)
	assert.Equal(t, "129.15.64.228", ip)

	ip, err = PrepareIP("8.8.8.8", "129.15.64.228")
	require.NoError(t, err)
	assert.Equal(t, "8.8.8.8", ip)

	ip, err = PrepareIP("2001:db8::1", "")
	require.NoError(t, err)
	assert.Equal(t, "2001:db8::1", ip)
}

func TestCheckLocation(t *testing.T) {
	loc, err := CheckLocation("Norman", "Oklahoma")
	require.NoError(t, err)
	assert.Equal(t, entity.GeoLocation{City: "Norman", Region: "Oklahoma"}, loc)

	_, err = CheckLocation(UnknownCity, "Oklahoma")
	assert.ErrorIs(t, err, ErrIncompleteLocation)
	_, err = CheckLocation("Norman", "")
	assert.ErrorIs(t, err, ErrIncompleteLocation)
}
