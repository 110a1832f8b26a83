package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/oksasatya/etherescape/internal/domain/suggestion"
)

func TestResponseSchema(t *testing.T) {
	s := ResponseSchema(suggestion.ActivitySchema)

	require.Equal(t, genai.TypeArray, s.Type)
	require.NotNil(t, s.Items)
	assert.Equal(t, genai.TypeObject, s.Items.Type)
	assert.Equal(t, []string{"activity", "location", "description", "time_availability", "longitude", "latitude"}, s.Items.Required)
	assert.Equal(t, genai.TypeString, s.Items.Properties["description"].Type)
	assert.Equal(t, genai.TypeNumber, s.Items.Properties["latitude"].Type)
}

func TestNewModelRequiresKey(t *testing.T) {
	_, err := NewModel(context.Background(), " ", "gemini-2.0-flash")
	assert.Error(t, err)
}
