package suggestion

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/oksasatya/etherescape/internal/domain/entity"
)

// FieldType is the JSON type of a schema field.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldNumber FieldType = "number"
)

// Field is one required property of a suggestion record.
type Field struct {
	Name string
	Type FieldType
}

// ActivitySchema is the output contract: an array of records carrying all of
// these fields. Coordinates are required so a suggestion can be scheduled and
// later verified.
var ActivitySchema = []Field{
	{Name: "activity", Type: FieldString},
	{Name: "location", Type: FieldString},
	{Name: "description", Type: FieldString},
	{Name: "time_availability", Type: FieldString},
	{Name: "longitude", Type: FieldNumber},
	{Name: "latitude", Type: FieldNumber},
}

// Parse decodes a model payload and checks every record field by field.
func Parse(raw string) ([]entity.ActivitySuggestion, error) {
	var records []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: payload is not a json array of objects: %v", ErrSchemaViolation, err)
	}

	out := make([]entity.ActivitySuggestion, 0, len(records))
	for i, rec := range records {
		if rec == nil {
			return nil, fmt.Errorf("%w: element %d is null", ErrSchemaViolation, i)
		}
		var s entity.ActivitySuggestion
		targets := map[string]any{
			"activity":          &s.Activity,
			"location":          &s.Location,
			"description":       &s.Description,
			"time_availability": &s.TimeAvailability,
			"longitude":         &s.Longitude,
			"latitude":          &s.Latitude,
		}
		for _, f := range ActivitySchema {
			val, ok := rec[f.Name]
			if !ok {
				return nil, fmt.Errorf("%w: element %d missing %q", ErrSchemaViolation, i, f.Name)
			}
			if err := decodeField(val, f.Type, targets[f.Name]); err != nil {
				return nil, fmt.Errorf("%w: element %d field %q: %v", ErrSchemaViolation, i, f.Name, err)
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeField(val json.RawMessage, typ FieldType, dst any) error {
	trimmed := bytes.TrimSpace(val)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("null")
	}
	switch typ {
	case FieldString:
		if trimmed[0] != '"' {
			return fmt.Errorf("want string")
		}
	case FieldNumber:
		if c := trimmed[0]; c != '-' && (c < '0' || c > '9') {
			return fmt.Errorf("want number")
		}
	}
	return json.Unmarshal(trimmed, dst)
}
