package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/oksasatya/etherescape/internal/domain/suggestion"
	"github.com/oksasatya/etherescape/internal/observability"
)

// Model implements suggestion.Model on the Gemini API with a JSON response
// schema.
type Model struct {
	client *genai.Client
	name   string
}

func NewModel(ctx context.Context, apiKey, model string) (*Model, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Model{client: client, name: model}, nil
}

func (m *Model) GenerateJSON(ctx context.Context, prompt string, fields []suggestion.Field) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   ResponseSchema(fields),
	}

	start := time.Now()
	resp, err := m.client.Models.GenerateContent(ctx, m.name, genai.Text(prompt), cfg)
	observability.ObserveUpstream("model", start)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from %s", m.name)
	}
	return text, nil
}

// ResponseSchema translates the record fields into a genai array-of-objects
// schema with every field required.
func ResponseSchema(fields []suggestion.Field) *genai.Schema {
	props := make(map[string]*genai.Schema, len(fields))
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		typ := genai.TypeString
		if f.Type == suggestion.FieldNumber {
			typ = genai.TypeNumber
		}
		props[f.Name] = &genai.Schema{Type: typ}
		names = append(names, f.Name)
	}
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type:             genai.TypeObject,
			Properties:       props,
			Required:         names,
			PropertyOrdering: names,
		},
	}
}

var _ suggestion.Model = (*Model)(nil)
