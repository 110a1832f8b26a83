// Package suggestion turns a user's interests and coarse location into a list
// of activity suggestions produced by a schema-constrained generative model.
package suggestion

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/oksasatya/etherescape/internal/domain/entity"
)

var (
	ErrNoIP               = errors.New("no usable client ip")
	ErrLookup             = errors.New("geolocation lookup failed")
	ErrIncompleteLocation = errors.New("geolocation incomplete")
	ErrSchemaViolation    = errors.New("model response violates schema")
	ErrUpstream           = errors.New("model call failed")
)

const (
	// UnknownIP is what the transport hands over when it could not determine
	// a client address.
	UnknownIP = "Unknown IP"
	// UnknownCity and UnknownRegion are the placeholders for absent lookup fields.
	UnknownCity   = "Unknown City"
	UnknownRegion = "Unknown Region"
)

// GeoResolver maps a client IP to a city/region pair.
type GeoResolver interface {
	Resolve(ctx context.Context, ip string) (entity.GeoLocation, error)
}

// Model is the generative backend. It must return the raw JSON text produced
// under the given output schema.
type Model interface {
	GenerateJSON(ctx context.Context, prompt string, schema []Field) (string, error)
}

// PrepareIP validates ip and applies the loopback substitution. The fallback
// exists so the flow can be exercised from a developer machine, where the
// client address is always loopback.
func PrepareIP(ip, loopbackFallback string) (string, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" || ip == UnknownIP {
		return "", ErrNoIP
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", fmt.Errorf("%w: %q is not an ip literal", ErrNoIP, ip)
	}
	if parsed.IsLoopback() && loopbackFallback != "" {
		return loopbackFallback, nil
	}
	return parsed.String(), nil
}

// CheckLocation rejects lookups that came back without a city or region.
func CheckLocation(city, region string) (entity.GeoLocation, error) {
	city, region = strings.TrimSpace(city), strings.TrimSpace(region)
	if city == "" || region == "" || city == UnknownCity || region == UnknownRegion {
		return entity.GeoLocation{}, fmt.Errorf("%w: city=%q region=%q", ErrIncompleteLocation, city, region)
	}
	return entity.GeoLocation{City: city, Region: region}, nil
}

// BuildPrompt renders the model prompt. Interests are embedded verbatim.
func BuildPrompt(interests string, loc entity.GeoLocation) string {
	return fmt.Sprintf(
		"Give me a list of suggested activities based on these interests: %s in the area of %s, %s",
		interests, loc.City, loc.Region,
	)
}

// Result is one generation: the prompt sent, the raw payload received and
// the validated suggestions in payload order.
type Result struct {
	Prompt      string
	Raw         string
	Suggestions []entity.ActivitySuggestion
}

// Generator runs one model call per request. No retries, no caching.
type Generator struct {
	model   Model
	timeout time.Duration
}

func NewGenerator(model Model, timeout time.Duration) *Generator {
	return &Generator{model: model, timeout: timeout}
}

// Generate builds the prompt, calls the model under ActivitySchema and
// validates the payload. Failures are ErrUpstream or ErrSchemaViolation.
func (g *Generator) Generate(ctx context.Context, interests string, loc entity.GeoLocation) (Result, error) {
	res := Result{Prompt: BuildPrompt(interests, loc)}
	if g.model == nil {
		return res, fmt.Errorf("%w: no model configured", ErrUpstream)
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	raw, err := g.model.GenerateJSON(ctx, res.Prompt, ActivitySchema)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	res.Raw = raw

	items, err := Parse(raw)
	if err != nil {
		return res, err
	}
	res.Suggestions = items
	return res, nil
}
