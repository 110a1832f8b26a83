package application

import (
	"bytes"
	"context"
	"errors"
	"path"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/etherescape/internal/domain/entity"
	repo "github.com/oksasatya/etherescape/internal/domain/repository"
	"github.com/oksasatya/etherescape/internal/domain/suggestion"
	"github.com/oksasatya/etherescape/internal/observability"
	"github.com/oksasatya/etherescape/pkg/helpers"
)

// SuggestionService runs GeoResolver then the generator for one user.
// Every failure is absorbed into an empty list.
type SuggestionService struct {
	Users     repo.UserRepository
	Resolver  suggestion.GeoResolver
	Generator *suggestion.Generator
	GCS       *storage.Client
	GCSBucket string
	Archive   bool
	Logger    *logrus.Logger
}

func NewSuggestionService(users repo.UserRepository, resolver suggestion.GeoResolver, gen *suggestion.Generator, logger *logrus.Logger) *SuggestionService {
	return &SuggestionService{Users: users, Resolver: resolver, Generator: gen, Logger: logger}
}

// WithArchive stores every raw model payload under suggestions/{user}/ in bucket.
func (s *SuggestionService) WithArchive(gcs *storage.Client, bucket string) *SuggestionService {
	s.GCS = gcs
	s.GCSBucket = bucket
	s.Archive = gcs != nil && bucket != ""
	return s
}

// GetSuggestions never returns nil and never fails; callers render the slice as-is.
func (s *SuggestionService) GetSuggestions(ctx context.Context, userID, ip string) []entity.ActivitySuggestion {
	out, outcome := s.suggest(ctx, userID, ip)
	observability.RecordSuggestion(outcome)
	return out
}

func (s *SuggestionService) suggest(ctx context.Context, userID, ip string) ([]entity.ActivitySuggestion, string) {
	empty := []entity.ActivitySuggestion{}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		s.warn(err, userID, "load user failed")
		return empty, "user_error"
	}
	if s.Resolver == nil || s.Generator == nil {
		return empty, "disabled"
	}

	loc, err := s.Resolver.Resolve(ctx, ip)
	if err != nil {
		s.warn(err, userID, "geolocation failed")
		return empty, failureKind(err)
	}

	res, err := s.Generator.Generate(ctx, u.Interests, loc)
	if res.Raw != "" {
		s.archive(ctx, userID, res.Raw)
	}
	if err != nil {
		s.warn(err, userID, "suggestion generation failed")
		return empty, failureKind(err)
	}
	if res.Suggestions == nil {
		return empty, "ok"
	}
	return res.Suggestions, "ok"
}

func (s *SuggestionService) archive(ctx context.Context, userID, raw string) {
	if !s.Archive || s.GCS == nil {
		return
	}
	object := path.Join("suggestions", userID, uuid.NewString()+".json")
	if _, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, object, "application/json", bytes.NewReader([]byte(raw))); err != nil {
		s.warn(err, userID, "archive suggestion payload failed")
	}
}

func (s *SuggestionService) warn(err error, userID, msg string) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": userID, "kind": failureKind(err)}).Warn(msg)
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, suggestion.ErrNoIP):
		return "no_ip"
	case errors.Is(err, suggestion.ErrLookup):
		return "lookup_error"
	case errors.Is(err, suggestion.ErrIncompleteLocation):
		return "incomplete_location"
	case errors.Is(err, suggestion.ErrSchemaViolation):
		return "schema_violation"
	case errors.Is(err, suggestion.ErrUpstream):
		return "upstream_error"
	default:
		return "error"
	}
}
