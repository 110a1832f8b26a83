package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/etherescape/config"
	"github.com/oksasatya/etherescape/internal/domain/entity"
	"github.com/oksasatya/etherescape/internal/domain/geofence"
	repo "github.com/oksasatya/etherescape/internal/domain/repository"
	"github.com/oksasatya/etherescape/internal/observability"
	"github.com/oksasatya/etherescape/pkg/mailer"
	mailtpl "github.com/oksasatya/etherescape/pkg/mailer/templates"
)

// RewardPoints is credited once per verified event.
const RewardPoints = 10

var (
	// ErrEventNotFound covers both a missing event and someone else's event.
	ErrEventNotFound   = errors.New("event not found")
	ErrLocationNotSet  = errors.New("event location not set")
	ErrTooFar          = errors.New("too far from event")
	ErrInvalidPosition = errors.New("invalid coordinates")
)

// TooFarError carries the measured distance. errors.Is(err, ErrTooFar) holds.
type TooFarError struct {
	Distance float64
}

func (e *TooFarError) Error() string {
	return fmt.Sprintf("%s: %.4f miles", ErrTooFar, e.Distance)
}

func (e *TooFarError) Is(target error) bool { return target == ErrTooFar }

// VerifyResult is the outcome of a verification that did not fail.
type VerifyResult struct {
	EventID         string
	Verified        bool
	AlreadyVerified bool
	PointsAwarded   int
	Balance         int
	DistanceMiles   float64
}

type EventService struct {
	Events  repo.EventRepository
	Users   repo.UserRepository
	ES      *elasticsearch.Client
	ESIndex string
	Mail    mailer.Publisher
	Config  *config.Config
	Logger  *logrus.Logger
}

func NewEventService(events repo.EventRepository, users repo.UserRepository, logger *logrus.Logger) *EventService {
	return &EventService{Events: events, Users: users, Logger: logger}
}

type ScheduleInput struct {
	Activity         string
	Description      string
	Location         string
	TimeAvailability string
	ScheduledDate    time.Time
	Latitude         *float64
	Longitude        *float64
}

// Schedule creates a pending event owned by userID. Coordinates are optional
// but must come as a valid pair.
func (s *EventService) Schedule(ctx context.Context, userID string, in ScheduleInput) (*entity.ScheduledEvent, error) {
	e := &entity.ScheduledEvent{
		UserID:           userID,
		Activity:         strings.TrimSpace(in.Activity),
		Description:      strings.TrimSpace(in.Description),
		Location:         strings.TrimSpace(in.Location),
		TimeAvailability: strings.TrimSpace(in.TimeAvailability),
		ScheduledDate:    in.ScheduledDate,
	}
	switch {
	case in.Latitude == nil && in.Longitude == nil:
	case in.Latitude == nil || in.Longitude == nil:
		return nil, ErrInvalidPosition
	case !geofence.ValidCoordinates(*in.Latitude, *in.Longitude):
		return nil, ErrInvalidPosition
	default:
		lat, long := *in.Latitude, *in.Longitude
		e.Latitude, e.Longitude = &lat, &long
		e.Geohash = geohash.Encode(lat, long)
	}

	if err := s.Events.Create(ctx, e); err != nil {
		return nil, err
	}
	s.index(ctx, e)
	return e, nil
}

// ListPending returns the caller's events still awaiting verification.
func (s *EventService) ListPending(ctx context.Context, userID string) ([]entity.ScheduledEvent, error) {
	return s.Events.ListByUser(ctx, userID, false)
}

// History returns the caller's verified events.
func (s *EventService) History(ctx context.Context, userID string) ([]entity.ScheduledEvent, error) {
	return s.Events.ListByUser(ctx, userID, true)
}

// Verify runs ownership, coordinates and distance checks, then flips the event
// and awards RewardPoints in one atomic step. A repeat returns AlreadyVerified
// without awarding.
func (s *EventService) Verify(ctx context.Context, eventID, requesterID string, lat, long float64) (VerifyResult, error) {
	res, err := s.verify(ctx, eventID, requesterID, lat, long)
	observability.RecordVerification(verifyOutcome(res, err), res.PointsAwarded)

	fields := logrus.Fields{"event_id": eventID, "user_id": requesterID}
	if s.Logger != nil {
		switch {
		case err == nil:
			s.Logger.WithFields(fields).WithField("already_verified", res.AlreadyVerified).Info("attendance verified")
		case errors.Is(err, ErrTooFar) || errors.Is(err, ErrLocationNotSet) || errors.Is(err, ErrEventNotFound):
			s.Logger.WithFields(fields).WithField("reason", err.Error()).Info("attendance rejected")
		default:
			s.Logger.WithError(err).WithFields(fields).Error("attendance verification failed")
		}
	}
	return res, err
}

func (s *EventService) verify(ctx context.Context, eventID, requesterID string, lat, long float64) (VerifyResult, error) {
	e, err := s.Events.GetByID(ctx, eventID)
	if errors.Is(err, repo.ErrNotFound) {
		return VerifyResult{}, ErrEventNotFound
	}
	if err != nil {
		return VerifyResult{}, err
	}
	if !e.OwnedBy(requesterID) {
		return VerifyResult{}, ErrEventNotFound
	}

	if e.Latitude == nil || e.Longitude == nil || !geofence.ValidCoordinates(*e.Latitude, *e.Longitude) {
		return VerifyResult{}, ErrLocationNotSet
	}
	if !geofence.ValidCoordinates(lat, long) {
		return VerifyResult{}, ErrInvalidPosition
	}

	d := geofence.DistanceMiles(lat, long, *e.Latitude, *e.Longitude)
	if !geofence.WithinRadius(d) {
		return VerifyResult{}, &TooFarError{Distance: d}
	}

	awarded, balance, err := s.Events.MarkVerifiedAndAward(ctx, e.ID, requesterID, RewardPoints)
	if errors.Is(err, repo.ErrNotFound) {
		return VerifyResult{}, ErrEventNotFound
	}
	if err != nil {
		return VerifyResult{}, err
	}

	res := VerifyResult{EventID: e.ID, Verified: true, Balance: balance, DistanceMiles: d}
	if !awarded {
		res.AlreadyVerified = true
		return res, nil
	}
	res.PointsAwarded = RewardPoints

	now := time.Now()
	e.Verified = true
	e.VerifiedAt = &now
	s.notifyVerified(ctx, e, balance, now)
	s.index(ctx, e)
	return res, nil
}

func verifyOutcome(res VerifyResult, err error) string {
	switch {
	case err == nil && res.AlreadyVerified:
		return "already_verified"
	case err == nil:
		return "verified"
	case errors.Is(err, ErrEventNotFound):
		return "not_found"
	case errors.Is(err, ErrLocationNotSet):
		return "location_not_set"
	case errors.Is(err, ErrTooFar):
		return "too_far"
	case errors.Is(err, ErrInvalidPosition):
		return "invalid_position"
	default:
		return "error"
	}
}

// notifyVerified is best effort and never changes the verification result.
func (s *EventService) notifyVerified(ctx context.Context, e *entity.ScheduledEvent, balance int, at time.Time) {
	if s.Mail == nil || s.Config == nil || s.Users == nil {
		return
	}
	u, err := s.Users.GetByID(ctx, e.UserID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("event_id", e.ID).Warn("load user for notification failed")
		}
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.AttendanceVerified,
		Data: mailtpl.NewAttendanceVerifiedData(s.Config, u.Name, u.Email,
			mailtpl.WithEvent(e.Activity, e.Location, e.ScheduledDate),
			mailtpl.WithPoints(RewardPoints, balance),
			mailtpl.WithTime(at),
		),
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("event_id", e.ID).Warn("publish attendance email failed")
	}
}

// EventDocument is the search projection of a scheduled event.
type EventDocument struct {
	ID               string   `json:"id"`
	UserID           string   `json:"user_id"`
	Activity         string   `json:"activity"`
	Description      string   `json:"description"`
	Location         string   `json:"location"`
	TimeAvailability string   `json:"time_availability"`
	ScheduledDate    string   `json:"scheduled_date"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	Geohash          string   `json:"geohash,omitempty"`
	State            string   `json:"state"`
}

func toDocument(e *entity.ScheduledEvent) EventDocument {
	return EventDocument{
		ID:               e.ID,
		UserID:           e.UserID,
		Activity:         e.Activity,
		Description:      e.Description,
		Location:         e.Location,
		TimeAvailability: e.TimeAvailability,
		ScheduledDate:    e.ScheduledDate.Format("2006-01-02"),
		Latitude:         e.Latitude,
		Longitude:        e.Longitude,
		Geohash:          e.Geohash,
		State:            string(e.State()),
	}
}

func (s *EventService) index(ctx context.Context, e *entity.ScheduledEvent) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	b, _ := json.Marshal(toDocument(e))
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: e.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("event_id", e.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("event_id", e.ID).Warn("es index response error")
	}
}

// Search matches q against the caller's events. Without Elasticsearch it
// returns an empty list.
func (s *EventService) Search(ctx context.Context, userID, q string, size int) ([]EventDocument, error) {
	if s.ES == nil || s.ESIndex == "" || strings.TrimSpace(q) == "" {
		return []EventDocument{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"activity^2", "location", "description"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id.keyword": userID},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source EventDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]EventDocument, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
