package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/etherescape/internal/application"
	"github.com/oksasatya/etherescape/internal/domain/entity"
	"github.com/oksasatya/etherescape/internal/interface/middleware"
	"github.com/oksasatya/etherescape/pkg/helpers"
	"github.com/oksasatya/etherescape/pkg/response"
	"github.com/oksasatya/etherescape/pkg/validation"
)

// EventUseCase is what the event routes need from application.EventService.
type EventUseCase interface {
	Schedule(ctx context.Context, userID string, in application.ScheduleInput) (*entity.ScheduledEvent, error)
	ListPending(ctx context.Context, userID string) ([]entity.ScheduledEvent, error)
	History(ctx context.Context, userID string) ([]entity.ScheduledEvent, error)
	Verify(ctx context.Context, eventID, requesterID string, lat, long float64) (application.VerifyResult, error)
	Search(ctx context.Context, userID, q string, size int) ([]application.EventDocument, error)
}

// TooFarMessage is shown when the reported position is outside the geofence.
const TooFarMessage = "You are not close enough to verify attendance."

type EventHandler struct {
	Svc    EventUseCase
	Logger *logrus.Logger
}

func NewEventHandler(svc EventUseCase, logger *logrus.Logger) *EventHandler {
	return &EventHandler{Svc: svc, Logger: logger}
}

type scheduleRequest struct {
	Activity         string   `json:"activity" binding:"required,max=200"`
	Description      string   `json:"description" binding:"max=2000"`
	Location         string   `json:"location" binding:"required,max=200"`
	TimeAvailability string   `json:"time_availability" binding:"max=200"`
	ScheduledDate    string   `json:"scheduled_date" binding:"required,ymd"`
	Latitude         *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude        *float64 `json:"longitude" binding:"omitempty,longitude"`
}

type verifyRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,latitude"`
	Longitude *float64 `json:"longitude" binding:"required,longitude"`
}

type eventResponse struct {
	ID               string     `json:"id"`
	Activity         string     `json:"activity"`
	Description      string     `json:"description"`
	Location         string     `json:"location"`
	TimeAvailability string     `json:"time_availability"`
	ScheduledDate    string     `json:"scheduled_date"`
	Latitude         *float64   `json:"latitude"`
	Longitude        *float64   `json:"longitude"`
	State            string     `json:"state"`
	Verified         bool       `json:"verified"`
	VerifiedAt       *time.Time `json:"verified_at,omitempty"`
}

func toEventResponse(e *entity.ScheduledEvent) eventResponse {
	return eventResponse{
		ID:               e.ID,
		Activity:         e.Activity,
		Description:      e.Description,
		Location:         e.Location,
		TimeAvailability: e.TimeAvailability,
		ScheduledDate:    e.ScheduledDate.Format(validation.DateLayout),
		Latitude:         e.Latitude,
		Longitude:        e.Longitude,
		State:            string(e.State()),
		Verified:         e.Verified,
		VerifiedAt:       e.VerifiedAt,
	}
}

func (h *EventHandler) Schedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	date, _ := time.Parse(validation.DateLayout, req.ScheduledDate)

	e, err := h.Svc.Schedule(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), application.ScheduleInput{
		Activity:         req.Activity,
		Description:      req.Description,
		Location:         req.Location,
		TimeAvailability: req.TimeAvailability,
		ScheduledDate:    date,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
	})
	if errors.Is(err, application.ErrInvalidPosition) {
		response.Error[any](c, http.StatusBadRequest, "invalid coordinates", nil)
		return
	}
	if err != nil {
		helpers.LogError(h.Logger, "schedule event failed", err, nil)
		response.Error[any](c, http.StatusInternalServerError, "failed to schedule event", nil)
		return
	}
	response.Success(c, http.StatusCreated, toEventResponse(e), "event scheduled", nil)
}

func (h *EventHandler) ListPending(c *gin.Context) {
	events, err := h.Svc.ListPending(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		helpers.LogError(h.Logger, "list events failed", err, nil)
		response.Error[any](c, http.StatusInternalServerError, "failed to load events", nil)
		return
	}
	out := make([]eventResponse, 0, len(events))
	for i := range events {
		out = append(out, toEventResponse(&events[i]))
	}
	response.Success(c, http.StatusOK, out, "scheduled events", nil)
}

type verifyResponse struct {
	EventID         string  `json:"event_id"`
	Verified        bool    `json:"verified"`
	AlreadyVerified bool    `json:"already_verified"`
	PointsAwarded   int     `json:"points_awarded"`
	Balance         int     `json:"points"`
	DistanceMiles   float64 `json:"distance_miles"`
}

// Verify maps the lifecycle outcome onto HTTP: not found 404, no event
// location 422, too far 400, already verified 200.
func (h *EventHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Verify(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserIDKey), *req.Latitude, *req.Longitude)
	var tooFar *application.TooFarError
	switch {
	case err == nil:
		msg := "attendance verified"
		if res.AlreadyVerified {
			msg = "attendance already verified"
		}
		response.Success(c, http.StatusOK, verifyResponse{
			EventID:         res.EventID,
			Verified:        res.Verified,
			AlreadyVerified: res.AlreadyVerified,
			PointsAwarded:   res.PointsAwarded,
			Balance:         res.Balance,
			DistanceMiles:   res.DistanceMiles,
		}, msg, nil)
	case errors.As(err, &tooFar):
		response.Error[any](c, http.StatusBadRequest, TooFarMessage, gin.H{"distance_miles": tooFar.Distance})
	case errors.Is(err, application.ErrEventNotFound):
		response.Error[any](c, http.StatusNotFound, "event not found", nil)
	case errors.Is(err, application.ErrLocationNotSet):
		response.Error[any](c, http.StatusUnprocessableEntity, "event has no location to verify against", nil)
	case errors.Is(err, application.ErrInvalidPosition):
		response.Error[any](c, http.StatusBadRequest, "invalid coordinates", nil)
	default:
		helpers.LogError(h.Logger, "verify attendance failed", err, logrus.Fields{"event_id": c.Param("id")})
		response.Error[any](c, http.StatusInternalServerError, "failed to verify attendance", nil)
	}
}

// Search runs a full-text query over the caller's events.
func (h *EventHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	docs, err := h.Svc.Search(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Query("q"), size)
	if err != nil {
		helpers.LogError(h.Logger, "search events failed", err, nil)
		response.Error[any](c, http.StatusBadGateway, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, docs, "search results", nil)
}
