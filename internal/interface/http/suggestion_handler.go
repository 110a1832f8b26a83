package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/etherescape/internal/domain/entity"
	"github.com/oksasatya/etherescape/internal/domain/suggestion"
	"github.com/oksasatya/etherescape/internal/interface/middleware"
	"github.com/oksasatya/etherescape/pkg/response"
)

// SuggestionUseCase never fails; an empty slice stands for "nothing to suggest".
type SuggestionUseCase interface {
	GetSuggestions(ctx context.Context, userID, ip string) []entity.ActivitySuggestion
}

type SuggestionHandler struct {
	Svc SuggestionUseCase
}

func NewSuggestionHandler(svc SuggestionUseCase) *SuggestionHandler {
	return &SuggestionHandler{Svc: svc}
}

// List always answers 200 with an array.
func (h *SuggestionHandler) List(c *gin.Context) {
	ip := middleware.RealIPFrom(c)
	if ip == "" {
		ip = suggestion.UnknownIP
	}
	items := h.Svc.GetSuggestions(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), ip)
	if items == nil {
		items = []entity.ActivitySuggestion{}
	}
	response.Success(c, http.StatusOK, items, "suggestions", map[string]any{"count": len(items)})
}
