package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/etherescape/internal/application"
	"github.com/oksasatya/etherescape/internal/domain/entity"
	"github.com/oksasatya/etherescape/internal/interface/middleware"
	"github.com/oksasatya/etherescape/pkg/helpers"
	"github.com/oksasatya/etherescape/pkg/response"
	"github.com/oksasatya/etherescape/pkg/validation"
)

type UserHandler struct {
	Svc     *userapp.Service
	Events  EventUseCase
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *userapp.Service, events EventUseCase, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Events: events, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type signupRequest struct {
	FirstName string   `json:"first_name" binding:"required,max=100"`
	LastName  string   `json:"last_name" binding:"max=100"`
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,pwd"`
	Interests []string `json:"interests" binding:"max=20,dive,max=50"`
	Bio       string   `json:"bio" binding:"max=1000"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type profileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	Interests []string  `json:"interests"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

func toProfile(u *entity.User) profileResponse {
	return profileResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Name:      u.Name,
		Bio:       u.Bio,
		Interests: u.InterestList(),
		Points:    u.Points,
		CreatedAt: u.CreatedAt,
	}
}

func (h *UserHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Signup(c.Request.Context(), userapp.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Interests: req.Interests,
		Bio:       req.Bio,
	})
	if errors.Is(err, userapp.ErrEmailTaken) {
		response.Error[any](c, http.StatusConflict, "email already registered", nil)
		return
	}
	if err != nil {
		helpers.LogError(h.Logger, "signup failed", err, nil)
		response.Error[any](c, http.StatusInternalServerError, "signup failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, toProfile(u), "account created", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, toProfile(u), "login successful", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), c.GetString(middleware.CtxUserIDKey)); err != nil {
		helpers.LogError(h.Logger, "drop session failed", err, nil)
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, toProfile(u), "profile", nil)
}

func (h *UserHandler) ListInterests(c *gin.Context) {
	list, err := h.Svc.ListInterests(c.Request.Context())
	if err != nil {
		helpers.LogError(h.Logger, "list interests failed", err, nil)
		response.Error[any](c, http.StatusInternalServerError, "failed to load interests", nil)
		return
	}
	names := make([]string, 0, len(list))
	for _, it := range list {
		names = append(names, it.Name)
	}
	response.Success(c, http.StatusOK, names, "interests", nil)
}

type historyItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Date     string `json:"date"`
}

// History lists the caller's verified events, dates as YYYY-MM-DD.
func (h *UserHandler) History(c *gin.Context) {
	events, err := h.Events.History(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		helpers.LogError(h.Logger, "load history failed", err, nil)
		response.Error[any](c, http.StatusInternalServerError, "failed to load history", nil)
		return
	}
	out := make([]historyItem, 0, len(events))
	for _, e := range events {
		out = append(out, historyItem{
			ID:       e.ID,
			Title:    e.Activity,
			Location: e.Location,
			Date:     e.ScheduledDate.Format(validation.DateLayout),
		})
	}
	response.Success(c, http.StatusOK, out, "history", nil)
}
