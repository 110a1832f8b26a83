package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/etherescape/internal/interface/http"
	"github.com/oksasatya/etherescape/internal/interface/middleware"
	"github.com/oksasatya/etherescape/pkg/helpers"
)

// EventModule: scheduling, attendance verification and search. All protected.
type EventModule struct {
	Handler *handlers.EventHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewEventModule(h *handlers.EventHandler, jwt *helpers.JWTManager, rdb *redis.Client) *EventModule {
	return &EventModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *EventModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/events")
	auth.Use(middleware.Auth(m.Redis, m.JWT))
	auth.Use(middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("", m.Handler.Schedule)
		auth.GET("", m.Handler.ListPending)
		auth.GET("/search", m.Handler.Search)
		// duplicate submissions are harmless, but cap bursts per route and user
		auth.POST("/:id/verify",
			middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByUserID(), nil),
			m.Handler.Verify,
		)
	}
}
