package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/etherescape/internal/interface/http"
	"github.com/oksasatya/etherescape/internal/interface/middleware"
	"github.com/oksasatya/etherescape/pkg/helpers"
)

// SuggestionModule: GET /suggestions. Each call costs one model request, so
// the per-user limit is tight.
type SuggestionModule struct {
	Handler *handlers.SuggestionHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewSuggestionModule(h *handlers.SuggestionHandler, jwt *helpers.JWTManager, rdb *redis.Client) *SuggestionModule {
	return &SuggestionModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *SuggestionModule) Register(rg *gin.RouterGroup) {
	rg.GET("/suggestions",
		middleware.Auth(m.Redis, m.JWT),
		middleware.RateLimit(m.Redis, 20, time.Minute, middleware.KeyByUserID(), nil),
		m.Handler.List,
	)
}
