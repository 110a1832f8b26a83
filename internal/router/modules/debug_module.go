package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/etherescape/internal/interface/middleware"
)

// DebugModule exposes expvar (/debug/vars) and Prometheus (/metrics).
// Private-range clients bypass the limiter so in-cluster scrapers are never throttled.
type DebugModule struct {
	Redis   *redis.Client
	Expvar  bool
	Metrics bool
}

func NewDebugModule(rdb *redis.Client, expvarEnabled, metricsEnabled bool) *DebugModule {
	return &DebugModule{Redis: rdb, Expvar: expvarEnabled, Metrics: metricsEnabled}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	if m.Expvar {
		rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	}
	if m.Metrics {
		rg.GET("/metrics", rl, gin.WrapH(promhttp.Handler()))
	}
}
