package router

import (
	"github.com/oksasatya/etherescape/internal/application"
	"github.com/oksasatya/etherescape/internal/container"
	"github.com/oksasatya/etherescape/internal/domain/suggestion"
	pginfra "github.com/oksasatya/etherescape/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/etherescape/internal/interface/http"
	"github.com/oksasatya/etherescape/internal/router/modules"
)

type appDeps struct {
	Users       *application.Service
	Events      *application.EventService
	Suggestions *application.SuggestionService
}

func buildDeps() appDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	events := pginfra.NewEventRepository(pool)
	interests := pginfra.NewInterestRepository(pool)
	mail := container.GetMailPublisher()

	userSvc := application.NewService(users, interests, container.GetJWT(), container.GetRedis(), mail, cfg, logger)

	eventSvc := application.NewEventService(events, users, logger)
	eventSvc.ES = container.GetES()
	eventSvc.ESIndex = cfg.ESEventsIndex
	eventSvc.Mail = mail
	eventSvc.Config = cfg

	// without a model the suggestion route still answers, with an empty list
	var gen *suggestion.Generator
	if m := container.GetModel(); m != nil {
		gen = suggestion.NewGenerator(m, cfg.SuggestionTimeout)
	}
	suggestionSvc := application.NewSuggestionService(users, container.GetGeoResolver(), gen, logger)
	if cfg.SuggestionArchiveEnabled {
		suggestionSvc.WithArchive(container.GetGCS(), cfg.GCSBucket)
	}

	return appDeps{Users: userSvc, Events: eventSvc, Suggestions: suggestionSvc}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	deps := buildDeps()
	jwt := container.GetJWT()
	rdb := container.GetRedis()

	r.Add(modules.NewUserModule(
		handlers.NewUserHandler(deps.Users, deps.Events, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure),
		jwt, rdb,
	))
	r.Add(modules.NewEventModule(handlers.NewEventHandler(deps.Events, container.GetLogger()), jwt, rdb))
	r.Add(modules.NewSuggestionModule(handlers.NewSuggestionHandler(deps.Suggestions), jwt, rdb))
	r.Add(modules.NewDebugModule(rdb, cfg.DebugMetricsEnabled, cfg.MetricsEnabled))
}
