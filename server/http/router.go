package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"warehouse-service/internal/config"
	lookupHnd "warehouse-service/internal/lookup/handler"
	"warehouse-service/internal/middleware"
	"warehouse-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, deps lookupHnd.Deps) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))

	r.Get("/health", handlers.Health(deps.Store))

	r.Route("/lookup", func(r chi.Router) {
		r.Get("/", lookupHnd.Lookup(deps))
		r.Get("/text", lookupHnd.LookupText(deps))
	})
	r.Post("/reload", lookupHnd.Reload(deps))

	return r
}
