package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/budgetbox/internal/api/handlers"
	"github.com/baharkarakas/budgetbox/internal/config"
	"github.com/baharkarakas/budgetbox/internal/metrics"
	"github.com/baharkarakas/budgetbox/internal/middleware"
	"github.com/baharkarakas/budgetbox/internal/services"
)

func NewRouter(cfg config.Config, ss *services.SyncService, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	h := handlers.NewBudgetHandler(ss, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Logger(log), middleware.Recover, middleware.RateLimit(cfg.RateRPS))
	r.Use(middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	// health & metrics
	r.Get("/", h.Health)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	r.Route("/budget", func(r chi.Router) {
		r.Post("/sync", h.Push)
		r.Get("/latest", h.Latest)
		r.Get("/history", h.History)
	})

	return r
}
