package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nandobmont/ano-safra/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET  /health
//	GET  /api/v1/semesters?date=
//	GET  /api/v1/harvest-year?date=&separator=
//	GET  /api/v1/harvest-year/status?date=
//	GET  /api/v1/harvest-years
//	GET  /api/v1/harvest-years/{harvest}/days
//	GET  /api/v1/days/{date}
//	POST /api/v1/days/seed            (API key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/semesters", handlers.GetSemesters)
		r.Get("/harvest-year", handlers.GetHarvestYear)
		r.Get("/harvest-year/status", handlers.GetHarvestYearStatus)
		r.Get("/harvest-years", handlers.ListHarvestYears)
		r.Get("/harvest-years/{harvest}/days", handlers.GetHarvestYearDays)
		r.Get("/days/{date}", handlers.GetDay)

		r.With(AuthMiddleware(cfg, logger)).Post("/days/seed", handlers.SeedDays)
	})

	return r
}
