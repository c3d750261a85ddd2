package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the HTTP surface: middleware stack, API routes and
// the metrics endpoint.
func NewRouter(handler *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Instrument)
		r.Use(httprate.LimitByIP(120, time.Minute))

		r.Get("/health", handler.Health)
		r.Get("/genres", handler.Genres)
		r.Get("/about", handler.About)
		r.Get("/movies", handler.Movies)

		// curation spends model tokens, keep it on a tighter budget
		r.With(httprate.LimitByIP(10, time.Minute)).
			Post("/recommendations", handler.Recommend)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
