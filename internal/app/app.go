package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"MovieMoodRecommender/internal/api"
	"MovieMoodRecommender/internal/config"
	"MovieMoodRecommender/internal/infrastructure/llm"
	"MovieMoodRecommender/internal/infrastructure/tmdb"
	"MovieMoodRecommender/internal/logging"
	"MovieMoodRecommender/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	server *http.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	catalog := tmdb.NewClient(cfg.TMDB, nil)
	curator := llm.NewOpenAIClient(cfg.OpenAI, nil)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Catalog:  catalog,
		Curator:  curator,
		Trailers: catalog,
		Logger:   baseLogger.With("component", "pipeline"),
	})

	handler := api.NewHandler(pipeline, baseLogger.With("component", "api"))
	router := api.NewRouter(handler, baseLogger.With("component", "http"))

	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		server: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("listening", "addr", a.cfg.Server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.logger.Info("shutting down")
	return a.server.Shutdown(shutdownCtx)
}
