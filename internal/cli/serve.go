package cli

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"shopdash/internal/dataset"
	"shopdash/internal/middleware"
	"shopdash/internal/observability"
	"shopdash/internal/server"
	"shopdash/internal/services"
	"shopdash/internal/ui/templates"
)

const (
	renderTimeout      = 10 * time.Second
	datasetLoadTimeout = 30 * time.Second
	pageCacheControl   = "no-cache"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	RunE:  runServe,
}

func dashboardHandler(analytics *services.Analytics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Cache-Control", pageCacheControl)
		if err := templates.Dashboard(analytics.Defaults()).Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"config", cfg,
	)

	provider := dataset.NewProvider(cfg.Dataset, logger)

	ctx, cancel := context.WithTimeout(cmd.Context(), datasetLoadTimeout)
	defer cancel()

	orders, err := provider.Orders(ctx)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		return err
	}

	analytics := services.NewAnalytics(logger)
	analytics.SetData(orders)

	templateHandlers := &server.TemplateHandlers{
		Dashboard: dashboardHandler(analytics),
	}

	srv := server.NewServer(analytics, logger, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.Compression(logger),
		middleware.RateLimit(rateLimiter, logger),
	)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      middlewareChain(srv),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down analytics service")
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		return err
	}

	logger.Info("application stopped gracefully")
	return nil
}
