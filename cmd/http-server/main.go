package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gold-catalog/internal/app"
	"gold-catalog/internal/config"
	handler "gold-catalog/internal/handler/http"
	"gold-catalog/internal/logger"
	middleware_http "gold-catalog/internal/middleware/http"
	"gold-catalog/internal/tracer"
	"gold-catalog/internal/ui"
	"gold-catalog/internal/version"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	globalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Instance()
	cfg := config.Instance()

	logger.Info(globalCtx, cfg.AppName,
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("buildTime", version.BuildTime),
		slog.Bool("gracefulShutdown", cfg.IsProduction()),
	)

	// Initialize telemetry (OpenTelemetry + Pyroscope)
	shutdown, _ := tracer.Instance(globalCtx, cfg)
	defer shutdown()

	components, err := app.Build(globalCtx, cfg)
	if err != nil {
		logger.Error(globalCtx, "Failed to wire services", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer components.Close(context.Background())

	page, err := ui.NewPage()
	if err != nil {
		logger.Error(globalCtx, "Failed to load catalog page", slog.String("error", err.Error()))
		os.Exit(1)
	}

	productHandler := handler.NewProductHandler(components.Products)
	spotPriceHandler := handler.NewSpotPriceHandler(components.Products)
	healthHandler := handler.NewHealthHandler(components.Health)
	pageHandler := handler.NewCatalogPageHandler(components.Products, page, cfg.ClientDebounceMs)

	// Routing
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products", productHandler.List)
	mux.HandleFunc("/api/spot-price", spotPriceHandler.Fetch)
	mux.HandleFunc("/healthz", healthHandler.Check)
	mux.HandleFunc("/", pageHandler.Render)

	cors := middleware_http.CORSMiddleware(middleware_http.DefaultCORSOptions(cfg.AllowedOrigins))
	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      cors(middleware_http.TraceMiddleware()(mux)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	g, gctx := errgroup.WithContext(globalCtx)
	g.Go(func() error {
		logger.Info(gctx, "HTTP server running", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		if !cfg.IsProduction() {
			logger.Info(gctx, "Received shutdown signal, closing immediately")
			return server.Close()
		}
		logger.Info(gctx, "Shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(ctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(globalCtx, "Server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info(context.Background(), "HTTP server exited cleanly")
}
