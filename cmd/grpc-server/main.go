package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"gold-catalog/internal/app"
	"gold-catalog/internal/config"
	grpcHandler "gold-catalog/internal/handler/grpc"
	"gold-catalog/internal/logger"
	middleware_grpc "gold-catalog/internal/middleware/grpc"
	"gold-catalog/internal/tracer"
	"gold-catalog/internal/version"
)

func main() {
	// Create cancellable context for graceful shutdown
	globalCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

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

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(middleware_grpc.UnaryTracingInterceptor()),
	)
	grpcHandler.RegisterCatalogServer(grpcServer, grpcHandler.NewCatalogGRPCHandler(components.Products))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(grpcHandler.CatalogServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", ":"+cfg.GrpcPort)
	if err != nil {
		logger.Error(globalCtx, "failed to listen", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info(globalCtx, "gRPC server running", slog.String("port", cfg.GrpcPort))

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error(globalCtx, "failed to serve", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-globalCtx.Done()
	healthServer.Shutdown()

	if !cfg.IsProduction() {
		logger.Info(context.Background(), "Received shutdown signal, stopping immediately")
		grpcServer.Stop()
		return
	}
	logger.Info(context.Background(), "Shutting down gRPC server")
	grpcServer.GracefulStop()
	logger.Info(context.Background(), "gRPC server exited cleanly")
}
