package main

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"

	"gold-catalog/internal/config"
	grpcHandler "gold-catalog/internal/handler/grpc"
	"gold-catalog/internal/logger"
	middleware_grpc "gold-catalog/internal/middleware/grpc"
	"gold-catalog/internal/tracer"
	"gold-catalog/internal/version"

	"go.opentelemetry.io/otel"
)

func main() {
	// Create cancellable context for graceful shutdown
	globalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Instance()
	cfg := config.Instance()

	shutdown, _ := tracer.Instance(globalCtx, cfg)
	defer shutdown()
	tr := otel.Tracer("catalog-grpc-client")

	logger.Info(globalCtx, cfg.AppName,
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("buildTime", version.BuildTime),
		slog.Bool("gracefulShutdown", cfg.IsProduction()),
	)

	conn, err := grpc.NewClient(
		cfg.ExternalGRPC,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultServiceConfig(`{"loadBalancingPolicy":"round_robin"}`),
		grpc.WithUnaryInterceptor(middleware_grpc.UnaryClientTracingInterceptor()),
	)
	if err != nil {
		logger.Error(globalCtx, "Failed to connect to gRPC server",
			slog.String("error", err.Error()),
			slog.String("target", cfg.ExternalGRPC),
		)
		os.Exit(1)
	}
	defer func() {
		logger.Info(context.Background(), "Closing gRPC connection")
		_ = conn.Close()
	}()

	client := grpcHandler.NewCatalogClient(conn)
	req := &structpb.Struct{}

	logger.Info(globalCtx, "gRPC client started",
		slog.String("target", cfg.ExternalGRPC),
		slog.Int64("max_client_delay", cfg.ClientMaxSleepMs),
	)

	for {
		ctx, cancel := context.WithTimeout(globalCtx, 3*time.Second)
		ctx, span := tr.Start(ctx, "catalog-grpc-request")
		var trailer metadata.MD

		resp, err := client.ListProducts(ctx, req, grpc.Trailer(&trailer))
		cancel()
		span.End()

		traceID := "empty"
		if ids := trailer.Get(middleware_grpc.TraceIDTrailer); len(ids) > 0 {
			traceID = ids[0]
		}

		if err != nil {
			logger.Error(ctx, "Error calling ListProducts",
				slog.String("error", err.Error()),
				slog.String("trace_id", traceID),
			)
		} else {
			fields := resp.GetFields()
			logger.Info(ctx, "Received products",
				slog.String("resolver", fields["resolver"].GetStringValue()),
				slog.String("trace_id", traceID),
				slog.Int("count", len(fields["products"].GetListValue().GetValues())),
			)
		}

		delay := time.Duration(rand.Int63n(cfg.ClientMaxSleepMs)+1) * time.Millisecond
		select {
		case <-globalCtx.Done():
			logger.Info(context.Background(), "Shutting down gRPC client")
			return
		case <-time.After(delay):
		}
	}
}
