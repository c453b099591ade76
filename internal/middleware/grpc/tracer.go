package middleware_grpc

import (
	"context"
	"log/slog"
	"time"

	"gold-catalog/internal/logger"
	"gold-catalog/internal/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

var tracer = otel.Tracer("GrpcMiddleware")

// TraceIDTrailer carries the server span's trace id back to the caller.
const TraceIDTrailer = "x-trace-id"

// UnaryTracingInterceptor continues the caller's trace from incoming metadata,
// logs request and response and returns the trace id in a trailer.
func UnaryTracingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		ctx, md := telemetry.ExtractIncoming(ctx)

		ctx, span := tracer.Start(ctx, info.FullMethod)
		defer span.End()

		remote := ""
		if p, ok := peer.FromContext(ctx); ok {
			remote = p.Addr.String()
		}
		attrs := logger.LogGRPCRequest(ctx, info.FullMethod, md, req, "incoming::request")
		attrs = append(attrs, slog.String("grpc.remote", remote))
		logger.Info(ctx, "GRPC", attrs...)

		if span.SpanContext().IsValid() {
			_ = grpc.SetTrailer(ctx, metadata.Pairs(TraceIDTrailer, span.SpanContext().TraceID().String()))
		}

		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		span.SetAttributes(
			attribute.String("rpc.method", info.FullMethod),
			attribute.String("rpc.grpc.status_code", code.String()),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, code.String())
		}

		logger.Info(ctx, "GRPC", logger.LogGRPCResponse(ctx, info.FullMethod, code, resp, time.Since(start), "incoming::response")...)
		return resp, err
	}
}

// UnaryClientTracingInterceptor injects the current trace context into
// outgoing metadata.
func UnaryClientTracingInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		ctx, span := tracer.Start(ctx, "GrpcClient "+method)
		defer span.End()

		ctx, md := telemetry.InjectOutgoing(ctx)

		logger.Info(ctx, "GRPC", logger.LogGRPCRequest(ctx, method, md, req, "outgoing::request")...)

		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, status.Code(err).String())
		}
		logger.Info(ctx, "GRPC", logger.LogGRPCResponse(ctx, method, status.Code(err), reply, time.Since(start), "outgoing::response")...)
		return err
	}
}
