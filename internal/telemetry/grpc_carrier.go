// Package telemetry adapts gRPC metadata to OpenTelemetry propagation.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"google.golang.org/grpc/metadata"
)

// MetadataTextMapCarrier lets a propagator read and write gRPC metadata.
type MetadataTextMapCarrier metadata.MD

func (c MetadataTextMapCarrier) Get(key string) string {
	if v := metadata.MD(c).Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c MetadataTextMapCarrier) Set(key, value string) {
	metadata.MD(c).Set(key, value)
}

func (c MetadataTextMapCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// ExtractIncoming continues the caller's trace carried in incoming metadata
// and returns that metadata for logging.
func ExtractIncoming(ctx context.Context) (context.Context, metadata.MD) {
	md, _ := metadata.FromIncomingContext(ctx)
	md = md.Copy()
	return otel.GetTextMapPropagator().Extract(ctx, MetadataTextMapCarrier(md)), md
}

// InjectOutgoing writes the current trace into a copy of the outgoing metadata.
func InjectOutgoing(ctx context.Context) (context.Context, metadata.MD) {
	md, ok := metadata.FromOutgoingContext(ctx)
	if ok {
		md = md.Copy()
	} else {
		md = metadata.MD{}
	}
	otel.GetTextMapPropagator().Inject(ctx, MetadataTextMapCarrier(md))
	return metadata.NewOutgoingContext(ctx, md), md
}
