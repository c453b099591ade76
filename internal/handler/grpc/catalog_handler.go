package grpc

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"gold-catalog/internal/filter"
	"gold-catalog/internal/logger"
	"gold-catalog/internal/service"
	"gold-catalog/internal/utils"

	"go.opentelemetry.io/otel"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// LoadFailedMessage matches the HTTP API's failure message.
const LoadFailedMessage = "Failed to load products."

type CatalogGRPCHandler struct {
	UnimplementedCatalogServer
	Service *service.ProductService
}

var GrpcCatalogHandlerTracer = otel.Tracer("GrpcCatalogHandler")

func NewCatalogGRPCHandler(svc *service.ProductService) *CatalogGRPCHandler {
	return &CatalogGRPCHandler{
		Service: svc,
	}
}

func (h *CatalogGRPCHandler) ListProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, span := GrpcCatalogHandlerTracer.Start(ctx, "GrpcCatalogHandler.ListProducts")
	defer span.End()
	logger.Info(ctx, "GrpcCatalogHandler.ListProducts")

	bounds, err := BoundsFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	products, err := h.Service.List(ctx, bounds)
	if err != nil {
		logger.Error(ctx, "Error fetching products", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, LoadFailedMessage)
	}

	raw, err := json.Marshal(products)
	if err != nil {
		return nil, status.Error(codes.Internal, LoadFailedMessage)
	}
	list := []any{}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, status.Error(codes.Internal, LoadFailedMessage)
	}

	resp, err := structpb.NewStruct(map[string]any{
		"resolver": utils.GetHost(),
		"products": list,
	})
	if err != nil {
		logger.Error(ctx, "Failed to encode products", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, LoadFailedMessage)
	}
	return resp, nil
}

// BoundsFromStruct reads the four bound fields. Numbers are taken as is,
// strings go through the same parsing as query parameters, null or absent
// leaves the side open.
func BoundsFromStruct(req *structpb.Struct) (filter.Bounds, error) {
	b := filter.Unbounded()
	fields := req.GetFields()
	for _, name := range filter.Names {
		v, ok := fields[name]
		if !ok {
			continue
		}

		var raw string
		switch kind := v.GetKind().(type) {
		case *structpb.Value_NullValue:
			continue
		case *structpb.Value_NumberValue:
			raw = strconv.FormatFloat(kind.NumberValue, 'g', -1, 64)
		case *structpb.Value_StringValue:
			raw = kind.StringValue
		default:
			return filter.Unbounded(), &filter.InvalidBoundError{Param: name, Value: v.String()}
		}
		if err := b.Set(name, raw); err != nil {
			return filter.Unbounded(), err
		}
	}
	return b, nil
}

// BoundsToStruct is the inverse of BoundsFromStruct for set bounds.
func BoundsToStruct(b filter.Bounds) *structpb.Struct {
	fields := make(map[string]*structpb.Value, len(filter.Names))
	for name, vs := range b.Values() {
		if len(vs) == 0 {
			continue
		}
		fields[name] = structpb.NewStringValue(vs[0])
	}
	return &structpb.Struct{Fields: fields}
}
