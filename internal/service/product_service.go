package service

import (
	"context"
	"log/slog"

	"gold-catalog/internal/filter"
	"gold-catalog/internal/logger"
	"gold-catalog/internal/model"
	"gold-catalog/internal/pricing"
	"gold-catalog/internal/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// SpotPriceSource yields the current gold price per gram.
type SpotPriceSource interface {
	PricePerGram(ctx context.Context) (float64, error)
}

type ProductService struct {
	feed    SpotPriceSource
	catalog repository.CatalogRepository
}

var ProductServiceTracer = otel.Tracer("ProductService")

func NewProductService(feed SpotPriceSource, catalog repository.CatalogRepository) *ProductService {
	return &ProductService{feed: feed, catalog: catalog}
}

// List prices the whole catalog against a fresh spot price and keeps the
// products inside bounds, in catalog order. The catalog is not read when the
// spot price cannot be obtained.
func (s *ProductService) List(ctx context.Context, bounds filter.Bounds) ([]model.PricedProduct, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.List")
	defer span.End()

	perGram, err := s.feed.PricePerGram(ctx)
	if err != nil {
		span.RecordError(err)
		logger.Error(ctx, "Failed to fetch gold price", slog.String("error", err.Error()))
		return nil, err
	}

	products, err := s.catalog.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		logger.Error(ctx, "Failed to read catalog", slog.String("error", err.Error()))
		return nil, err
	}

	priced := Price(products, perGram)
	out := filter.Apply(priced, bounds)

	span.SetAttributes(
		attribute.Int("catalog.size", len(products)),
		attribute.Int("catalog.matched", len(out)),
	)
	logger.Info(ctx, "Products priced",
		slog.Float64("price_per_gram", perGram),
		slog.Int("total", len(products)),
		slog.Int("matched", len(out)),
	)
	return out, nil
}

// SpotPrice exposes the per-gram price the next List call would use.
func (s *ProductService) SpotPrice(ctx context.Context) (float64, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.SpotPrice")
	defer span.End()
	return s.feed.PricePerGram(ctx)
}

// Price attaches a display price to every product.
func Price(products []model.Product, perGram float64) []model.PricedProduct {
	out := make([]model.PricedProduct, len(products))
	for i, p := range products {
		out[i] = model.PricedProduct{
			Product: p,
			Price:   pricing.DisplayPrice(p.Weight, p.PopularityScore, perGram),
		}
	}
	return out
}
