package service

import (
	"context"
	"time"

	"gold-catalog/internal/logger"
	"gold-catalog/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
)

const (
	StatusUp       = "UP"
	StatusDown     = "DOWN"
	StatusDisabled = "DISABLED"
)

const healthTimeout = 2 * time.Second

type HealthService struct {
	Catalog repository.CatalogRepository
	// Mongo is nil when the catalog is file based.
	Mongo *mongo.Client
}

type HealthStatus struct {
	Catalog string
	Mongo   string
}

func (h HealthStatus) Healthy() bool {
	return h.Catalog != StatusDown && h.Mongo != StatusDown
}

var HealthServiceTracer = otel.Tracer("HealthService")

func NewHealthService(catalog repository.CatalogRepository, mongo *mongo.Client) *HealthService {
	return &HealthService{
		Catalog: catalog,
		Mongo:   mongo,
	}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	ctx, span := HealthServiceTracer.Start(ctx, "HealthService.Check")
	defer span.End()
	logger.Info(ctx, "Service")

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	status := HealthStatus{Catalog: StatusUp, Mongo: StatusDisabled}
	if err := s.Catalog.Ping(ctx); err != nil {
		status.Catalog = StatusDown
	}
	if s.Mongo != nil {
		status.Mongo = StatusUp
		if err := s.Mongo.Ping(ctx, nil); err != nil {
			status.Mongo = StatusDown
		}
	}
	return status
}
