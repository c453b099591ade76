// Package app wires the catalog services from configuration for the server binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gold-catalog/internal/config"
	"gold-catalog/internal/database"
	"gold-catalog/internal/feed"
	"gold-catalog/internal/logger"
	"gold-catalog/internal/repository"
	"gold-catalog/internal/service"
)

type Components struct {
	Feed     *feed.Client
	Catalog  repository.CatalogRepository
	Products *service.ProductService
	Health   *service.HealthService
	// Mongo is nil when the catalog is file based.
	Mongo *database.Mongo
}

// Close releases the Mongo connection, if any.
func (c *Components) Close(ctx context.Context) {
	if c.Mongo == nil {
		return
	}
	if err := c.Mongo.Close(ctx); err != nil {
		logger.Error(ctx, "Failed to close MongoDB", slog.String("error", err.Error()))
	}
}

// Build selects the catalog source (MongoDB when MONGO_URI is set, the
// catalog file otherwise) and assembles the services around it.
func Build(ctx context.Context, cfg *config.Config) (*Components, error) {
	c := &Components{
		Feed: feed.New(feed.Config{
			URL:     cfg.UpstreamURL,
			APIKey:  cfg.UpstreamAPIKey,
			Unit:    cfg.UpstreamPriceUnit,
			Timeout: time.Duration(cfg.UpstreamTimeoutMs) * time.Millisecond,
		}),
	}

	if cfg.MongoEnabled() {
		db, err := database.Instance(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		c.Mongo = db
		c.Catalog = repository.NewMongoCatalogRepository(db.Database, cfg.MongoCollection)
		logger.Info(ctx, "Catalog source", slog.String("source", "mongodb"), slog.String("collection", cfg.MongoCollection))
	} else {
		c.Catalog = repository.NewFileCatalogRepository(cfg.CatalogPath)
		logger.Info(ctx, "Catalog source", slog.String("source", "file"), slog.String("path", cfg.CatalogPath))
	}

	c.Products = service.NewProductService(c.Feed, c.Catalog)
	if c.Mongo != nil {
		c.Health = service.NewHealthService(c.Catalog, c.Mongo.Client)
	} else {
		c.Health = service.NewHealthService(c.Catalog, nil)
	}
	return c, nil
}
