package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gold-catalog/internal/logger"
	"gold-catalog/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var MongoCatalogTracer = otel.Tracer("MongoCatalogRepository")

// MongoCatalogRepository serves the catalog from a collection, one document per product.
type MongoCatalogRepository struct {
	collection *mongo.Collection
}

func NewMongoCatalogRepository(db *mongo.Database, collection string) *MongoCatalogRepository {
	return &MongoCatalogRepository{
		collection: db.Collection(collection),
	}
}

func (r *MongoCatalogRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	ctx, span := MongoCatalogTracer.Start(ctx, "MongoCatalogRepository.FindAll")
	defer span.End()
	logger.Info(ctx, "Repository")

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: find: %w", ErrCatalog, err)
	}
	defer cursor.Close(ctx)

	var products []model.Product
	for cursor.Next(ctx) {
		var doc bson.D
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode: %w", ErrCatalog, err)
		}
		product, err := documentToProduct(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCatalog, err)
		}
		products = append(products, product)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: cursor: %w", ErrCatalog, err)
	}

	span.SetAttributes(attribute.Int("catalog.size", len(products)))
	return products, nil
}

func (r *MongoCatalogRepository) Ping(ctx context.Context) error {
	if err := r.collection.Database().Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrCatalog, err)
	}
	return nil
}

// documentToProduct drops the Mongo _id and decodes the rest through relaxed
// extended JSON, which keeps producer fields intact.
func documentToProduct(doc bson.D) (model.Product, error) {
	fields := make(bson.D, 0, len(doc))
	for _, e := range doc {
		if e.Key == "_id" {
			continue
		}
		fields = append(fields, e)
	}

	raw, err := bson.MarshalExtJSON(fields, false, false)
	if err != nil {
		return model.Product{}, fmt.Errorf("encode document: %w", err)
	}

	var p model.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.Product{}, fmt.Errorf("decode document: %w", err)
	}
	return p, nil
}
