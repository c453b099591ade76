package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gold-catalog/internal/logger"
	"gold-catalog/internal/model"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"
)

var FileCatalogTracer = otel.Tracer("FileCatalogRepository")

// FileCatalogRepository reads a JSON (or YAML) array of products from disk on
// every call. Nothing is cached.
type FileCatalogRepository struct {
	path string
}

func NewFileCatalogRepository(path string) *FileCatalogRepository {
	return &FileCatalogRepository{path: path}
}

func (r *FileCatalogRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	ctx, span := FileCatalogTracer.Start(ctx, "FileCatalogRepository.FindAll")
	defer span.End()
	logger.Info(ctx, "Repository")

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrCatalog, r.path, err)
	}

	if isYAML(r.path) {
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%w: parse %s: %w", ErrCatalog, r.path, err)
		}
	}

	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrCatalog, r.path, err)
	}

	span.SetAttributes(attribute.Int("catalog.size", len(products)))
	return products, nil
}

func (r *FileCatalogRepository) Ping(ctx context.Context) error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCatalog, err)
	}
	return f.Close()
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// yamlToJSON re-encodes a YAML sequence as JSON so both formats share the same
// decoding path.
func yamlToJSON(data []byte) ([]byte, error) {
	var records []map[string]any
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return json.Marshal(records)
}
