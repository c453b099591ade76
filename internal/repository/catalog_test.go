package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileCatalogJSON(t *testing.T) {
	path := writeFile(t, "products.json", `[
		{"name":"Ring A","weight":5,"popularityScore":0.2,"images":{"yellow":"a-y.jpg"}},
		{"name":"Ring B","weight":2.5,"popularityScore":0.9,"images":{"yellow":"b-y.jpg"}}
	]`)

	products, err := NewFileCatalogRepository(path).FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Ring A", products[0].Name)
	assert.Equal(t, 2.5, products[1].Weight)
	assert.Equal(t, "b-y.jpg", products[1].Images["yellow"])
}

func TestFileCatalogRereadsOnEveryCall(t *testing.T) {
	path := writeFile(t, "products.json", `[{"name":"Ring A","weight":5,"popularityScore":0.2}]`)
	repo := NewFileCatalogRepository(path)

	products, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)

	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))
	products, err = repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestFileCatalogYAML(t *testing.T) {
	path := writeFile(t, "products.yaml", `
- name: Ring A
  weight: 5
  popularityScore: 0.2
  images:
    yellow: a-y.jpg
    rose: a-r.jpg
`)

	products, err := NewFileCatalogRepository(path).FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 0.2, products[0].PopularityScore)
	assert.Equal(t, "a-r.jpg", products[0].Images["rose"])
}

func TestFileCatalogFailures(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.json")
	malformed := writeFile(t, "bad.json", `{"name":`)
	notArray := writeFile(t, "obj.json", `{"name":"Ring A"}`)
	nullRecord := writeFile(t, "null.json", `[{"name":"Ring A","weight":5,"popularityScore":0.2}, null]`)
	scalarRecord := writeFile(t, "scalar.json", `[42]`)
	yamlNull := writeFile(t, "null.yaml", "- name: Ring A\n  weight: 5\n- ~\n")

	for _, path := range []string{missing, malformed, notArray, nullRecord, scalarRecord, yamlNull} {
		_, err := NewFileCatalogRepository(path).FindAll(context.Background())
		require.Error(t, err, path)
		assert.True(t, errors.Is(err, ErrCatalog), path)
	}

	assert.ErrorIs(t, NewFileCatalogRepository(missing).Ping(context.Background()), ErrCatalog)
	assert.NoError(t, NewFileCatalogRepository(malformed).Ping(context.Background()))
}

func TestDocumentToProduct(t *testing.T) {
	doc := bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "name", Value: "Ring A"},
		{Key: "weight", Value: 5.0},
		{Key: "popularityScore", Value: 0.2},
		{Key: "images", Value: bson.D{{Key: "yellow", Value: "a-y.jpg"}}},
		{Key: "collection", Value: "spring"},
	}

	p, err := documentToProduct(doc)
	require.NoError(t, err)
	assert.Equal(t, "Ring A", p.Name)
	assert.Equal(t, 5.0, p.Weight)
	assert.Equal(t, "a-y.jpg", p.Images["yellow"])

	fields, err := p.Fields()
	require.NoError(t, err)
	assert.NotContains(t, fields, "_id")
	assert.JSONEq(t, `"spring"`, string(fields["collection"]))
}
