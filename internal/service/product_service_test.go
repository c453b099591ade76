package service

import (
	"context"
	"errors"
	"testing"

	"gold-catalog/internal/feed"
	"gold-catalog/internal/filter"
	"gold-catalog/internal/model"
	"gold-catalog/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeed struct {
	perGram float64
	err     error
	calls   int
}

func (f *fakeFeed) PricePerGram(context.Context) (float64, error) {
	f.calls++
	return f.perGram, f.err
}

type fakeCatalog struct {
	products []model.Product
	err      error
	calls    int
}

func (c *fakeCatalog) FindAll(context.Context) ([]model.Product, error) {
	c.calls++
	return c.products, c.err
}

func (c *fakeCatalog) Ping(context.Context) error { return c.err }

func catalogOf(ps ...model.Product) *fakeCatalog { return &fakeCatalog{products: ps} }

func TestListRingScenario(t *testing.T) {
	svc := NewProductService(&fakeFeed{perGram: 60}, catalogOf(model.Product{Name: "Ring A", Weight: 5, PopularityScore: 0.2}))

	all, err := svc.List(context.Background(), filter.Unbounded())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "360.00", all[0].Price.StringFixed(2))

	b := filter.Unbounded()
	b.MinPrice = 400
	none, err := svc.List(context.Background(), b)
	require.NoError(t, err)
	assert.Empty(t, none)

	b.MinPrice = 300
	some, err := svc.List(context.Background(), b)
	require.NoError(t, err)
	assert.Len(t, some, 1)
}

func TestListFeedFailureSkipsCatalog(t *testing.T) {
	catalog := catalogOf(model.Product{Name: "Ring A", Weight: 5})
	svc := NewProductService(&fakeFeed{err: &feed.StatusError{StatusCode: 503}}, catalog)

	_, err := svc.List(context.Background(), filter.Unbounded())
	require.Error(t, err)
	assert.ErrorIs(t, err, feed.ErrUnavailable)
	assert.Zero(t, catalog.calls)
}

func TestListCatalogFailure(t *testing.T) {
	catalog := &fakeCatalog{err: repository.ErrCatalog}
	f := &fakeFeed{perGram: 60}
	svc := NewProductService(f, catalog)

	_, err := svc.List(context.Background(), filter.Unbounded())
	assert.True(t, errors.Is(err, repository.ErrCatalog))
	assert.Equal(t, 1, f.calls)
}

func TestListFetchesSpotPriceEveryCall(t *testing.T) {
	f := &fakeFeed{perGram: 60}
	svc := NewProductService(f, catalogOf(model.Product{Name: "Ring A", Weight: 5, PopularityScore: 0.2}))

	first, err := svc.List(context.Background(), filter.Unbounded())
	require.NoError(t, err)
	second, err := svc.List(context.Background(), filter.Unbounded())
	require.NoError(t, err)

	assert.Equal(t, 2, f.calls)
	assert.Equal(t, first, second)
}

func TestListKeepsCatalogOrder(t *testing.T) {
	svc := NewProductService(&fakeFeed{perGram: 10}, catalogOf(
		model.Product{Name: "heavy", Weight: 9, PopularityScore: 0.1},
		model.Product{Name: "light", Weight: 1, PopularityScore: 0.1},
		model.Product{Name: "medium", Weight: 4, PopularityScore: 0.1},
	))

	out, err := svc.List(context.Background(), filter.Unbounded())
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "heavy", out[0].Name)
	assert.Equal(t, "light", out[1].Name)
	assert.Equal(t, "medium", out[2].Name)
}

func TestHealthCheck(t *testing.T) {
	up := NewHealthService(&fakeCatalog{}, nil).Check(context.Background())
	assert.Equal(t, HealthStatus{Catalog: StatusUp, Mongo: StatusDisabled}, up)
	assert.True(t, up.Healthy())

	down := NewHealthService(&fakeCatalog{err: repository.ErrCatalog}, nil).Check(context.Background())
	assert.Equal(t, StatusDown, down.Catalog)
	assert.False(t, down.Healthy())
}
