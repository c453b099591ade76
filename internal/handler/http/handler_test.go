package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"gold-catalog/internal/feed"
	"gold-catalog/internal/model"
	"gold-catalog/internal/pricing"
	"gold-catalog/internal/repository"
	"gold-catalog/internal/service"
	"gold-catalog/internal/ui"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	products []model.Product
	err      error
	reads    atomic.Int32
}

func (c *stubCatalog) FindAll(context.Context) ([]model.Product, error) {
	c.reads.Add(1)
	return c.products, c.err
}

func (c *stubCatalog) Ping(context.Context) error { return c.err }

// upstream serves the gold price feed with the given status and body.
func upstream(t *testing.T, status int, body string) *feed.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return feed.New(feed.Config{URL: srv.URL, Unit: pricing.Gram, Timeout: 2 * time.Second})
}

func ringCatalog() *stubCatalog {
	return &stubCatalog{products: []model.Product{
		{Name: "Ring A", Weight: 5, PopularityScore: 0.2, Images: map[string]string{"yellow": "a.jpg"}},
	}}
}

func listProducts(t *testing.T, svc *service.ProductService, query string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	NewProductHandler(svc).List(rec, httptest.NewRequest(http.MethodGet, "/api/products"+query, nil))
	return rec
}

func TestProductListRing(t *testing.T) {
	svc := service.NewProductService(upstream(t, http.StatusOK, `{"price": 60}`), ringCatalog())

	rec := listProducts(t, svc, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Ring A", got[0]["name"])
	assert.Equal(t, "360.00", got[0]["price"])
	assert.Equal(t, map[string]any{"yellow": "a.jpg"}, got[0]["images"])
}

func TestProductListFilters(t *testing.T) {
	svc := service.NewProductService(upstream(t, http.StatusOK, `{"price": 60}`), ringCatalog())

	tests := []struct {
		query string
		want  int
	}{
		{"?minPrice=400", 0},
		{"?minPrice=300", 1},
		{"?maxPrice=360", 1},
		{"?minPopularity=0.2", 1},
		{"?maxPopularity=0.2", 1},
		{"?minPopularity=0.21", 0},
		{"?minPrice=&maxPrice=", 1},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			rec := listProducts(t, svc, tc.query)
			require.Equal(t, http.StatusOK, rec.Code)

			var got []json.RawMessage
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Len(t, got, tc.want)
		})
	}
}

func TestProductListEmptyIsArray(t *testing.T) {
	svc := service.NewProductService(upstream(t, http.StatusOK, `{"price": 60}`), ringCatalog())

	rec := listProducts(t, svc, "?minPrice=400")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestProductListUpstreamFailure(t *testing.T) {
	catalog := ringCatalog()
	svc := service.NewProductService(upstream(t, http.StatusServiceUnavailable, `{"error":"down"}`), catalog)

	rec := listProducts(t, svc, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to load products."}`, rec.Body.String())
	assert.Zero(t, catalog.reads.Load())
}

func TestProductListCatalogFailure(t *testing.T) {
	catalog := &stubCatalog{err: fmt.Errorf("%w: boom", repository.ErrCatalog)}
	svc := service.NewProductService(upstream(t, http.StatusOK, `{"price": 60}`), catalog)

	rec := listProducts(t, svc, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to load products."}`, rec.Body.String())
}

func TestProductListNullCatalogRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Ring A","weight":5,"popularityScore":0.2}, null]`), 0o600))
	svc := service.NewProductService(upstream(t, http.StatusOK, `{"price": 60}`), repository.NewFileCatalogRepository(path))

	rec := listProducts(t, svc, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to load products."}`, rec.Body.String())
}

func TestProductListInvalidBound(t *testing.T) {
	catalog := ringCatalog()
	svc := service.NewProductService(upstream(t, http.StatusOK, `{"price": 60}`), catalog)

	rec := listProducts(t, svc, "?minPrice=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "minPrice")
	assert.Zero(t, catalog.reads.Load())
}

func TestProductListMethodNotAllowed(t *testing.T) {
	svc := service.NewProductService(upstream(t, http.StatusOK, `{"price": 60}`), ringCatalog())

	rec := httptest.NewRecorder()
	NewProductHandler(svc).List(rec, httptest.NewRequest(http.MethodPost, "/api/products", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Allow"))
}

func TestSpotPrice(t *testing.T) {
	svc := service.NewProductService(upstream(t, http.StatusOK, `{"price": 62.5}`), ringCatalog())

	rec := httptest.NewRecorder()
	NewSpotPriceHandler(svc).Fetch(rec, httptest.NewRequest(http.MethodGet, "/api/spot-price", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pricePerGram":"62.5000","unit":"gram"}`, rec.Body.String())
}

func TestSpotPriceFailure(t *testing.T) {
	svc := service.NewProductService(upstream(t, http.StatusBadGateway, ``), ringCatalog())

	rec := httptest.NewRecorder()
	NewSpotPriceHandler(svc).Fetch(rec, httptest.NewRequest(http.MethodGet, "/api/spot-price", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch gold price."}`, rec.Body.String())
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(service.NewHealthService(ringCatalog(), nil)).Check(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"UP","data":{"catalog":"UP","mongodb":"DISABLED"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	broken := &stubCatalog{err: errors.New("gone")}
	NewHealthHandler(service.NewHealthService(broken, nil)).Check(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":"DOWN","data":{"catalog":"DOWN","mongodb":"DISABLED"}}`, rec.Body.String())
}

func newPageHandler(t *testing.T, svc *service.ProductService) *CatalogPageHandler {
	t.Helper()
	page, err := ui.NewPage()
	require.NoError(t, err)
	return NewCatalogPageHandler(svc, page, 1500)
}

func TestCatalogPage(t *testing.T) {
	h := newPageHandler(t, service.NewProductService(upstream(t, http.StatusOK, `{"price": 60}`), ringCatalog()))

	rec := httptest.NewRecorder()
	h.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "Ring A")
	assert.Contains(t, body, "$360.00 USD")
	assert.Contains(t, body, "Loading Products...")
}

func TestCatalogPageUpstreamFailureRendersEmpty(t *testing.T) {
	h := newPageHandler(t, service.NewProductService(upstream(t, http.StatusServiceUnavailable, ``), ringCatalog()))

	rec := httptest.NewRecorder()
	h.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Ring A")
}

func TestCatalogPageRejects(t *testing.T) {
	h := newPageHandler(t, service.NewProductService(upstream(t, http.StatusOK, `{"price": 60}`), ringCatalog()))

	rec := httptest.NewRecorder()
	h.Render(rec, httptest.NewRequest(http.MethodGet, "/?maxPopularity=high", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Render(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
