package browse

import (
	"context"
	"fmt"

	"gold-catalog/internal/client"
	"gold-catalog/internal/filter"
	"gold-catalog/internal/model"
)

// ProductsPath is the catalog endpoint relative to the API base URL.
const ProductsPath = "/api/products"

// HTTPFetcher lists products from a running catalog API.
type HTTPFetcher struct {
	client *client.HTTPClient
}

func NewHTTPFetcher(c *client.HTTPClient) *HTTPFetcher {
	return &HTTPFetcher{client: c}
}

func (f *HTTPFetcher) List(ctx context.Context, bounds filter.Bounds) ([]model.PricedProduct, error) {
	resp, err := client.Get[[]model.PricedProduct](f.client, ProductsPath, client.RequestOptions{
		Context:     ctx,
		QueryParams: bounds.Values(),
	})
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("list products: unexpected status %d", resp.StatusCode)
	}
	return resp.Data, nil
}
