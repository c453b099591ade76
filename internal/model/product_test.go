package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricedProductKeepsProducerFields(t *testing.T) {
	raw := `{"name":"Ring A","weight":5,"popularityScore":0.2,"sku":"R-1","price":"stale",
		"images":{"yellow":"y.jpg","rose":"r.jpg","white":"w.jpg"}}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, "Ring A", p.Name)
	assert.Equal(t, 5.0, p.Weight)
	assert.Equal(t, 0.2, p.PopularityScore)
	assert.Equal(t, "r.jpg", p.Images["rose"])

	out, err := json.Marshal(PricedProduct{Product: p, Price: decimal.RequireFromString("360")})
	require.NoError(t, err)

	assert.Equal(t, `{"name":"Ring A","weight":5,"popularityScore":0.2,"sku":"R-1","price":"360.00",`+
		`"images":{"yellow":"y.jpg","rose":"r.jpg","white":"w.jpg"}}`, string(out))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "360.00", got["price"])
	assert.Equal(t, "R-1", got["sku"])
	assert.Equal(t, "Ring A", got["name"])
	assert.Equal(t, map[string]any{"yellow": "y.jpg", "rose": "r.jpg", "white": "w.jpg"}, got["images"])
}

func TestPricedProductWithoutSourceRecord(t *testing.T) {
	p := PricedProduct{
		Product: Product{Name: "Chain", Weight: 3, PopularityScore: 0.5, Images: map[string]string{"yellow": "c.jpg"}},
		Price:   decimal.RequireFromString("12.5"),
	}

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Chain","weight":3,"popularityScore":0.5,"images":{"yellow":"c.jpg"},"price":"12.50"}`, string(out))
}

func TestPricedProductDecode(t *testing.T) {
	var p PricedProduct
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ring A","weight":5,"popularityScore":0.2,"price":"360.00"}`), &p))
	assert.Equal(t, "Ring A", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("360")))
}

func TestProductDecodeRejectsBadTypes(t *testing.T) {
	var p Product
	require.Error(t, json.Unmarshal([]byte(`{"name":"x","weight":"heavy"}`), &p))
}

func TestPricedProductAppendsPriceAfterSourceFields(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"sku":"R-1", "name":"Ring A","weight":5,"sku":"R-2","popularityScore":0.2}`), &p))

	out, err := json.Marshal(PricedProduct{Product: p, Price: decimal.RequireFromString("1.5")})
	require.NoError(t, err)
	assert.Equal(t, `{"sku":"R-2","name":"Ring A","weight":5,"popularityScore":0.2,"price":"1.50"}`, string(out))
}

func TestProductDecodeRejectsNonObjects(t *testing.T) {
	for _, raw := range []string{`null`, ` null `, `42`, `"ring"`, `[]`} {
		var p Product
		err := json.Unmarshal([]byte(raw), &p)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrNotObject, raw)
	}

	var products []Product
	err := json.Unmarshal([]byte(`[{"name":"Ring A"},null]`), &products)
	assert.ErrorIs(t, err, ErrNotObject)
}
