// Package filter applies inclusive price and popularity bounds to priced products.
package filter

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"gold-catalog/internal/model"
)

// Query parameter names.
const (
	MinPrice      = "minPrice"
	MaxPrice      = "maxPrice"
	MinPopularity = "minPopularity"
	MaxPopularity = "maxPopularity"
)

// Names lists the bound parameters in a stable order.
var Names = []string{MinPrice, MaxPrice, MinPopularity, MaxPopularity}

// Bounds are inclusive limits. An unset side is ±Inf.
type Bounds struct {
	MinPrice      float64
	MaxPrice      float64
	MinPopularity float64
	MaxPopularity float64
}

// Unbounded returns Bounds that accept every product.
func Unbounded() Bounds {
	return Bounds{
		MinPrice:      math.Inf(-1),
		MaxPrice:      math.Inf(1),
		MinPopularity: math.Inf(-1),
		MaxPopularity: math.Inf(1),
	}
}

// InvalidBoundError reports a bound parameter that is present but not a finite number.
type InvalidBoundError struct {
	Param string
	Value string
}

func (e *InvalidBoundError) Error() string {
	return fmt.Sprintf("invalid %s: %q is not a number", e.Param, e.Value)
}

// Parse reads the four bound parameters from q. Absent or empty values leave
// the side unbounded; anything else must parse as a finite float.
func Parse(q url.Values) (Bounds, error) {
	b := Unbounded()
	for _, name := range Names {
		if err := b.Set(name, q.Get(name)); err != nil {
			return Unbounded(), err
		}
	}
	return b, nil
}

// Set updates one side by parameter name. An empty raw value clears it.
func (b *Bounds) Set(name, raw string) error {
	field, unset, err := b.field(name)
	if err != nil {
		return err
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		*field = unset
		return nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return &InvalidBoundError{Param: name, Value: raw}
	}
	*field = v
	return nil
}

func (b *Bounds) field(name string) (*float64, float64, error) {
	switch name {
	case MinPrice:
		return &b.MinPrice, math.Inf(-1), nil
	case MaxPrice:
		return &b.MaxPrice, math.Inf(1), nil
	case MinPopularity:
		return &b.MinPopularity, math.Inf(-1), nil
	case MaxPopularity:
		return &b.MaxPopularity, math.Inf(1), nil
	default:
		return nil, 0, fmt.Errorf("unknown bound %q", name)
	}
}

// Values encodes the set sides back into query parameters.
func (b Bounds) Values() url.Values {
	q := url.Values{}
	put := func(name string, v float64) {
		if !math.IsInf(v, 0) {
			q.Set(name, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	put(MinPrice, b.MinPrice)
	put(MaxPrice, b.MaxPrice)
	put(MinPopularity, b.MinPopularity)
	put(MaxPopularity, b.MaxPopularity)
	return q
}

// Match reports whether a product priced at price with the given popularity
// lies within every bound.
func (b Bounds) Match(price, popularity float64) bool {
	return price >= b.MinPrice && price <= b.MaxPrice &&
		popularity >= b.MinPopularity && popularity <= b.MaxPopularity
}

// Apply keeps the products matching b, in their original order.
func Apply(products []model.PricedProduct, b Bounds) []model.PricedProduct {
	out := make([]model.PricedProduct, 0, len(products))
	for _, p := range products {
		if b.Match(p.Price.InexactFloat64(), p.PopularityScore) {
			out = append(out, p)
		}
	}
	return out
}
