package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotObject is returned when a catalog record is not a JSON object.
var ErrNotObject = errors.New("product record is not an object")

// Product is one catalog record as supplied by the producer. Weight is in grams
// and PopularityScore in [0,1]; neither is validated here.
type Product struct {
	Name            string            `json:"name"`
	Weight          float64           `json:"weight"`
	PopularityScore float64           `json:"popularityScore"`
	Images          map[string]string `json:"images"`

	// fields and keys hold every top-level field of the source record, in
	// source order, so that unknown ones survive into the API response.
	fields map[string]json.RawMessage
	keys   []string
}

func (p *Product) UnmarshalJSON(b []byte) error {
	keys, fields, err := decodeObject(b)
	if err != nil {
		return err
	}

	type plain Product
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Product(v)
	p.fields = fields
	p.keys = keys
	return nil
}

// decodeObject splits a JSON object into its members. A repeated key keeps
// its first position and its last value.
func decodeObject(b []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("%w: got %s", ErrNotObject, bytes.TrimSpace(b))
	}

	var keys []string
	fields := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, nil, err
		}
		if _, seen := fields[key]; !seen {
			keys = append(keys, key)
		}
		fields[key] = value
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, fields, nil
}

// members returns the record as ordered key/value pairs, falling back to the
// typed fields when the product was not decoded from JSON.
func (p Product) members() ([]string, map[string]json.RawMessage, error) {
	if p.fields != nil {
		return p.keys, p.fields, nil
	}

	keys := []string{"name", "weight", "popularityScore", "images"}
	typed := []any{p.Name, p.Weight, p.PopularityScore, p.Images}
	fields := make(map[string]json.RawMessage, len(keys))
	for i, k := range keys {
		b, err := json.Marshal(typed[i])
		if err != nil {
			return nil, nil, fmt.Errorf("encode %s: %w", k, err)
		}
		fields[k] = b
	}
	return keys, fields, nil
}

// Fields returns a copy of the record's top-level fields.
func (p Product) Fields() (map[string]json.RawMessage, error) {
	_, fields, err := p.members()
	if err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out, nil
}

// PricedProduct is a product with its display price for the current spot price.
type PricedProduct struct {
	Product
	Price decimal.Decimal
}

// MarshalJSON emits the original record in source order with "price" as a
// two-decimal string. A producer "price" is overwritten in place, otherwise
// "price" comes last.
func (p PricedProduct) MarshalJSON() ([]byte, error) {
	keys, fields, err := p.Product.members()
	if err != nil {
		return nil, err
	}
	price, err := json.Marshal(p.Price.StringFixed(2))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	hasPrice := false
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		value := fields[k]
		if k == "price" {
			value, hasPrice = price, true
		}
		if err := writeMember(&buf, k, value); err != nil {
			return nil, err
		}
	}
	if !hasPrice {
		if len(keys) > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, "price", price); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value json.RawMessage) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(value)
	return nil
}

func (p *PricedProduct) UnmarshalJSON(b []byte) error {
	var product Product
	if err := json.Unmarshal(b, &product); err != nil {
		return err
	}
	var priced struct {
		Price decimal.Decimal `json:"price"`
	}
	if err := json.Unmarshal(b, &priced); err != nil {
		return err
	}
	p.Product = product
	p.Price = priced.Price
	return nil
}
