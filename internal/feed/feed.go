// Package feed fetches the gold spot price from the upstream price API.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gold-catalog/internal/client"
	"gold-catalog/internal/logger"
	"gold-catalog/internal/pricing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ErrUnavailable wraps every failure to obtain a usable spot price.
var ErrUnavailable = errors.New("spot price unavailable")

// StatusError is returned when the feed answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("spot price feed returned status %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrUnavailable }

// APIKeyHeader carries the feed credential when one is configured.
const APIKeyHeader = "x-access-token"

// Quote is the subset of the feed payload we understand. Some feeds quote per
// troy ounce in "price", others add "price_gram_24k".
type Quote struct {
	Price        *float64 `json:"price"`
	PriceGram24k *float64 `json:"price_gram_24k"`
}

type Config struct {
	URL     string
	APIKey  string
	Unit    pricing.Unit
	Timeout time.Duration
}

type Client struct {
	http    *client.HTTPClient
	unit    pricing.Unit
	timeout time.Duration
}

var FeedTracer = otel.Tracer("SpotPriceFeed")

func New(cfg Config) *Client {
	hc := client.NewHTTPClient(cfg.URL, 0)
	if cfg.APIKey != "" {
		hc.SetDefaultHeader(APIKeyHeader, cfg.APIKey)
	}
	unit := cfg.Unit
	if unit == "" {
		unit = pricing.Ounce
	}
	return &Client{http: hc, unit: unit, timeout: cfg.Timeout}
}

// PricePerGram performs exactly one upstream request and converts the quote.
func (c *Client) PricePerGram(ctx context.Context) (float64, error) {
	ctx, span := FeedTracer.Start(ctx, "SpotPriceFeed.PricePerGram")
	defer span.End()

	resp, err := client.Get[Quote](c.http, "", client.RequestOptions{
		Context: ctx,
		Timeout: c.timeout,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if !resp.IsSuccess() {
		return 0, &StatusError{StatusCode: resp.StatusCode}
	}

	spot, err := c.pick(resp.Data)
	if err != nil {
		return 0, err
	}
	perGram := pricing.PerGram(spot, c.unit)
	span.SetAttributes(
		attribute.Float64("gold.spot", spot),
		attribute.Float64("gold.per_gram", perGram),
		attribute.String("gold.unit", string(c.unit)),
	)
	logger.Info(ctx, "Spot price fetched", slog.Float64("spot", spot), slog.Float64("per_gram", perGram))
	return perGram, nil
}

func (c *Client) pick(q Quote) (float64, error) {
	var spot *float64
	switch c.unit {
	case pricing.Gram:
		spot = q.PriceGram24k
		if spot == nil {
			spot = q.Price
		}
	default:
		spot = q.Price
	}

	if spot == nil {
		return 0, fmt.Errorf("%w: payload has no price for unit %s", ErrUnavailable, c.unit)
	}
	if *spot <= 0 {
		return 0, fmt.Errorf("%w: non-positive price %v", ErrUnavailable, *spot)
	}
	return *spot, nil
}
