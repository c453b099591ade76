// Package browse keeps the client-side state of a catalog view: the active
// bounds, the last list received and a carousel over it.
package browse

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"gold-catalog/internal/debounce"
	"gold-catalog/internal/filter"
	"gold-catalog/internal/logger"
	"gold-catalog/internal/model"
)

type State int

const (
	Loading State = iota
	Ready
)

func (s State) String() string {
	if s == Loading {
		return "loading"
	}
	return "ready"
}

// Fetcher lists the priced products matching bounds.
type Fetcher interface {
	List(ctx context.Context, bounds filter.Bounds) ([]model.PricedProduct, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, bounds filter.Bounds) ([]model.PricedProduct, error)

func (f FetcherFunc) List(ctx context.Context, bounds filter.Bounds) ([]model.PricedProduct, error) {
	return f(ctx, bounds)
}

// Snapshot is a consistent copy of the browser state.
type Snapshot struct {
	State    State
	Bounds   filter.Bounds
	Products []model.PricedProduct
	Err      error
}

type Options struct {
	Debounce     time.Duration
	CarouselSize int
	CarouselStep int
	// OnChange is called after every state transition, outside the lock.
	OnChange func(Snapshot)
}

type Browser struct {
	ctx     context.Context
	fetcher Fetcher
	opts    Options
	timer   debounce.Timer

	mu       sync.Mutex
	state    State
	bounds   filter.Bounds
	products []model.PricedProduct
	lastErr  error
	carousel Carousel
}

// New returns a Browser in the Loading state with no products and open bounds.
// It stays Loading until the first Refresh completes. Debounced refreshes run
// with ctx.
func New(ctx context.Context, fetcher Fetcher, opts Options) *Browser {
	if opts.Debounce <= 0 {
		opts.Debounce = 1500 * time.Millisecond
	}
	return &Browser{
		ctx:      ctx,
		fetcher:  fetcher,
		opts:     opts,
		state:    Loading,
		bounds:   filter.Unbounded(),
		carousel: NewCarousel(opts.CarouselSize, opts.CarouselStep),
	}
}

// Refresh fetches with the current bounds. On failure the previous list is
// kept. Concurrent refreshes are not cancelled; the last one to finish wins.
func (b *Browser) Refresh(ctx context.Context) error {
	b.mu.Lock()
	b.state = Loading
	bounds := b.bounds
	b.mu.Unlock()
	b.notify()

	products, err := b.fetcher.List(ctx, bounds)

	b.mu.Lock()
	b.state = Ready
	b.lastErr = err
	if err == nil {
		b.products = products
		b.carousel.clamp(len(products))
	}
	b.mu.Unlock()

	if err != nil {
		logger.Error(ctx, "Error fetching products", slog.String("error", err.Error()))
	}
	b.notify()
	return err
}

// SetBound updates one bound and schedules a refresh after the debounce delay.
// An invalid value leaves the bounds untouched and schedules nothing.
func (b *Browser) SetBound(name, value string) error {
	b.mu.Lock()
	next := b.bounds
	if err := next.Set(name, value); err != nil {
		b.mu.Unlock()
		return err
	}
	b.bounds = next
	b.mu.Unlock()

	b.timer.Arm(b.opts.Debounce, func() {
		_ = b.Refresh(b.ctx)
	})
	return nil
}

// SetBounds replaces all bounds at once without scheduling a refresh, and
// drops any refresh already pending. Callers refresh explicitly.
func (b *Browser) SetBounds(bounds filter.Bounds) {
	b.timer.Cancel()
	b.mu.Lock()
	b.bounds = bounds
	b.mu.Unlock()
}

// Pending reports whether a debounced refresh is waiting to fire.
func (b *Browser) Pending() bool { return b.timer.Pending() }

func (b *Browser) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Browser) snapshotLocked() Snapshot {
	products := make([]model.PricedProduct, len(b.products))
	copy(products, b.products)
	return Snapshot{State: b.state, Bounds: b.bounds, Products: products, Err: b.lastErr}
}

// Visible returns the products inside the carousel window.
func (b *Browser) Visible() []model.PricedProduct {
	b.mu.Lock()
	defer b.mu.Unlock()
	start, end := b.carousel.Window(len(b.products))
	out := make([]model.PricedProduct, end-start)
	copy(out, b.products[start:end])
	return out
}

func (b *Browser) ScrollRight() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.carousel.Next(len(b.products))
}

func (b *Browser) ScrollLeft() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.carousel.Prev(len(b.products))
}

// Close drops any pending refresh.
func (b *Browser) Close() {
	b.timer.Stop()
}

func (b *Browser) notify() {
	if b.opts.OnChange != nil {
		b.opts.OnChange(b.Snapshot())
	}
}
