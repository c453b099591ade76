package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"gold-catalog/internal/config"
	"gold-catalog/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducts(t *testing.T) {
	var buf bytes.Buffer
	renderProducts(&buf, []model.PricedProduct{{
		Product: model.Product{
			Name:            "Ring A",
			PopularityScore: 0.62,
			Images:          map[string]string{"rose": "r.jpg", "yellow": "y.jpg"},
		},
		Price: decimal.RequireFromString("360"),
	}})

	out := buf.String()
	assert.Contains(t, out, "Ring A")
	assert.Contains(t, out, "$360.00 USD")
	assert.Contains(t, out, "★★★☆☆ 3.1/5")
	assert.Contains(t, out, "Yellow, Rose")
}

func TestRenderNoProducts(t *testing.T) {
	var buf bytes.Buffer
	renderProducts(&buf, nil)
	assert.Equal(t, "No products match.\n", buf.String())
}

func catalogAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("minPrice") == "400" {
			_, _ = io.WriteString(w, `[]`)
			return
		}
		_, _ = io.WriteString(w, `[{"name":"Ring A","weight":5,"popularityScore":0.2,"price":"360.00"}]`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestListCommand(t *testing.T) {
	srv := catalogAPI(t)
	cmd := newRootCmd(&config.Config{ExternalHTTP: srv.URL, ClientDebounceMs: 10, ClientMaxSleepMs: 10})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"list", "--minPrice", "300"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "$360.00 USD")
}

func TestListCommandRejectsBadBound(t *testing.T) {
	cmd := newRootCmd(&config.Config{ExternalHTTP: "http://127.0.0.1:1", ClientDebounceMs: 10, ClientMaxSleepMs: 10})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"list", "--maxPrice", "lots"})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestWatchAppliesDebouncedBound(t *testing.T) {
	srv := catalogAPI(t)
	cmd := newRootCmd(&config.Config{ExternalHTTP: srv.URL, ClientDebounceMs: 10, ClientMaxSleepMs: 10})

	pr, pw := io.Pipe()
	var out syncBuffer
	cmd.SetIn(pr)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"watch", "--debounce", "20ms"})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(context.Background()) }()

	require.Eventually(t, func() bool { return strings.Contains(out.String(), "$360.00 USD") }, 2*time.Second, 10*time.Millisecond)

	_, _ = io.WriteString(pw, "minPrice=400\n")
	require.Eventually(t, func() bool { return strings.Contains(out.String(), "No products match.") }, 2*time.Second, 10*time.Millisecond)

	_, _ = io.WriteString(pw, "q\n")
	require.NoError(t, <-done)
	_ = pw.Close()
}

func TestWatchInitialBoundsFetchOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "300", r.URL.Query().Get("minPrice"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(srv.Close)
	cmd := newRootCmd(&config.Config{ExternalHTTP: srv.URL, ClientDebounceMs: 10, ClientMaxSleepMs: 10})

	pr, pw := io.Pipe()
	var out syncBuffer
	cmd.SetIn(pr)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"watch", "--debounce", "20ms", "--minPrice", "300"})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(context.Background()) }()

	require.Eventually(t, func() bool { return strings.Contains(out.String(), "No products match.") }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), hits.Load())

	_, _ = io.WriteString(pw, "q\n")
	require.NoError(t, <-done)
	_ = pw.Close()
}
