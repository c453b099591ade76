package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"gold-catalog/internal/browse"
	"gold-catalog/internal/client"
	"gold-catalog/internal/config"
	"gold-catalog/internal/filter"
	"gold-catalog/internal/logger"

	"github.com/spf13/cobra"
)

const requestTimeout = 5 * time.Second

type options struct {
	target   string
	bounds   map[string]*string
	window   int
	debounce time.Duration
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	opts := &options{bounds: make(map[string]*string, len(filter.Names))}

	root := &cobra.Command{
		Use:           "http-client",
		Short:         "Browse the gold catalog API from a terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.target, "target", cfg.ExternalHTTP, "catalog API base URL")
	for _, name := range filter.Names {
		opts.bounds[name] = root.PersistentFlags().String(name, "", "inclusive "+name+" bound")
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Fetch the catalog once and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bounds, err := opts.parseBounds()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			products, err := opts.fetcher().List(ctx, bounds)
			if err != nil {
				return err
			}
			renderProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Edit bounds interactively; changes are applied after a pause",
		Long: "Reads lines from stdin: name=value sets a bound (empty value clears it), " +
			"> and < scroll the carousel, r refreshes, q quits.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.watch(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	watch.Flags().IntVar(&opts.window, "window", 4, "cards shown at once")
	watch.Flags().DurationVar(&opts.debounce, "debounce", time.Duration(cfg.ClientDebounceMs)*time.Millisecond, "delay after the last bound edit")

	poll := &cobra.Command{
		Use:   "poll",
		Short: "Request the catalog in a loop with a random pause",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.poll(cmd.Context(), cfg.ClientMaxSleepMs)
		},
	}

	root.AddCommand(list, watch, poll)
	return root
}

func (o *options) fetcher() *browse.HTTPFetcher {
	return browse.NewHTTPFetcher(client.NewHTTPClient(o.target, requestTimeout))
}

func (o *options) parseBounds() (filter.Bounds, error) {
	b := filter.Unbounded()
	for _, name := range filter.Names {
		if err := b.Set(name, *o.bounds[name]); err != nil {
			return filter.Unbounded(), err
		}
	}
	return b, nil
}

func (o *options) watch(ctx context.Context, in io.Reader, out io.Writer) error {
	initial, err := o.parseBounds()
	if err != nil {
		return err
	}

	var b *browse.Browser
	b = browse.New(ctx, o.fetcher(), browse.Options{
		Debounce:     o.debounce,
		CarouselSize: o.window,
		CarouselStep: 1,
		OnChange: func(s browse.Snapshot) {
			if s.State == browse.Loading {
				fmt.Fprintln(out, "Loading Products...")
				return
			}
			if s.Err != nil {
				fmt.Fprintln(out, "Failed to load products.")
			}
			renderWindow(out, b)
		},
	})
	defer b.Close()

	b.SetBounds(initial)
	_ = b.Refresh(ctx)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := o.apply(ctx, b, strings.TrimSpace(line), out)
			if err != nil {
				fmt.Fprintln(out, err)
			}
			if quit {
				return nil
			}
		}
	}
}

// apply runs one watch command and reports whether the session should end.
func (o *options) apply(ctx context.Context, b *browse.Browser, line string, out io.Writer) (bool, error) {
	switch line {
	case "":
		return false, nil
	case "q", "quit":
		return true, nil
	case "r":
		_ = b.Refresh(ctx)
	case ">":
		if b.ScrollRight() {
			renderWindow(out, b)
		}
	case "<":
		if b.ScrollLeft() {
			renderWindow(out, b)
		}
	default:
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			return false, fmt.Errorf("unknown command %q", line)
		}
		if err := b.SetBound(strings.TrimSpace(name), value); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (o *options) poll(ctx context.Context, maxSleepMs int64) error {
	bounds, err := o.parseBounds()
	if err != nil {
		return err
	}
	fetcher := o.fetcher()

	logger.Info(ctx, "HTTP client started",
		slog.String("target", o.target),
		slog.Int64("max_client_delay", maxSleepMs),
	)

	for {
		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		products, err := fetcher.List(reqCtx, bounds)
		cancel()

		switch {
		case errors.Is(err, context.Canceled) && ctx.Err() != nil:
			return nil
		case err != nil:
			logger.Error(ctx, "Failed to request", slog.String("error", err.Error()))
		default:
			logger.Info(ctx, "Received products", slog.Int("count", len(products)))
		}

		delay := time.Duration(rand.Int63n(maxSleepMs)+1) * time.Millisecond
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Shutting down HTTP client")
			return nil
		case <-time.After(delay):
		}
	}
}
