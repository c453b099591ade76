package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
)

const (
	remoteTimeout = 5 * time.Second
	// maxInflightPushes bounds concurrent pushes; entries beyond it are dropped.
	maxInflightPushes = 64
)

var (
	remoteClient = &http.Client{Timeout: remoteTimeout}
	inflight     = make(chan struct{}, maxInflightPushes)
)

// sendLog pushes one entry to the Loki-compatible endpoint in the background.
// Failures are reported on stderr and never reach the caller.
func sendLog(opts Options, level, message string, attrs []slog.Attr) {
	if opts.RemoteURI == "" {
		return
	}

	select {
	case inflight <- struct{}{}:
	default:
		fmt.Fprintln(os.Stderr, "Remote log backlog full, dropping entry")
		return
	}

	entry := buildLogEntry(opts.Job, level, message, attrs)
	go func() {
		defer func() { <-inflight }()
		if err := pushEntry(opts.RemoteURI, entry); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to send remote log: %v\n", err)
		}
	}()
}

func pushEntry(uri string, entry map[string]any) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := remoteClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("remote log returned status %d", resp.StatusCode)
	}
	return nil
}
