package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// StatusError reports a non-success response from the remote host. It is
// returned before any job is created, so the boundary can surface it
// synchronously.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote returned status %d for %s", e.StatusCode, e.URL)
}

// Fetcher downloads remote media to local scratch storage
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewFetcher creates a fetcher with connection pooling and a download size cap
func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		maxBytes: maxBytes,
	}
}

// Download streams the resource at url into destPath. The destination file is
// removed again on any failure so no partial media is left behind.
func (f *Fetcher) Download(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create fetch request: %w", err)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create scratch file: %w", err)
	}

	written, err := io.Copy(out, io.LimitReader(resp.Body, f.maxBytes+1))
	closeErr := out.Close()

	switch {
	case err != nil:
		os.Remove(destPath)
		return fmt.Errorf("failed to stream remote media: %w", err)
	case closeErr != nil:
		os.Remove(destPath)
		return fmt.Errorf("failed to flush scratch file: %w", closeErr)
	case written > f.maxBytes:
		os.Remove(destPath)
		return fmt.Errorf("remote media exceeds the %d byte limit", f.maxBytes)
	}

	slog.Info("Fetched remote media",
		"url", url,
		"dest_path", destPath,
		"bytes", written,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}
