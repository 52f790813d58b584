package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocolly/colly/v2"
)

// SnapshotFetcher downloads a market snapshot with Colly. It is used for
// data-refresh runs only; the server never fetches remotely.
type SnapshotFetcher struct {
	UserAgent      string
	MaxRetries     int
	RequestTimeout time.Duration
	RetryDelay     time.Duration
	MaxBodySize    int // bytes, 0 = unlimited
}

// NewSnapshotFetcher creates a SnapshotFetcher with sensible defaults.
func NewSnapshotFetcher() *SnapshotFetcher {
	return &SnapshotFetcher{
		UserAgent:      "market-finder/1.0 (+snapshot refresh)",
		MaxRetries:     3,
		RequestTimeout: 60 * time.Second,
		RetryDelay:     time.Second,
		MaxBodySize:    64 * 1024 * 1024,
	}
}

func (f *SnapshotFetcher) buildCollector(ctx context.Context) *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(f.UserAgent),
		colly.MaxBodySize(f.MaxBodySize),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(f.RequestTimeout)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "application/json")
		r.Headers.Set("Cache-Control", "no-cache")
	})
	return c
}

// Fetch downloads targetURL, retrying up to MaxRetries times with a linear
// backoff.
func (f *SnapshotFetcher) Fetch(ctx context.Context, targetURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= f.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * f.RetryDelay):
			}
		}

		body, err := f.fetchOnce(ctx, targetURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("fetch failed after %d retries: %w", f.MaxRetries, lastErr)
}

func (f *SnapshotFetcher) fetchOnce(ctx context.Context, targetURL string) ([]byte, error) {
	c := f.buildCollector(ctx)

	var body []byte
	var fetchErr error
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			fetchErr = fmt.Errorf("unexpected status code %d: %w", r.StatusCode, err)
			return
		}
		fetchErr = err
	})

	if err := c.Visit(targetURL); err != nil {
		return nil, fmt.Errorf("visit failed: %w", err)
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if body == nil {
		return nil, fmt.Errorf("no response received for %s", targetURL)
	}
	return body, nil
}

// WriteSnapshot validates data and atomically replaces the file at path.
// Invalid payloads never touch the existing snapshot.
func WriteSnapshot(path string, data []byte) (int, error) {
	records, err := ParseRaw(data)
	if err != nil {
		return 0, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".markets-*.json")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("failed to chmod temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return 0, fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return len(records), nil
}
