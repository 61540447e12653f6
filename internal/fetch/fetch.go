// Package fetch downloads the published FY2026 source files into the
// input tree layout the converter expects, with politeness pacing and
// bounded retry on transient failures.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"
)

// Fetcher downloads manifest items one at a time, rate limited.
type Fetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	maxRetries int
	log        *slog.Logger
}

func NewFetcher(delay, timeout time.Duration, userAgent string, maxRetries int, log *slog.Logger) *Fetcher {
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(delay), 1),
		userAgent:  userAgent,
		maxRetries: maxRetries,
		log:        log,
	}
}

// Result records one download outcome for the end-of-run report.
type Result struct {
	Item    Item
	OK      bool
	Message string
}

// Report is the final accounting of a fetch run.
type Report struct {
	Succeeded int
	Failed    int
	Results   []Result
}

// Download fetches every manifest item into outDir. Per-file failures are
// recorded, not fatal; only a context cancellation aborts the run.
func (f *Fetcher) Download(ctx context.Context, outDir string, items []Item) (*Report, error) {
	report := &Report{}
	for _, item := range items {
		if err := f.limiter.Wait(ctx); err != nil {
			return report, err
		}
		size, err := f.downloadOne(ctx, item, outDir)
		res := Result{Item: item, OK: err == nil}
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			res.Message = err.Error()
			report.Failed++
			f.log.Error("fetch failed", "path", item.RelPath(), "error", err)
		} else {
			res.Message = fmt.Sprintf("%.1f KB", float64(size)/1024)
			report.Succeeded++
			f.log.Info("fetched", "path", item.RelPath(), "size", res.Message)
		}
		report.Results = append(report.Results, res)
	}
	f.log.Info("fetch complete", "succeeded", report.Succeeded, "failed", report.Failed)
	return report, nil
}

// downloadOne gets a single file with bounded retry on transient errors
// and writes it to its place in the input tree.
func (f *Fetcher) downloadOne(ctx context.Context, item Item, outDir string) (int, error) {
	var data []byte
	var lastErr error
	for attempt := range f.maxRetries + 1 {
		data, lastErr = f.get(ctx, item.URL)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		f.log.Warn("retryable fetch error", "url", item.URL, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if lastErr != nil {
		return 0, lastErr
	}

	dest := filepath.Join(outDir, filepath.FromSlash(item.RelPath()))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, fmt.Errorf("create dir: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return 0, fmt.Errorf("write file: %w", err)
	}
	return len(data), nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &RetryableError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

// Close releases idle connections.
func (f *Fetcher) Close() {
	f.httpClient.CloseIdleConnections()
}
