package ingest

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kjannette/trade-dashboard/internal/httputil"
	"github.com/kjannette/trade-dashboard/internal/models"
)

// FileLoader re-reads a local export on every call so edits show up without
// a restart.
type FileLoader struct {
	path   string
	limits Limits
}

func NewFileLoader(path string, limits Limits) *FileLoader {
	return &FileLoader{path: path, limits: limits}
}

func (l *FileLoader) Load(ctx context.Context) (*models.TradeBatch, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open trade export: %w", err)
	}
	defer f.Close()

	if l.limits.MaxBytes > 0 {
		if info, err := f.Stat(); err == nil && info.Size() > l.limits.MaxBytes {
			return nil, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, l.path, info.Size())
		}
	}
	return Parse(ctx, f, l.limits)
}

// HTTPLoader fetches a single remote export per call.
type HTTPLoader struct {
	url        string
	limits     Limits
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewHTTPLoader(url string, limits Limits) *HTTPLoader {
	return &HTTPLoader{
		url:        url,
		limits:     limits,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   500 * time.Millisecond,
			MaxDelay:    5 * time.Second,
		},
	}
}

func (l *HTTPLoader) Load(ctx context.Context) (*models.TradeBatch, error) {
	resp, err := httputil.Do(ctx, l.httpClient, l.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/csv")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch trade export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch trade export: HTTP %d", resp.StatusCode)
	}
	if l.limits.MaxBytes > 0 && resp.ContentLength > l.limits.MaxBytes {
		return nil, fmt.Errorf("%w: remote export is %d bytes", ErrTooLarge, resp.ContentLength)
	}
	return Parse(ctx, resp.Body, l.limits)
}
