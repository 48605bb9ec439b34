package notifications

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/kjannette/trade-dashboard/internal/httputil"
	"github.com/kjannette/trade-dashboard/internal/logger"
)

// Sender posts dashboard alerts to a Slack or Discord webhook. The same alert
// text is sent at most once per quiet period so a broken export does not page
// on every dashboard refresh.
type Sender struct {
	webhookURL string
	source     string
	httpClient *http.Client
	retry      httputil.RetryConfig
	quiet      time.Duration
	now        func() time.Time

	mu       sync.Mutex
	lastSent map[string]time.Time
}

func NewSender(webhookURL, source string) *Sender {
	if source == "" {
		source = "trade-dashboard"
	}
	return &Sender{
		webhookURL: webhookURL,
		source:     source,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   1 * time.Second,
			MaxDelay:    5 * time.Second,
		},
		quiet:    10 * time.Minute,
		now:      time.Now,
		lastSent: make(map[string]time.Time),
	}
}

// Alert logs msg and forwards it to the webhook unless the same text went
// out within the quiet period. It reports whether a webhook post was made.
func (s *Sender) Alert(ctx context.Context, msg string) bool {
	logger.Warn(ctx, "dashboard alert", zap.String("alert", msg))

	if s.webhookURL == "" || s.suppressed(msg) {
		return false
	}

	formatted := fmt.Sprintf("[%s] %s", s.source, msg)
	body, err := json.Marshal(s.formatPayload(formatted))
	if err != nil {
		logger.Error(ctx, "marshal webhook payload", zap.Error(err))
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := httputil.Do(ctx, s.httpClient, s.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		logger.Error(ctx, "webhook delivery failed after retries", zap.Error(err))
		return false
	}
	resp.Body.Close()
	return true
}

func (s *Sender) suppressed(msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if last, ok := s.lastSent[msg]; ok && now.Sub(last) < s.quiet {
		return true
	}
	s.lastSent[msg] = now
	return false
}

func (s *Sender) formatPayload(msg string) map[string]string {
	if strings.Contains(s.webhookURL, "discord") {
		return map[string]string{
			"content":  msg,
			"username": s.source,
		}
	}
	return map[string]string{
		"text":     fmt.Sprintf("`%s`", msg),
		"username": s.source,
	}
}

func (s *Sender) Enabled() bool {
	return s.webhookURL != ""
}
