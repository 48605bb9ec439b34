package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kjannette/trade-dashboard/internal/ingest"
	"github.com/kjannette/trade-dashboard/internal/logger"
	"github.com/kjannette/trade-dashboard/internal/metrics"
	"github.com/kjannette/trade-dashboard/internal/models"
)

const formatHeader = "X-Trade-Format"

// Error bodies served to the dashboard.
const (
	msgReadFailed    = "Failed to read trade data"
	msgParseFailed   = "Failed to parse trade data"
	msgTooLarge      = "Trade data exceeds configured limits"
	msgUnknownFormat = "Unrecognized trade export format"
)

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	batch, ok := s.loadTrades(w, r)
	if !ok {
		return
	}

	start := time.Now()
	snap := s.engine.Compute(batch.Trades)
	elapsed := time.Since(start)
	metrics.ComputeDuration.Observe(elapsed.Seconds())
	metrics.AnalyticsRequests.WithLabelValues("ok").Inc()

	logger.Debug(r.Context(), "analytics computed",
		zap.String("format", batch.Format),
		zap.Int("trades", snap.TotalTrades),
		zap.Duration("elapsed", elapsed))

	w.Header().Set(formatHeader, batch.Format)
	writeJSON(w, http.StatusOK, snap)
}

// loadTrades reads the configured source and writes the error response
// itself when the batch cannot be served.
func (s *Server) loadTrades(w http.ResponseWriter, r *http.Request) (*models.TradeBatch, bool) {
	ctx := r.Context()
	batch, err := s.loader.Load(ctx)

	if errors.Is(err, ingest.ErrUnknownFormat) && batch != nil {
		s.alert(ctx, "unrecognized trade export format, analytics will be empty")
		if s.opts.StrictFormat {
			s.fail(w, r, http.StatusUnprocessableEntity, "unknown_format", msgUnknownFormat, err)
			return nil, false
		}
		logger.Warn(ctx, "serving trades from unrecognized export format", zap.Error(err))
		return batch, true
	}

	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrTooLarge), errors.Is(err, ingest.ErrTooManyRows):
			s.fail(w, r, http.StatusRequestEntityTooLarge, "too_large", msgTooLarge, err)
		case errors.Is(err, ingest.ErrMalformedCSV), errors.Is(err, ingest.ErrEmptyInput):
			s.alert(ctx, "trade export could not be parsed: "+err.Error())
			s.fail(w, r, http.StatusInternalServerError, "parse_error", msgParseFailed, err)
		default:
			s.alert(ctx, "trade source could not be read: "+err.Error())
			s.fail(w, r, http.StatusInternalServerError, "read_error", msgReadFailed, err)
		}
		return nil, false
	}
	return batch, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, outcome, msg string, err error) {
	metrics.AnalyticsRequests.WithLabelValues(outcome).Inc()
	logger.Error(r.Context(), "trade load failed",
		zap.String("outcome", outcome),
		zap.Int("status", status),
		zap.Error(err))
	writeError(w, status, msg)
}

// alert fires without holding up the response.
func (s *Server) alert(ctx context.Context, msg string) {
	if s.opts.Alerter == nil {
		return
	}
	go s.opts.Alerter.Alert(context.WithoutCancel(ctx), msg)
}
