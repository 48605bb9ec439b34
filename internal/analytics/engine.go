// Package analytics derives trading-performance metrics from normalized
// trade records: P&L totals, win/loss statistics, drawdown, Sharpe ratio,
// holding durations and time-of-day breakdowns.
package analytics

import (
	"slices"
	"time"

	"github.com/kjannette/trade-dashboard/internal/models"
)

// Engine computes Snapshots. It holds no state between calls, so one Engine
// may serve concurrent requests.
type Engine struct {
	now func() time.Time
	loc *time.Location
}

type Option func(*Engine)

// WithClock sets the source of "now" used for the today P&L bucket.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the zone hour-of-day statistics are reported in.
// Calendar-day keys are always UTC.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute sorts a copy of trades chronologically, sweeps it once and derives
// the aggregate metrics. Records without a timestamp or symbol are ignored.
// The input slice is not modified.
func (e *Engine) Compute(trades []models.Trade) Snapshot {
	sorted := slices.Clone(trades)
	slices.SortStableFunc(sorted, func(a, b models.Trade) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	s := newSweep(e.now(), e.loc)
	for _, t := range sorted {
		if !t.Valid() {
			continue
		}
		s.add(t)
	}
	return s.finish()
}
