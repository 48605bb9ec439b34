package analytics

import (
	"math"
	"slices"
)

// tradingDaysPerYear annualizes the daily Sharpe ratio.
const tradingDaysPerYear = 252

type drawdownStats struct {
	percent        float64
	deepestAmount  float64
	longestMinutes float64
}

// drawdown walks the cumulative P&L curve tracking the running peak.
// Nothing is measured while the peak is not positive.
func drawdown(series []Point) drawdownStats {
	var st drawdownStats
	peak := math.Inf(-1)
	var peakIdx int
	for i, p := range series {
		if p.Value > peak {
			peak = p.Value
			peakIdx = i
		}
		if peak <= 0 {
			continue
		}

		if pct := (peak - p.Value) / math.Abs(peak) * 100; pct > st.percent {
			st.percent = pct
		}
		if amount := peak - p.Value; amount > st.deepestAmount {
			st.deepestAmount = amount
		}
		if p.Value < peak {
			if m := p.Timestamp.Sub(series[peakIdx].Timestamp).Minutes(); m > st.longestMinutes {
				st.longestMinutes = m
			}
		}
	}
	return st
}

// sharpeRatio is mean over sample standard deviation of daily P&L,
// annualized. Fewer than two days or zero deviation yields 0.
func sharpeRatio(daily []float64) float64 {
	if len(daily) < 2 {
		return 0
	}
	m := mean(daily)
	var sq float64
	for _, v := range daily {
		sq += (v - m) * (v - m)
	}
	sd := math.Sqrt(sq / float64(len(daily)-1))
	if sd == 0 {
		return 0
	}
	return m / sd * math.Sqrt(tradingDaysPerYear)
}

// distribution picks nearest-rank order statistics by floor index on the
// ascending values; for even lengths the median is the upper middle element.
func distribution(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return Distribution{
		Min:    sorted[0],
		Max:    sorted[n-1],
		Median: sorted[n/2],
		Quartiles: Quartiles{
			Q1: sorted[n/4],
			Q3: sorted[3*n/4],
		},
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
