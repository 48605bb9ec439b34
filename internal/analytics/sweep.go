package analytics

import (
	"maps"
	"math"
	"slices"
	"time"

	"github.com/kjannette/trade-dashboard/internal/models"
)

// sweep is the accumulator threaded through a single chronological pass.
type sweep struct {
	snap    Snapshot
	today   string
	loc     *time.Location
	running float64
	pairs   map[string]struct{}
	open    openPositions
}

func newSweep(now time.Time, loc *time.Location) *sweep {
	return &sweep{
		snap: Snapshot{
			TradedPairs:       []string{},
			TradesByPair:      map[string]PairStats{},
			DailyPnL:          map[string]float64{},
			MonthlyPnL:        map[string]float64{},
			DailyReturns:      map[string]float64{},
			CumulativePnL:     []Point{},
			BestTrade:         ExtremeTrade{PnL: math.Inf(-1)},
			WorstTrade:        ExtremeTrade{PnL: math.Inf(1)},
			TradeSizes:        []float64{},
			PositionDurations: []float64{},
		},
		today: dayKey(now),
		loc:   loc,
		pairs: map[string]struct{}{},
		open:  openPositions{},
	}
}

func (s *sweep) add(t models.Trade) {
	snap := &s.snap
	pnl := t.RealizedPnL
	volume := t.Volume()
	day := dayKey(t.Timestamp)

	snap.TotalTrades++
	snap.TotalPnL += pnl
	s.running += pnl
	snap.CumulativePnL = append(snap.CumulativePnL, Point{Timestamp: t.Timestamp, Value: s.running})

	if day == s.today {
		snap.TodayPnL += pnl
	}

	s.pairs[t.Symbol] = struct{}{}
	snap.TotalVolume += volume
	snap.TotalFees += t.Fee
	snap.TradeSizes = append(snap.TradeSizes, volume)

	switch t.Side {
	case models.SideBuy:
		snap.LongTrades++
		snap.VolumeByDirection.Buy += volume
	case models.SideSell:
		snap.ShortTrades++
		snap.VolumeByDirection.Sell += volume
	default:
		snap.UnclassifiedTrades++
	}

	s.classify(pnl, t.Timestamp)

	pair := snap.TradesByPair[t.Symbol]
	pair.TotalTrades++
	pair.Volume += volume
	pair.PnL += pnl
	pair.Fees += t.Fee
	snap.TradesByPair[t.Symbol] = pair

	snap.DailyPnL[day] += pnl
	snap.DailyReturns[day] += pnl
	snap.MonthlyPnL[monthKey(t.Timestamp)] += pnl

	switch t.Side {
	case models.SideBuy:
		s.open.push(t.Symbol, t.Timestamp, t.Quantity)
	case models.SideSell:
		if minutes, ok := s.open.pop(t.Symbol, t.Timestamp); ok {
			snap.PositionDurations = append(snap.PositionDurations, minutes)
		}
	}

	if volume > snap.LargestTrade.Volume {
		ts, side := t.Timestamp, t.RawSide
		if side == "" {
			side = t.Side.String()
		}
		snap.LargestTrade = LargestTrade{Volume: volume, Timestamp: &ts, Side: &side}
	}

	hour := t.Timestamp.In(s.loc).Hour()
	snap.HourlyDistribution[hour]++
	b := snap.TimeOfDayPerformance.bucket(hour)
	b.PnL += pnl
	b.Trades++
}

// classify updates win/loss counters, extremes and streaks. A trade with
// exactly zero P&L touches none of them and leaves the current streak intact.
func (s *sweep) classify(pnl float64, ts time.Time) {
	snap := &s.snap
	streak := &snap.ConsecutiveStats

	switch {
	case pnl > 0:
		snap.ProfitableTrades++
		snap.TotalWinAmount += pnl
		if pnl > snap.BestTrade.PnL {
			snap.BestTrade = ExtremeTrade{PnL: pnl, Timestamp: ts}
		}
		s.extend(StreakWin)
		streak.LongestWinStreak = max(streak.LongestWinStreak, streak.CurrentStreak)
	case pnl < 0:
		snap.LossTrades++
		snap.TotalLossAmount += math.Abs(pnl)
		if pnl < snap.WorstTrade.PnL {
			snap.WorstTrade = ExtremeTrade{PnL: pnl, Timestamp: ts}
		}
		s.extend(StreakLoss)
		streak.LongestLossStreak = max(streak.LongestLossStreak, streak.CurrentStreak)
	}
}

func (s *sweep) extend(kind StreakType) {
	streak := &s.snap.ConsecutiveStats
	if streak.CurrentStreakType == kind {
		streak.CurrentStreak++
		return
	}
	streak.CurrentStreakType = kind
	streak.CurrentStreak = 1
}

func (s *sweep) finish() Snapshot {
	snap := s.snap

	snap.TradedPairs = slices.AppendSeq(snap.TradedPairs, maps.Keys(s.pairs))
	slices.Sort(snap.TradedPairs)

	if snap.TotalTrades > 0 {
		n := float64(snap.TotalTrades)
		snap.WinRate = float64(snap.ProfitableTrades) / n * 100
		snap.AvgPositionSize = snap.TotalVolume / n
	}
	if snap.ShortTrades > 0 {
		snap.LongShortRatio = float64(snap.LongTrades) / float64(snap.ShortTrades)
	}

	snap.ProfitFactor = snap.TotalWinAmount / orOne(snap.TotalLossAmount)

	avgWin := ratioOrZero(snap.TotalWinAmount, snap.ProfitableTrades)
	avgLoss := ratioOrZero(snap.TotalLossAmount, snap.LossTrades)
	snap.AvgWinLossRatio = avgWin / orOne(avgLoss)

	dd := drawdown(snap.CumulativePnL)
	snap.MaxDrawdown = dd.percent
	snap.SharpeRatio = sharpeRatio(dailyValues(snap.DailyReturns))
	snap.TradeSizeDistribution = distribution(snap.TradeSizes)

	snap.AvgTradeDuration = mean(snap.PositionDurations)
	snap.AvgTradeDurationFormatted = FormatDuration(snap.AvgTradeDuration)

	snap.AvgTradeVolume.Buy = ratioOrZero(snap.VolumeByDirection.Buy, snap.LongTrades)
	snap.AvgTradeVolume.Sell = ratioOrZero(snap.VolumeByDirection.Sell, snap.ShortTrades)

	snap.RiskMetrics.AvgWinSize = avgWin
	snap.RiskMetrics.AvgLossSize = avgLoss
	snap.RiskMetrics.LargestDrawdownDuration = dd.longestMinutes
	if dd.deepestAmount > 0 {
		snap.RiskMetrics.RecoveryFactor = snap.TotalPnL / dd.deepestAmount
	}
	snap.RiskMetrics.ProfitToDrawdownRatio = snap.TotalPnL / orOne(snap.MaxDrawdown)

	return snap
}

// dailyValues returns the per-day values in day order so the floating point
// sums downstream are reproducible.
func dailyValues(m map[string]float64) []float64 {
	out := make([]float64, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[k])
	}
	return out
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func ratioOrZero(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return total / float64(count)
}
