package analytics

import (
	"math"
	"time"

	"github.com/segmentio/encoding/json"
)

// Snapshot is the full analytics bundle computed from one set of trades.
// JSON field names follow what the dashboard front end reads.
type Snapshot struct {
	TotalPnL    float64  `json:"totalPnL"`
	TodayPnL    float64  `json:"todayPnL"`
	TradedPairs []string `json:"tradedPairs"`
	TotalVolume float64  `json:"totalVolume"`
	TotalFees   float64  `json:"totalFees"`

	TotalTrades        int `json:"totalTrades"`
	ProfitableTrades   int `json:"profitableTrades"`
	LossTrades         int `json:"lossTrades"`
	LongTrades         int `json:"longTrades"`
	ShortTrades        int `json:"shortTrades"`
	UnclassifiedTrades int `json:"unclassifiedTrades"`

	TradesByPair  map[string]PairStats `json:"tradesByPair"`
	DailyPnL      map[string]float64   `json:"dailyPnL"`
	MonthlyPnL    map[string]float64   `json:"monthlyPnL"`
	DailyReturns  map[string]float64   `json:"dailyReturns"`
	CumulativePnL []Point              `json:"cumulativePnL"`

	BestTrade       ExtremeTrade `json:"bestTrade"`
	WorstTrade      ExtremeTrade `json:"worstTrade"`
	TotalWinAmount  float64      `json:"totalWinAmount"`
	TotalLossAmount float64      `json:"totalLossAmount"`

	TradeSizes        []float64       `json:"tradeSizes"`
	PositionDurations []float64       `json:"positionDurations"`
	VolumeByDirection DirectionVolume `json:"volumeByDirection"`
	AvgTradeVolume    DirectionVolume `json:"avgTradeVolume"`
	LargestTrade      LargestTrade    `json:"largestTrade"`

	HourlyDistribution   [24]int          `json:"hourlyDistribution"`
	TimeOfDayPerformance TimeOfDay        `json:"timeOfDayPerformance"`
	ConsecutiveStats     ConsecutiveStats `json:"consecutiveStats"`
	RiskMetrics          RiskMetrics      `json:"riskMetrics"`

	WinRate         float64 `json:"winRate"`
	AvgPositionSize float64 `json:"avgPositionSize"`
	LongShortRatio  float64 `json:"longShortRatio"`
	ProfitFactor    float64 `json:"profitFactor"`
	AvgWinLossRatio float64 `json:"avgWinLossRatio"`
	MaxDrawdown     float64 `json:"maxDrawdown"`
	SharpeRatio     float64 `json:"sharpeRatio"`

	TradeSizeDistribution     Distribution `json:"tradeSizeDistribution"`
	AvgTradeDuration          float64      `json:"avgTradeDuration"`
	AvgTradeDurationFormatted string       `json:"avgTradeDurationFormatted"`
}

type PairStats struct {
	TotalTrades int     `json:"totalTrades"`
	Volume      float64 `json:"volume"`
	PnL         float64 `json:"pnl"`
	Fees        float64 `json:"fees"`
}

// Point is one sample of the cumulative P&L curve.
type Point struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

type DirectionVolume struct {
	Buy  float64 `json:"buy"`
	Sell float64 `json:"sell"`
}

type LargestTrade struct {
	Volume    float64    `json:"volume"`
	Timestamp *time.Time `json:"timestamp"`
	Side      *string    `json:"side"`
}

// ExtremeTrade records the best or worst single trade by realized P&L.
// Until a trade qualifies, PnL holds the -Inf (best) or +Inf (worst)
// starting value; Matched reports whether that has been replaced.
type ExtremeTrade struct {
	PnL       float64
	Timestamp time.Time
}

func (e ExtremeTrade) Matched() bool {
	return !math.IsInf(e.PnL, 0)
}

// MarshalJSON writes an unmatched extreme as {"pnl":null,"timestamp":null}.
func (e ExtremeTrade) MarshalJSON() ([]byte, error) {
	var out struct {
		PnL       *float64   `json:"pnl"`
		Timestamp *time.Time `json:"timestamp"`
	}
	if e.Matched() {
		pnl, ts := e.PnL, e.Timestamp
		out.PnL, out.Timestamp = &pnl, &ts
	}
	return json.Marshal(out)
}

type Bucket struct {
	PnL    float64 `json:"pnl"`
	Trades int     `json:"trades"`
}

type TimeOfDay struct {
	Morning   Bucket `json:"morning"`
	Afternoon Bucket `json:"afternoon"`
	Evening   Bucket `json:"evening"`
	Night     Bucket `json:"night"`
}

// StreakType is the kind of the current run of winning or losing trades.
type StreakType string

const (
	StreakNone StreakType = ""
	StreakWin  StreakType = "win"
	StreakLoss StreakType = "loss"
)

func (s StreakType) MarshalJSON() ([]byte, error) {
	if s == StreakNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

type ConsecutiveStats struct {
	CurrentStreak     int        `json:"currentStreak"`
	LongestWinStreak  int        `json:"longestWinStreak"`
	LongestLossStreak int        `json:"longestLossStreak"`
	CurrentStreakType StreakType `json:"currentStreakType"`
}

type RiskMetrics struct {
	AvgWinSize  float64 `json:"avgWinSize"`
	AvgLossSize float64 `json:"avgLossSize"`
	// LargestDrawdownDuration is the longest stretch, in minutes, the
	// cumulative P&L spent below a positive running peak.
	LargestDrawdownDuration float64 `json:"largestDrawdownDuration"`
	// RecoveryFactor is total P&L over the deepest drawdown in quote currency.
	RecoveryFactor        float64 `json:"recoveryFactor"`
	ProfitToDrawdownRatio float64 `json:"profitToDrawdownRatio"`
}

type Quartiles struct {
	Q1 float64 `json:"q1"`
	Q3 float64 `json:"q3"`
}

type Distribution struct {
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Median    float64   `json:"median"`
	Quartiles Quartiles `json:"quartiles"`
}
