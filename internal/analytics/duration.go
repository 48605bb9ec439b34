package analytics

import (
	"fmt"
	"math"
)

// FormatDuration renders a duration given in minutes the way the dashboard
// shows average holding time: "42 seconds", "17 minutes", "3h 5m", "2d 4h".
func FormatDuration(minutes float64) string {
	switch {
	case minutes < 1:
		return fmt.Sprintf("%d seconds", roundHalfUp(minutes*60))
	case minutes < 60:
		return fmt.Sprintf("%d minutes", roundHalfUp(minutes))
	case minutes < 1440:
		hours := int64(math.Floor(minutes / 60))
		mins := roundHalfUp(math.Mod(minutes, 60))
		return fmt.Sprintf("%dh %dm", hours, mins)
	default:
		days := int64(math.Floor(minutes / 1440))
		hours := int64(math.Floor(math.Mod(minutes, 1440) / 60))
		return fmt.Sprintf("%dd %dh", days, hours)
	}
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
