package analytics

import "time"

// dayKey is the UTC calendar day of ts, YYYY-MM-DD.
func dayKey(ts time.Time) string {
	return ts.UTC().Format(time.DateOnly)
}

// monthKey is the UTC calendar month of ts, YYYY-MM.
func monthKey(ts time.Time) string {
	return ts.UTC().Format("2006-01")
}

// bucket returns the session an hour of day (0-23) falls into:
// [6,12) morning, [12,18) afternoon, [18,24) evening, otherwise night.
func (t *TimeOfDay) bucket(hour int) *Bucket {
	switch {
	case hour >= 6 && hour < 12:
		return &t.Morning
	case hour >= 12 && hour < 18:
		return &t.Afternoon
	case hour >= 18 && hour < 24:
		return &t.Evening
	default:
		return &t.Night
	}
}
