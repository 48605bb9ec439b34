package analytics

import "testing"

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		minutes float64
		want    string
	}{
		{0, "0 seconds"},
		{0.5, "30 seconds"},
		{0.991, "59 seconds"},
		{1, "1 minutes"},
		{59.4, "59 minutes"},
		{59.6, "60 minutes"},
		{60, "1h 0m"},
		{90, "1h 30m"},
		{119.5, "1h 60m"},
		{1439, "23h 59m"},
		{1440, "1d 0h"},
		{1500, "1d 1h"},
		{3000, "2d 2h"},
	}

	for _, tc := range cases {
		if got := FormatDuration(tc.minutes); got != tc.want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}
