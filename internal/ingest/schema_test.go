package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDetectSchema(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   string
		known  bool
	}{
		{"new export", []string{"Date(UTC+1 28 Jan 2024 - 28 Jan 2025)", "Symbol", "Filled (crypto amount)"}, FormatNew, true},
		{"old export", []string{"Symbol", "Date(UTC+-5 21 Jan 2025 - 27 Jan 2025)", "Filled (USDT)"}, FormatOld, true},
		{"near miss is unknown", []string{"Date(UTC+1 28 Jan 2024 - 28 Jan 2026)", "Symbol"}, FormatUnknown, false},
		{"empty header", nil, FormatUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := detectSchema(tt.header)
			assert.Equal(t, tt.want, s.format)
			assert.Equal(t, tt.known, ok)
		})
	}
}

func TestSchemaLocation(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, off := ts.In(schemas[0].location()).Zone()
	assert.Equal(t, 3600, off)

	_, off = ts.In(schemas[1].location()).Zone()
	assert.Equal(t, -5*3600, off)

	assert.Equal(t, time.UTC, schema{format: FormatUnknown}.location())
}

func TestParseTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	want := time.Date(2025, 1, 27, 13, 45, 12, 0, loc)

	for _, v := range []string{"2025-01-27 13:45:12", "2025-01-27T13:45:12", "01/27/2025 13:45:12"} {
		ts, ok := parseTimestamp(v, loc)
		assert.True(t, ok, v)
		assert.True(t, want.Equal(ts), v)
	}

	ts, ok := parseTimestamp("2025-01-27T12:45:12Z", loc)
	assert.True(t, ok)
	assert.True(t, want.Equal(ts), "explicit offset wins")

	ts, ok = parseTimestamp("2024-01-01T10:00Z", loc)
	assert.True(t, ok, "minute precision with zone")
	assert.True(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC).Equal(ts))

	_, ok = parseTimestamp("yesterday", loc)
	assert.False(t, ok)
	_, ok = parseTimestamp("", loc)
	assert.False(t, ok)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"101.25", 101.25, true},
		{"-3.5", -3.5, true},
		{"+2", 2, true},
		{"12.5 USDT", 12.5, true},
		{" 0.0004 ", 0.0004, true},
		{"1,234.5", 1234.5, true},
		{".5", 0.5, true},
		{"1e3", 1000, true},
		{"", 0, false},
		{"--", 0, false},
		{"USDT 5", 0, false},
		{"1e999", 0, false},
		{"-1e999", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.InDelta(t, tt.want, got, 1e-12, tt.in)
	}
}
