package ingest

import (
	"regexp"
	"strconv"
	"time"
)

const (
	FormatNew     = "new"
	FormatOld     = "old"
	FormatUnknown = "unknown"
)

const (
	colSymbol       = "Symbol"
	colSide         = "Side"
	colFillPrice    = "Fill Price"
	colTotal        = "Total"
	colFee          = "Fee"
	colRealizedPnL  = "Realized PnL"
	colContractSize = "Contract Size"
)

// schema describes one export layout. Layouts differ only in the timestamp
// header, which embeds the export's UTC offset and date range, and in the
// column holding the filled quantity.
type schema struct {
	format         string
	dateColumn     string
	quantityColumn string
}

// schemas are matched in order on an exact date header.
var schemas = []schema{
	{
		format:         FormatNew,
		dateColumn:     "Date(UTC+1 28 Jan 2024 - 28 Jan 2025)",
		quantityColumn: "Filled (crypto amount)",
	},
	{
		format:         FormatOld,
		dateColumn:     "Date(UTC+-5 21 Jan 2025 - 27 Jan 2025)",
		quantityColumn: "Filled (USDT)",
	},
}

func detectSchema(header []string) (schema, bool) {
	for _, s := range schemas {
		for _, h := range header {
			if h == s.dateColumn {
				return s, true
			}
		}
	}
	return schema{format: FormatUnknown}, false
}

var zonePattern = regexp.MustCompile(`UTC([+-]{1,2})(\d{1,2})`)

// location reads the offset out of the date header. "UTC+-5" is how the
// exchange writes minus five hours.
func (s schema) location() *time.Location {
	m := zonePattern.FindStringSubmatch(s.dateColumn)
	if m == nil {
		return time.UTC
	}
	hours, err := strconv.Atoi(m[2])
	if err != nil {
		return time.UTC
	}
	sign := "+"
	if m[1][len(m[1])-1] == '-' {
		sign = "-"
		hours = -hours
	}
	return time.FixedZone("UTC"+sign+strconv.Itoa(abs(hours)), hours*3600)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	time.DateTime,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
	"2006/01/02 15:04:05",
	time.DateOnly,
}

// parseTimestamp interprets a naive export timestamp in loc. Values carrying
// their own offset keep it.
func parseTimestamp(v string, loc *time.Location) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, v, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
