package ingest

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var numericPrefix = regexp.MustCompile(`^([+-]?)(\d+(?:\.\d+)?|\.\d+)([eE][+-]?\d+)?`)

// parseNumber reads the leading number of an export cell, so "12.5 USDT"
// yields 12.5. Thousands separators are dropped first. ok is false when the
// cell has no numeric prefix; the value is then 0.
func parseNumber(raw string) (v float64, ok bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	m := numericPrefix.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	digits := m[2]
	if strings.HasPrefix(digits, ".") {
		digits = "0" + digits
	}
	sign := ""
	if m[1] == "-" {
		sign = "-"
	}
	d, err := decimal.NewFromString(sign + digits + m[3])
	if err != nil {
		return 0, false
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
