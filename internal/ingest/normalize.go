package ingest

import (
	"strings"
	"time"

	"github.com/kjannette/trade-dashboard/internal/models"
)

// normalizer maps the columns of one detected schema onto Trade fields.
type normalizer struct {
	loc     *time.Location
	index   map[string]int
	dateCol string
	qtyCol  string
}

func newNormalizer(s schema, header []string) *normalizer {
	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	return &normalizer{
		loc:     s.location(),
		index:   index,
		dateCol: s.dateColumn,
		qtyCol:  s.quantityColumn,
	}
}

func (n *normalizer) field(rec []string, col string) string {
	if col == "" {
		return ""
	}
	i, ok := n.index[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// normalize returns the record and the number of non-empty cells that could
// not be read. An unknown schema yields a zero record.
func (n *normalizer) normalize(rec []string) (models.Trade, int) {
	if n.dateCol == "" {
		return models.Trade{}, 0
	}

	var warnings int
	number := func(col string) float64 {
		raw := n.field(rec, col)
		v, ok := parseNumber(raw)
		if !ok && raw != "" {
			warnings++
		}
		return v
	}

	t := models.Trade{
		Symbol:       n.field(rec, colSymbol),
		RawSide:      n.field(rec, colSide),
		Price:        number(colFillPrice),
		Quantity:     number(n.qtyCol),
		Total:        number(colTotal),
		Fee:          number(colFee),
		RealizedPnL:  number(colRealizedPnL),
		ContractSize: number(colContractSize),
	}
	t.Side = models.ParseSide(t.RawSide)

	raw := n.field(rec, n.dateCol)
	if ts, ok := parseTimestamp(raw, n.loc); ok {
		t.Timestamp = ts
	} else if raw != "" {
		warnings++
	}
	return t, warnings
}
