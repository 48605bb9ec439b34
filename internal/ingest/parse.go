// Package ingest turns exchange trade exports into normalized trade records.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/kjannette/trade-dashboard/internal/logger"
	"github.com/kjannette/trade-dashboard/internal/metrics"
	"github.com/kjannette/trade-dashboard/internal/models"
)

var (
	ErrEmptyInput    = errors.New("trade export has no header row")
	ErrMalformedCSV  = errors.New("malformed trade export")
	ErrTooManyRows   = errors.New("trade export exceeds row limit")
	ErrTooLarge      = errors.New("trade export exceeds size limit")
	ErrUnknownFormat = errors.New("unrecognized trade export format")
)

// Limits bounds a single export. Zero means unbounded.
type Limits struct {
	MaxRows  int
	MaxBytes int64
}

const bom = "\ufeff"

// Parse reads a CSV export and normalizes every data row.
//
// An unrecognized header set is not fatal: the batch is returned with format
// FormatUnknown, zeroed records and an error wrapping ErrUnknownFormat, and the
// caller decides whether to serve it.
func Parse(ctx context.Context, r io.Reader, limits Limits) (*models.TradeBatch, error) {
	lr := &limitedReader{r: r, max: limits.MaxBytes}
	cr := csv.NewReader(lr)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, classify(lr, err, ErrEmptyInput)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, bom))
	}

	sch, known := detectSchema(header)
	logger.Info(ctx, "detected trade export format",
		zap.String("format", sch.format),
		zap.Strings("headers", header))

	n := newNormalizer(sch, header)
	batch := &models.TradeBatch{Format: sch.format, Trades: []models.Trade{}}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, classify(lr, err, nil)
		}
		batch.RowsRead++
		if limits.MaxRows > 0 && batch.RowsRead > limits.MaxRows {
			return nil, fmt.Errorf("%w: more than %d rows", ErrTooManyRows, limits.MaxRows)
		}

		if populated(rec) < 2 {
			batch.RowsSkipped++
			continue
		}

		line, _ := cr.FieldPos(0)
		t, warnings := n.normalize(rec)
		if t.Price == 0 || t.Quantity == 0 {
			warnings++
			logger.Warn(ctx, "trade row has zero price or quantity",
				zap.Int("line", line),
				zap.String("format", sch.format),
				zap.Float64("price", t.Price),
				zap.Float64("quantity", t.Quantity))
		}
		batch.Warnings += warnings
		batch.Trades = append(batch.Trades, t)
	}

	metrics.TradesIngested.WithLabelValues(batch.Format).Add(float64(len(batch.Trades)))
	metrics.IngestWarnings.Add(float64(batch.Warnings))

	if !known {
		return batch, fmt.Errorf("%w: headers %q", ErrUnknownFormat, header)
	}
	return batch, nil
}

// classify maps a reader failure onto the package sentinels. fallback is used
// for io.EOF, which only matters while reading the header.
func classify(lr *limitedReader, err error, fallback error) error {
	var perr *csv.ParseError
	switch {
	case lr.exceeded:
		return fmt.Errorf("%w: more than %d bytes", ErrTooLarge, lr.max)
	case errors.Is(err, io.EOF) && fallback != nil:
		return fallback
	case errors.As(err, &perr):
		return fmt.Errorf("%w: %v", ErrMalformedCSV, perr)
	default:
		return fmt.Errorf("read trade export: %w", err)
	}
}

func populated(rec []string) int {
	var n int
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

// limitedReader fails once more than max bytes were read.
type limitedReader struct {
	r        io.Reader
	max      int64
	read     int64
	exceeded bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.exceeded {
		return 0, ErrTooLarge
	}
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.max > 0 && l.read > l.max {
		l.exceeded = true
		return n, ErrTooLarge
	}
	return n, err
}
