package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjannette/trade-dashboard/internal/models"
)

const newExport = "\ufeffDate(UTC+1 28 Jan 2024 - 28 Jan 2025),Symbol,Side,Fill Price,Filled (crypto amount),Total,Fee,Realized PnL,Contract Size\n" +
	"2025-01-27 10:00:00,BTCUSDT,Buy,100,1,100,0.1,0,1\n" +
	"2025-01-27 12:00:00,BTCUSDT,Sell,110,1,110,0.11,10,1\n" +
	",,,,,,,,\n" +
	"2025-01-27 13:00:00,ETHUSDT,Long,\"2,500.5\",0.5 ETH,1250.25,n/a,-4.5,\n"

const oldExport = "Date(UTC+-5 21 Jan 2025 - 27 Jan 2025),Symbol,Side,Fill Price,Filled (USDT),Total,Fee,Realized PnL,Contract Size\n" +
	"2025-01-21 09:30:00,SOLUSDT,Sell,0,25,0,0.01,1.5,1\n"

func TestParse_NewFormat(t *testing.T) {
	batch, err := Parse(context.Background(), strings.NewReader(newExport), Limits{})
	require.NoError(t, err)

	assert.Equal(t, FormatNew, batch.Format)
	assert.Equal(t, 4, batch.RowsRead)
	assert.Equal(t, 1, batch.RowsSkipped)
	require.Len(t, batch.Trades, 3)

	loc := time.FixedZone("UTC+1", 3600)
	first := batch.Trades[0]
	assert.True(t, time.Date(2025, 1, 27, 10, 0, 0, 0, loc).Equal(first.Timestamp))
	assert.Equal(t, "BTCUSDT", first.Symbol)
	assert.Equal(t, models.SideBuy, first.Side)
	assert.Equal(t, 100.0, first.Price)
	assert.Equal(t, 1.0, first.Quantity)
	assert.Equal(t, 0.1, first.Fee)
	assert.Equal(t, 1.0, first.ContractSize)

	assert.Equal(t, models.SideSell, batch.Trades[1].Side)
	assert.Equal(t, 10.0, batch.Trades[1].RealizedPnL)

	eth := batch.Trades[2]
	assert.Equal(t, models.SideUnclassified, eth.Side)
	assert.Equal(t, "Long", eth.RawSide)
	assert.Equal(t, 2500.5, eth.Price)
	assert.Equal(t, 0.5, eth.Quantity)
	assert.Zero(t, eth.Fee)
	assert.Equal(t, -4.5, eth.RealizedPnL)
	assert.Equal(t, 1, batch.Warnings, "unreadable fee cell")
}

func TestParse_OldFormatZeroPriceIsKept(t *testing.T) {
	batch, err := Parse(context.Background(), strings.NewReader(oldExport), Limits{})
	require.NoError(t, err)

	assert.Equal(t, FormatOld, batch.Format)
	require.Len(t, batch.Trades, 1)
	tr := batch.Trades[0]
	assert.Zero(t, tr.Price)
	assert.Equal(t, 25.0, tr.Quantity)
	assert.Equal(t, 1, batch.Warnings)

	loc := time.FixedZone("UTC-5", -5*3600)
	assert.True(t, time.Date(2025, 1, 21, 9, 30, 0, 0, loc).Equal(tr.Timestamp))
	assert.Equal(t, 14, tr.Timestamp.UTC().Hour())
}

func TestParse_OverflowingNumberDefaultsToZero(t *testing.T) {
	csv := "Date(UTC+1 28 Jan 2024 - 28 Jan 2025),Symbol,Side,Fill Price,Filled (crypto amount),Total,Fee,Realized PnL,Contract Size\n" +
		"2025-01-27 10:00:00,BTCUSDT,Sell,100,1,100,0.1,1e999,1\n"

	batch, err := Parse(context.Background(), strings.NewReader(csv), Limits{})
	require.NoError(t, err)
	require.Len(t, batch.Trades, 1)
	assert.Zero(t, batch.Trades[0].RealizedPnL)
	assert.Equal(t, 1, batch.Warnings)
}

func TestParse_UnknownFormat(t *testing.T) {
	csv := "Time,Pair,Direction\n2025-01-01 00:00:00,BTCUSDT,Buy\n2025-01-02 00:00:00,ETHUSDT,Sell\n"

	batch, err := Parse(context.Background(), strings.NewReader(csv), Limits{})
	require.ErrorIs(t, err, ErrUnknownFormat)
	require.NotNil(t, batch)
	assert.Equal(t, FormatUnknown, batch.Format)
	require.Len(t, batch.Trades, 2)
	for _, tr := range batch.Trades {
		assert.Equal(t, models.Trade{}, tr)
		assert.False(t, tr.Valid())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		limits Limits
		want   error
	}{
		{"empty input", "", Limits{}, ErrEmptyInput},
		{"unterminated quote", newExport + "2025-01-28 10:00:00,\"BTCUSDT,Buy,1,1,1,0,0,1\n", Limits{}, ErrMalformedCSV},
		{"bare quote", "Symbol,Side\nBT\"C,Buy\n", Limits{}, ErrMalformedCSV},
		{"row limit", newExport, Limits{MaxRows: 2}, ErrTooManyRows},
		{"byte limit", newExport, Limits{MaxBytes: 64}, ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := Parse(context.Background(), strings.NewReader(tt.input), tt.limits)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, batch)
		})
	}
}

func TestParse_LimitsAtBoundary(t *testing.T) {
	batch, err := Parse(context.Background(), strings.NewReader(newExport), Limits{MaxRows: 4, MaxBytes: int64(len(newExport))})
	require.NoError(t, err)
	assert.Equal(t, 4, batch.RowsRead)
}

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tradeHistory.csv")
	require.NoError(t, os.WriteFile(path, []byte(newExport), 0o644))

	batch, err := NewFileLoader(path, Limits{}).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, batch.Trades, 3)

	_, err = NewFileLoader(path, Limits{MaxBytes: 10}).Load(context.Background())
	require.ErrorIs(t, err, ErrTooLarge)

	_, err = NewFileLoader(filepath.Join(t.TempDir(), "missing.csv"), Limits{}).Load(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestHTTPLoader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/export.csv" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(oldExport))
	}))
	defer srv.Close()

	batch, err := NewHTTPLoader(srv.URL+"/export.csv", Limits{}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FormatOld, batch.Format)
	assert.Len(t, batch.Trades, 1)

	_, err = NewHTTPLoader(srv.URL+"/missing.csv", Limits{}).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")

	_, err = NewHTTPLoader(srv.URL+"/export.csv", Limits{MaxBytes: 16}).Load(context.Background())
	require.ErrorIs(t, err, ErrTooLarge)
}
