package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kjannette/trade-dashboard/internal/ingest"
	"github.com/kjannette/trade-dashboard/internal/models"
)

// FormatPostgres labels batches read from the trade_history table.
const FormatPostgres = "postgres"

const selectTrades = `SELECT executed_at, symbol, side,
	COALESCE(fill_price, 0), COALESCE(quantity, 0), COALESCE(total, 0),
	COALESCE(fee, 0), COALESCE(realized_pnl, 0), COALESCE(contract_size, 0)
 FROM trade_history
 ORDER BY executed_at ASC`

// TradeRepo reads executed trades that an exchange sync job has already
// written to Postgres. It never writes.
type TradeRepo struct {
	pool    *pgxpool.Pool
	maxRows int
}

func NewTradeRepo(pool *pgxpool.Pool, maxRows int) *TradeRepo {
	return &TradeRepo{pool: pool, maxRows: maxRows}
}

// Load returns every stored trade, oldest first. More than maxRows rows is
// reported as ingest.ErrTooManyRows, matching the CSV sources.
func (r *TradeRepo) Load(ctx context.Context) (*models.TradeBatch, error) {
	query, args := selectTrades, []any{}
	if r.maxRows > 0 {
		query += " LIMIT $1"
		args = append(args, r.maxRows+1)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trade_history: %w", err)
	}
	defer rows.Close()

	trades, err := collectTrades(rows)
	if err != nil {
		return nil, fmt.Errorf("scan trade_history: %w", err)
	}
	if r.maxRows > 0 && len(trades) > r.maxRows {
		return nil, fmt.Errorf("%w: more than %d rows in trade_history", ingest.ErrTooManyRows, r.maxRows)
	}

	return &models.TradeBatch{
		Format:   FormatPostgres,
		Trades:   trades,
		RowsRead: len(trades),
	}, nil
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

type rowsIter interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanTrade(row scannable) (models.Trade, error) {
	var t models.Trade
	err := row.Scan(
		&t.Timestamp, &t.Symbol, &t.RawSide,
		&t.Price, &t.Quantity, &t.Total,
		&t.Fee, &t.RealizedPnL, &t.ContractSize,
	)
	if err != nil {
		return models.Trade{}, err
	}
	t.Side = models.ParseSide(t.RawSide)
	return t, nil
}

func collectTrades(rows rowsIter) ([]models.Trade, error) {
	out := []models.Trade{}
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
