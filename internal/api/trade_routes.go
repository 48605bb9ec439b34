package api

import (
	"net/http"
	"slices"

	"github.com/kjannette/trade-dashboard/internal/models"
)

type tradesResponse struct {
	Format      string         `json:"format"`
	RowsRead    int            `json:"rowsRead"`
	RowsSkipped int            `json:"rowsSkipped"`
	Warnings    int            `json:"warnings"`
	Count       int            `json:"count"`
	Trades      []models.Trade `json:"trades"`
}

// handleTrades returns the most recent normalized trades, newest first.
func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 100)

	batch, ok := s.loadTrades(w, r)
	if !ok {
		return
	}

	trades := slices.Clone(batch.Trades)
	slices.SortStableFunc(trades, func(a, b models.Trade) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if len(trades) > limit {
		trades = trades[:limit]
	}

	w.Header().Set(formatHeader, batch.Format)
	writeJSON(w, http.StatusOK, tradesResponse{
		Format:      batch.Format,
		RowsRead:    batch.RowsRead,
		RowsSkipped: batch.RowsSkipped,
		Warnings:    batch.Warnings,
		Count:       len(trades),
		Trades:      trades,
	})
}
