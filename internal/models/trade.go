package models

import "time"

// Trade is one normalized row of an exchange trade export.
// A zero Timestamp or an empty Symbol marks a record the analytics engine skips.
type Trade struct {
	Timestamp    time.Time `json:"timestamp"`
	Symbol       string    `json:"symbol"`
	Side         Side      `json:"side"`
	RawSide      string    `json:"rawSide,omitempty"`
	Price        float64   `json:"price"`
	Quantity     float64   `json:"quantity"`
	Total        float64   `json:"total"`
	Fee          float64   `json:"fee"`
	RealizedPnL  float64   `json:"realizedPnL"`
	ContractSize float64   `json:"contractSize"`
}

// Volume is the notional value of the trade in quote currency.
func (t Trade) Volume() float64 {
	return t.Quantity * t.Price
}

// Valid reports whether the record carries the fields analytics requires.
func (t Trade) Valid() bool {
	return !t.Timestamp.IsZero() && t.Symbol != ""
}

// TradeBatch is what a trade source hands to the API layer for one request.
type TradeBatch struct {
	Format      string  `json:"format"`
	Trades      []Trade `json:"trades"`
	RowsRead    int     `json:"rowsRead"`
	RowsSkipped int     `json:"rowsSkipped"`
	Warnings    int     `json:"warnings"`
}
