package analytics

import "time"

type openLot struct {
	at       time.Time
	quantity float64
}

// openPositions holds unmatched buys per symbol, oldest first. A symbol's
// entry is removed as soon as its queue empties, so a present key always has
// at least one lot.
type openPositions map[string][]openLot

func (p openPositions) push(symbol string, at time.Time, quantity float64) {
	p[symbol] = append(p[symbol], openLot{at: at, quantity: quantity})
}

// pop matches a sell against the oldest open buy and returns the holding
// time in minutes. ok is false when the symbol has no open buy.
func (p openPositions) pop(symbol string, at time.Time) (minutes float64, ok bool) {
	lots, found := p[symbol]
	if !found {
		return 0, false
	}

	oldest := lots[0]
	lots = lots[1:]
	if len(lots) == 0 {
		delete(p, symbol)
	} else {
		p[symbol] = lots
	}
	return at.Sub(oldest.at).Minutes(), true
}
