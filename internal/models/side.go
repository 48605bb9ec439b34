package models

import "fmt"

// Side is the direction of an executed trade.
type Side int

const (
	SideUnclassified Side = iota
	SideBuy
	SideSell
)

// ParseSide maps the exchange's side text onto a Side. Matching is
// case-sensitive: only "Buy" and "Sell" are recognized.
func ParseSide(s string) Side {
	switch s {
	case "Buy":
		return SideBuy
	case "Sell":
		return SideSell
	default:
		return SideUnclassified
	}
}

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "Buy"
	case SideSell:
		return "Sell"
	default:
		return "Unclassified"
	}
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Buy":
		*s = SideBuy
	case "Sell":
		*s = SideSell
	case "Unclassified", "":
		*s = SideUnclassified
	default:
		return fmt.Errorf("unknown side %q", string(b))
	}
	return nil
}
