// Package ledger reads trade ledgers, checks them for consistency and
// orders trades in time so they can be replayed.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a trade: +1 for a buy, -1 for a sell.
type Side int

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Trade is a single validated ledger row.
type Trade struct {
	Line       int // source line, 1 is the header
	Instrument string
	Base       string
	Quote      string
	Side       Side
	Amount     decimal.Decimal
	Price      decimal.Decimal
	Time       time.Time
}
