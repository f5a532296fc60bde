package inventory

import (
	"time"

	"github.com/rustyeddy/pnl/ledger"
	"github.com/shopspring/decimal"
)

// Closure records one FIFO match between an open lot and an opposing trade.
type Closure struct {
	Instrument string
	Time       time.Time
	Side       ledger.Side // side of the closing trade
	Amount     decimal.Decimal
	EntryPrice decimal.Decimal
	ExitPrice  decimal.Decimal
	Realized   decimal.Decimal // quote units, positive is profit
}

// Position is the inventory state of one instrument.
type Position struct {
	Instrument string
	Base       string
	Quote      string

	Long  LotQueue
	Short LotQueue

	Realized  decimal.Decimal // quote units
	LastPrice decimal.Decimal

	Bought decimal.Decimal
	Sold   decimal.Decimal
	Trades int

	Closures []Closure
}

func newPosition(t ledger.Trade) *Position {
	return &Position{
		Instrument: t.Instrument,
		Base:       t.Base,
		Quote:      t.Quote,
		Realized:   decimal.Zero,
		LastPrice:  decimal.Zero,
		Bought:     decimal.Zero,
		Sold:       decimal.Zero,
	}
}

// Net is the open exposure: long amount minus short amount.
func (p *Position) Net() decimal.Decimal {
	return p.Long.Total().Sub(p.Short.Total())
}

// Flat reports whether no lot is open.
func (p *Position) Flat() bool {
	return p.Long.Empty() && p.Short.Empty()
}

// apply replays one trade against the position. Opposing lots are closed
// oldest first; only what is left after the opposing queue is empty opens
// a new lot on the trade's side.
func (p *Position) apply(t ledger.Trade) {
	if p.Quote == "" {
		p.Quote = t.Quote
	}
	if p.Base == "" {
		p.Base = t.Base
	}
	p.LastPrice = t.Price
	p.Trades++

	opposing, same := &p.Short, &p.Long
	if t.Side == ledger.Sell {
		opposing, same = &p.Long, &p.Short
		p.Sold = p.Sold.Add(t.Amount)
	} else {
		p.Bought = p.Bought.Add(t.Amount)
	}

	remaining := t.Amount
	for remaining.IsPositive() && !opposing.Empty() {
		lot := opposing.Front()
		closeAmt := decimal.Min(remaining, lot.Amount)

		// buy closes a short: entry - exit, sell closes a long: exit - entry
		diff := lot.Price.Sub(t.Price)
		if t.Side == ledger.Sell {
			diff = t.Price.Sub(lot.Price)
		}
		pl := closeAmt.Mul(diff)
		p.Realized = p.Realized.Add(pl)

		p.Closures = append(p.Closures, Closure{
			Instrument: p.Instrument,
			Time:       t.Time,
			Side:       t.Side,
			Amount:     closeAmt,
			EntryPrice: lot.Price,
			ExitPrice:  t.Price,
			Realized:   pl,
		})

		remaining = remaining.Sub(closeAmt)
		lot.Amount = lot.Amount.Sub(closeAmt)
		if !lot.Amount.IsPositive() {
			opposing.PopFront()
		}
	}

	if remaining.IsPositive() {
		same.PushBack(Lot{Amount: remaining, Price: t.Price})
	}
}
