// Package valuation marks open lots to the last traded price and expresses
// PnL in a reference currency.
//
// Conversion to the reference currency divides quote amounts by the
// instrument's last price. That is only meaningful when the instrument's
// price is itself the quote/reference rate (an ETH-quoted instrument priced
// in ETH/USD for instance). It is not a general FX conversion.
package valuation

import (
	"sort"

	"github.com/rustyeddy/pnl/inventory"
	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits kept in reference values.
const Places = 5

// Result is the PnL breakdown of one instrument.
type Result struct {
	Instrument string
	Quote      string
	Reference  string
	LastPrice  decimal.Decimal

	RealizedQuote   decimal.Decimal
	UnrealizedQuote decimal.Decimal
	TotalQuote      decimal.Decimal

	// Reference currency values, rounded to Places.
	Realized   decimal.Decimal
	Unrealized decimal.Decimal
	Total      decimal.Decimal

	// Degenerate is set when there was no last price to value against.
	// Unrealized PnL is then zero and no conversion took place.
	Degenerate bool
}

// Unrealized marks the open lots of p to its last price, in quote units.
// It returns zero when the last price is zero.
func Unrealized(p *inventory.Position) decimal.Decimal {
	last := p.LastPrice
	u := decimal.Zero
	if last.IsZero() {
		return u
	}
	p.Long.Each(func(l inventory.Lot) {
		u = u.Add(l.Amount.Mul(last.Sub(l.Price)))
	})
	p.Short.Each(func(l inventory.Lot) {
		u = u.Add(l.Amount.Mul(l.Price.Sub(last)))
	})
	return u
}

// Value computes the PnL of a finalized position in the reference currency.
func Value(p *inventory.Position, reference string) Result {
	r := Result{
		Instrument:    p.Instrument,
		Quote:         p.Quote,
		Reference:     reference,
		LastPrice:     p.LastPrice,
		RealizedQuote: p.Realized,
		Degenerate:    p.LastPrice.IsZero(),
	}
	r.UnrealizedQuote = Unrealized(p)
	r.TotalQuote = r.RealizedQuote.Add(r.UnrealizedQuote)

	switch {
	case p.Quote == reference:
		r.Realized = r.RealizedQuote
		r.Unrealized = r.UnrealizedQuote
		r.Total = r.TotalQuote
	case r.Degenerate:
		r.Realized = decimal.Zero
		r.Unrealized = decimal.Zero
		r.Total = decimal.Zero
	default:
		r.Realized = convert(r.RealizedQuote, p.LastPrice)
		r.Unrealized = convert(r.UnrealizedQuote, p.LastPrice)
		r.Total = convert(r.TotalQuote, p.LastPrice)
	}

	r.Realized = r.Realized.Round(Places)
	r.Unrealized = r.Unrealized.Round(Places)
	r.Total = r.Total.Round(Places)
	return r
}

// convert divides a quote amount by rate, keeping enough precision for the
// later rounding to Places.
func convert(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.DivRound(rate, Places+8)
}

// ValueAll values every position and sorts the results by instrument.
func ValueAll(positions []*inventory.Position, reference string) []Result {
	out := make([]Result, 0, len(positions))
	for _, p := range positions {
		out = append(out, Value(p, reference))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Instrument < out[j].Instrument })
	return out
}

// Sum adds the reference totals of results.
func Sum(results []Result) decimal.Decimal {
	total := decimal.Zero
	for _, r := range results {
		total = total.Add(r.Total)
	}
	return total
}
