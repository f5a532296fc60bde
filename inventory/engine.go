// Package inventory replays trades into per-instrument FIFO lot books and
// accumulates realized PnL.
package inventory

import (
	"context"
	"sort"

	"github.com/rustyeddy/pnl/ledger"
	"golang.org/x/sync/errgroup"
)

// Engine owns the positions of one replay. Engines share no state, so
// separate runs and tests never interfere.
type Engine struct {
	positions map[string]*Position
}

// NewEngine returns an engine with no positions.
func NewEngine() *Engine {
	return &Engine{positions: make(map[string]*Position)}
}

// Apply replays a single trade. Trades of one instrument must be applied
// in chronological order.
func (e *Engine) Apply(t ledger.Trade) {
	p, ok := e.positions[t.Instrument]
	if !ok {
		p = newPosition(t)
		e.positions[t.Instrument] = p
	}
	p.apply(t)
}

// Replay applies every trade in the given order.
func (e *Engine) Replay(trades []ledger.Trade) {
	for _, t := range trades {
		e.Apply(t)
	}
}

// Position returns the position of an instrument.
func (e *Engine) Position(instrument string) (*Position, bool) {
	p, ok := e.positions[instrument]
	return p, ok
}

// Positions returns every position sorted by instrument.
func (e *Engine) Positions() []*Position {
	out := make([]*Position, 0, len(e.positions))
	for _, p := range e.positions {
		out = append(out, p)
	}
	sortPositions(out)
	return out
}

func sortPositions(ps []*Position) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Instrument < ps[j].Instrument })
}

// ReplaySharded replays trades with one engine per instrument, running at
// most workers shards at a time. Each shard keeps the input order of its
// instrument's trades, so trades must already be sequenced. With workers
// <= 1 everything runs on the calling goroutine.
func ReplaySharded(ctx context.Context, trades []ledger.Trade, workers int) ([]*Position, error) {
	if workers <= 1 {
		e := NewEngine()
		e.Replay(trades)
		return e.Positions(), nil
	}

	shards := map[string][]ledger.Trade{}
	var order []string
	for _, t := range trades {
		if _, ok := shards[t.Instrument]; !ok {
			order = append(order, t.Instrument)
		}
		shards[t.Instrument] = append(shards[t.Instrument], t)
	}

	out := make([]*Position, len(order))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, inst := range order {
		i, shard := i, shards[inst]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			e := NewEngine()
			e.Replay(shard)
			out[i], _ = e.Position(shard[0].Instrument)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortPositions(out)
	return out, nil
}
