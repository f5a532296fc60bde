package journal

import (
	"database/sql"
	"fmt"

	"github.com/rustyeddy/pnl/inventory"
	"github.com/rustyeddy/pnl/ledger"
	"github.com/rustyeddy/pnl/valuation"
	"github.com/shopspring/decimal"
)

// GetRun returns a single run by ID.
func (j *SQLite) GetRun(runID string) (Run, error) {
	var r Run

	row := j.db.QueryRow(`
		SELECT run_id, started_at, input, reference, trades, instruments, issues
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(&r.ID, &r.StartedAt, &r.Input, &r.Reference, &r.Trades, &r.Instruments, &r.Issues)
	if err != nil {
		if err == sql.ErrNoRows {
			return Run{}, fmt.Errorf("run %q not found", runID)
		}
		return Run{}, err
	}
	return r, nil
}

// ListRuns returns the most recent runs first. A limit <= 0 returns all.
func (j *SQLite) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.Query(`
		SELECT run_id, started_at, input, reference, trades, instruments, issues
		FROM runs
		ORDER BY run_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.Input, &r.Reference, &r.Trades, &r.Instruments, &r.Issues); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListResultsByRun returns the results of a run sorted by instrument.
func (j *SQLite) ListResultsByRun(runID string) ([]valuation.Result, error) {
	rows, err := j.db.Query(`
		SELECT r.instrument, r.quote, u.reference, r.last_price,
			r.realized_quote, r.unrealized_quote, r.total_quote,
			r.realized_ref, r.unrealized_ref, r.total_ref, r.degenerate
		FROM results r JOIN runs u ON u.run_id = r.run_id
		WHERE r.run_id = ?
		ORDER BY r.instrument ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []valuation.Result
	for rows.Next() {
		var (
			r    valuation.Result
			nums [7]string
		)
		if err := rows.Scan(&r.Instrument, &r.Quote, &r.Reference,
			&nums[0], &nums[1], &nums[2], &nums[3], &nums[4], &nums[5], &nums[6],
			&r.Degenerate); err != nil {
			return nil, err
		}
		dst := []*decimal.Decimal{
			&r.LastPrice, &r.RealizedQuote, &r.UnrealizedQuote, &r.TotalQuote,
			&r.Realized, &r.Unrealized, &r.Total,
		}
		for i, s := range nums {
			if *dst[i], err = decimal.NewFromString(s); err != nil {
				return nil, fmt.Errorf("result %s: %w", r.Instrument, err)
			}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListClosuresByRun returns the closures of a run in replay order.
func (j *SQLite) ListClosuresByRun(runID string) ([]inventory.Closure, error) {
	rows, err := j.db.Query(`
		SELECT instrument, time, side, amount, entry_price, exit_price, realized_quote
		FROM closures
		WHERE run_id = ?
		ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []inventory.Closure
	for rows.Next() {
		var (
			c    inventory.Closure
			side int
			nums [4]string
		)
		if err := rows.Scan(&c.Instrument, &c.Time, &side, &nums[0], &nums[1], &nums[2], &nums[3]); err != nil {
			return nil, err
		}
		c.Side = ledger.Side(side)
		dst := []*decimal.Decimal{&c.Amount, &c.EntryPrice, &c.ExitPrice, &c.Realized}
		for i, s := range nums {
			if *dst[i], err = decimal.NewFromString(s); err != nil {
				return nil, fmt.Errorf("closure %s: %w", c.Instrument, err)
			}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
