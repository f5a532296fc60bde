package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/pnl/inventory"
	"github.com/rustyeddy/pnl/valuation"
)

// SQLite keeps every run, its results and its closures in one database.
type SQLite struct {
	db  *sql.DB
	seq map[string]int
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db, seq: map[string]int{}}, nil
}

func (j *SQLite) RecordRun(r Run) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, started_at, input, reference, trades, instruments, issues)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt, r.Input, r.Reference, r.Trades, r.Instruments, r.Issues,
	)
	return err
}

func (j *SQLite) RecordResult(runID string, r valuation.Result) error {
	_, err := j.db.Exec(`
		INSERT INTO results
		(run_id, instrument, quote, last_price, realized_quote, unrealized_quote, total_quote,
		 realized_ref, unrealized_ref, total_ref, degenerate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, r.Instrument, r.Quote, r.LastPrice.String(),
		r.RealizedQuote.String(), r.UnrealizedQuote.String(), r.TotalQuote.String(),
		r.Realized.String(), r.Unrealized.String(), r.Total.String(), r.Degenerate,
	)
	return err
}

func (j *SQLite) RecordClosure(runID string, c inventory.Closure) error {
	seq := j.seq[runID]
	j.seq[runID] = seq + 1

	_, err := j.db.Exec(`
		INSERT INTO closures
		(run_id, seq, instrument, time, side, amount, entry_price, exit_price, realized_quote)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, seq, c.Instrument, c.Time, int(c.Side),
		c.Amount.String(), c.EntryPrice.String(), c.ExitPrice.String(), c.Realized.String(),
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
