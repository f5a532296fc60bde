// Package journal emits the results of a PnL run: CSV datasets for the
// per-instrument breakdown and the FIFO closures, and an optional SQLite
// journal that keeps every run for later queries.
package journal

import (
	"errors"
	"time"

	"github.com/rustyeddy/pnl/inventory"
	"github.com/rustyeddy/pnl/valuation"
)

// Run describes one execution of the pipeline.
type Run struct {
	ID          string
	StartedAt   time.Time
	Input       string
	Reference   string
	Trades      int
	Instruments int
	Issues      int
}

type Journal interface {
	RecordRun(Run) error
	RecordResult(runID string, r valuation.Result) error
	RecordClosure(runID string, c inventory.Closure) error
	Close() error
}

// Multi fans every record out to several journals.
type Multi []Journal

func (m Multi) RecordRun(r Run) error {
	var errs []error
	for _, j := range m {
		errs = append(errs, j.RecordRun(r))
	}
	return errors.Join(errs...)
}

func (m Multi) RecordResult(runID string, r valuation.Result) error {
	var errs []error
	for _, j := range m {
		errs = append(errs, j.RecordResult(runID, r))
	}
	return errors.Join(errs...)
}

func (m Multi) RecordClosure(runID string, c inventory.Closure) error {
	var errs []error
	for _, j := range m {
		errs = append(errs, j.RecordClosure(runID, c))
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, j := range m {
		errs = append(errs, j.Close())
	}
	return errors.Join(errs...)
}
