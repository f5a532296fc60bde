package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/pnl/inventory"
	"github.com/rustyeddy/pnl/ledger"
	"github.com/rustyeddy/pnl/valuation"
)

// ResultsHeader returns the header of the results dataset, e.g.
// instrument,realized_pl_usd,unrealized_pl_usd,total_pl_usd.
func ResultsHeader(reference string) []string {
	ref := strings.ToLower(reference)
	return []string{"instrument", "realized_pl_" + ref, "unrealized_pl_" + ref, "total_pl_" + ref}
}

// ClosuresHeader is the header of the closures dataset.
var ClosuresHeader = []string{"run_id", "instrument", "time", "side", "amount", "entry_price", "exit_price", "realized_pl_quote"}

// IssuesHeader is the header of the validation issues dataset.
var IssuesHeader = []string{"line", "instrument", "issue", "value"}

// CSVJournal writes results, and optionally closures, to CSV files.
// Runs are not kept: a CSV journal holds a single run.
type CSVJournal struct {
	results  *csv.Writer
	closures *csv.Writer
	rf, cf   *os.File
}

// NewCSV creates the results file and, when closuresPath is not empty,
// the closures file. Headers are written immediately.
func NewCSV(resultsPath, closuresPath, reference string) (*CSVJournal, error) {
	rf, err := os.Create(resultsPath)
	if err != nil {
		return nil, err
	}
	j := &CSVJournal{rf: rf, results: csv.NewWriter(rf)}
	if err := j.writeHeader(j.results, ResultsHeader(reference)); err != nil {
		rf.Close()
		return nil, err
	}

	if closuresPath != "" {
		cf, err := os.Create(closuresPath)
		if err != nil {
			rf.Close()
			return nil, err
		}
		j.cf = cf
		j.closures = csv.NewWriter(cf)
		if err := j.writeHeader(j.closures, ClosuresHeader); err != nil {
			j.Close()
			return nil, err
		}
	}
	return j, nil
}

func (j *CSVJournal) writeHeader(w *csv.Writer, header []string) error {
	if err := w.Write(header); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSVJournal) RecordRun(Run) error { return nil }

func (j *CSVJournal) RecordResult(_ string, r valuation.Result) error {
	if err := j.results.Write(ResultRow(r)); err != nil {
		return err
	}
	j.results.Flush()
	return j.results.Error()
}

func (j *CSVJournal) RecordClosure(runID string, c inventory.Closure) error {
	if j.closures == nil {
		return nil
	}
	if err := j.closures.Write(ClosureRow(runID, c)); err != nil {
		return err
	}
	j.closures.Flush()
	return j.closures.Error()
}

func (j *CSVJournal) Close() error {
	j.results.Flush()
	if err := j.results.Error(); err != nil {
		return err
	}
	if err := j.rf.Close(); err != nil {
		return err
	}
	if j.closures != nil {
		j.closures.Flush()
		if err := j.closures.Error(); err != nil {
			return err
		}
		if err := j.cf.Close(); err != nil {
			return err
		}
	}
	return nil
}

// ResultRow renders a result with fixed reference precision.
func ResultRow(r valuation.Result) []string {
	return []string{
		r.Instrument,
		r.Realized.StringFixed(valuation.Places),
		r.Unrealized.StringFixed(valuation.Places),
		r.Total.StringFixed(valuation.Places),
	}
}

// ClosureRow renders a closure. Amounts keep their full precision.
func ClosureRow(runID string, c inventory.Closure) []string {
	return []string{
		runID,
		c.Instrument,
		c.Time.Format(time.RFC3339),
		c.Side.String(),
		c.Amount.String(),
		c.EntryPrice.String(),
		c.ExitPrice.String(),
		c.Realized.String(),
	}
}

// WriteIssues writes a validation report to path.
func WriteIssues(path string, issues []ledger.Issue) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(IssuesHeader); err != nil {
		f.Close()
		return err
	}
	for _, i := range issues {
		if err := w.Write([]string{strconv.Itoa(i.Line), i.Instrument, i.Issue, i.Value}); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
