// Package pipeline wires a PnL run together: validate the ledger, load and
// sequence the trades, replay them into the inventory, value the positions
// and emit the results.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rustyeddy/pnl/config"
	"github.com/rustyeddy/pnl/inventory"
	"github.com/rustyeddy/pnl/journal"
	"github.com/rustyeddy/pnl/ledger"
	"github.com/rustyeddy/pnl/pkg/id"
	"github.com/rustyeddy/pnl/valuation"
	"go.uber.org/zap"
)

// ErrValidationFailed is returned by a strict run when the ledger has issues.
var ErrValidationFailed = errors.New("ledger validation failed")

// maxLoggedIssues caps how many issues are logged individually.
const maxLoggedIssues = 20

// Summary describes a completed run.
type Summary struct {
	RunID     string
	StartedAt time.Time
	Report    ledger.Report
	Trades    int
	Results   []valuation.Result
	Closures  int
}

// Run executes a full PnL run as described by cfg.
func Run(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Summary, error) {
	started := time.Now().UTC()
	s := &Summary{RunID: id.NewRun(started), StartedAt: started}
	log = log.With(zap.String("run_id", s.RunID))

	rows, err := readRows(cfg.Input)
	if err != nil {
		return nil, err
	}
	log.Info("ledger read", zap.String("input", cfg.Input), zap.Int("rows", len(rows)))

	s.Report, err = validate(rows, cfg, log)
	if err != nil {
		return nil, err
	}

	trades, err := ledger.ParseRows(rows)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	s.Trades = len(trades)

	ordered := ledger.Sequence(trades)
	positions, err := inventory.ReplaySharded(ctx, ordered, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	log.Debug("replay complete", zap.Int("trades", len(ordered)), zap.Int("instruments", len(positions)), zap.Int("workers", cfg.Workers))

	s.Results = valuation.ValueAll(positions, cfg.ReferenceCurrency)
	for _, r := range s.Results {
		if r.Degenerate {
			log.Warn("no last price, unrealized PnL and conversion skipped", zap.String("instrument", r.Instrument))
		}
	}

	s.Closures, err = emit(cfg, s, positions)
	if err != nil {
		return nil, err
	}

	log.Info("run complete",
		zap.Int("trades", s.Trades),
		zap.Int("instruments", len(s.Results)),
		zap.Int("closures", s.Closures),
		zap.String("results", cfg.Output.ResultsFile),
		zap.Duration("elapsed", time.Since(started)))
	return s, nil
}

func readRows(path string) ([]ledger.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	rows, err := ledger.ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", path, err)
	}
	return rows, nil
}

// validate checks the rows, writes the issues report and enforces strict mode.
func validate(rows []ledger.Row, cfg *config.Config, log *zap.Logger) (ledger.Report, error) {
	rep := ledger.Validate(rows, cfg.ReferenceCurrency)

	if cfg.Validation.IssuesFile != "" {
		if err := journal.WriteIssues(cfg.Validation.IssuesFile, rep.Issues); err != nil {
			return rep, fmt.Errorf("write issues: %w", err)
		}
	}

	for i, issue := range rep.Issues {
		if i == maxLoggedIssues {
			log.Warn("more issues not logged", zap.Int("remaining", len(rep.Issues)-i))
			break
		}
		log.Warn(issue.Issue,
			zap.Int("line", issue.Line),
			zap.String("instrument", issue.Instrument),
			zap.String("value", issue.Value),
			zap.Bool("warning", issue.Warning))
	}
	log.Info("ledger validated",
		zap.Int("instruments", rep.Instruments),
		zap.Int("issues", len(rep.Issues)),
		zap.Int("errors", rep.Errors()))

	if cfg.Validation.Strict && rep.Errors() > 0 {
		return rep, fmt.Errorf("%w: %d issues, see %s", ErrValidationFailed, rep.Errors(), cfg.Validation.IssuesFile)
	}
	return rep, nil
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	csvj, err := journal.NewCSV(cfg.Output.ResultsFile, cfg.Output.ClosuresFile, cfg.ReferenceCurrency)
	if err != nil {
		return nil, fmt.Errorf("create results: %w", err)
	}
	if cfg.Journal.DBPath == "" {
		return csvj, nil
	}

	db, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		csvj.Close()
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return journal.Multi{csvj, db}, nil
}

// emit records the run, its results and closures, and returns the
// number of closures written.
func emit(cfg *config.Config, s *Summary, positions []*inventory.Position) (int, error) {
	j, err := openJournal(cfg)
	if err != nil {
		return 0, err
	}

	run := journal.Run{
		ID:          s.RunID,
		StartedAt:   s.StartedAt,
		Input:       cfg.Input,
		Reference:   cfg.ReferenceCurrency,
		Trades:      s.Trades,
		Instruments: len(s.Results),
		Issues:      len(s.Report.Issues),
	}

	n, err := record(j, run, s.Results, positions)
	if cerr := j.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close journal: %w", cerr)
	}
	return n, err
}

func record(j journal.Journal, run journal.Run, results []valuation.Result, positions []*inventory.Position) (int, error) {
	if err := j.RecordRun(run); err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	for _, r := range results {
		if err := j.RecordResult(run.ID, r); err != nil {
			return 0, fmt.Errorf("record result %s: %w", r.Instrument, err)
		}
	}
	n := 0
	for _, p := range positions {
		for _, c := range p.Closures {
			if err := j.RecordClosure(run.ID, c); err != nil {
				return n, fmt.Errorf("record closure %s: %w", c.Instrument, err)
			}
			n++
		}
	}
	return n, nil
}

// Validate reads a ledger, checks it and writes the issues report when
// issuesPath is not empty. It never fails on issues, callers decide.
func Validate(path, reference, issuesPath string, log *zap.Logger) (ledger.Report, error) {
	rows, err := readRows(path)
	if err != nil {
		return ledger.Report{}, err
	}
	cfg := &config.Config{
		ReferenceCurrency: reference,
		Validation:        config.ValidationConfig{IssuesFile: issuesPath},
	}
	return validate(rows, cfg, log)
}
