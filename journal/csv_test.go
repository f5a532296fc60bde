package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/pnl/inventory"
	"github.com/rustyeddy/pnl/ledger"
	"github.com/rustyeddy/pnl/valuation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func sampleResult() valuation.Result {
	return valuation.Result{
		Instrument:      "BTC/USD",
		Quote:           "USD",
		Reference:       "USD",
		LastPrice:       d("120"),
		RealizedQuote:   d("220"),
		UnrealizedQuote: d("30"),
		TotalQuote:      d("250"),
		Realized:        d("220"),
		Unrealized:      d("30"),
		Total:           d("250"),
	}
}

func sampleClosure() inventory.Closure {
	return inventory.Closure{
		Instrument: "BTC/USD",
		Time:       time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
		Side:       ledger.Sell,
		Amount:     d("2"),
		EntryPrice: d("110"),
		ExitPrice:  d("120"),
		Realized:   d("20"),
	}
}

func TestCSVJournalResults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	resultsPath := filepath.Join(dir, "pl.csv")

	j, err := NewCSV(resultsPath, "", "USD")
	require.NoError(t, err)

	r := sampleResult()
	small := valuation.Result{Instrument: "ETH/BTC", Realized: d("0.005"), Unrealized: d("-0.00001"), Total: d("0.00499")}

	assert.NoError(t, j.RecordRun(Run{ID: "R1"}))
	assert.NoError(t, j.RecordResult("R1", r))
	assert.NoError(t, j.RecordResult("R1", small))
	// no closures file configured
	assert.NoError(t, j.RecordClosure("R1", sampleClosure()))
	assert.NoError(t, j.Close())

	rows := readCSV(t, resultsPath)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"instrument", "realized_pl_usd", "unrealized_pl_usd", "total_pl_usd"}, rows[0])
	assert.Equal(t, []string{"BTC/USD", "220.00000", "30.00000", "250.00000"}, rows[1])
	assert.Equal(t, []string{"ETH/BTC", "0.00500", "-0.00001", "0.00499"}, rows[2])
}

func TestCSVJournalClosures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	resultsPath := filepath.Join(dir, "pl.csv")
	closuresPath := filepath.Join(dir, "closures.csv")

	j, err := NewCSV(resultsPath, closuresPath, "EUR")
	require.NoError(t, err)
	assert.NoError(t, j.RecordClosure("R1", sampleClosure()))
	assert.NoError(t, j.Close())

	rows := readCSV(t, closuresPath)
	require.Len(t, rows, 2)
	assert.Equal(t, ClosuresHeader, rows[0])
	assert.Equal(t, []string{"R1", "BTC/USD", "2024-01-02T03:04:00Z", "sell", "2", "110", "120", "20"}, rows[1])

	header := readCSV(t, resultsPath)
	assert.Equal(t, []string{"instrument", "realized_pl_eur", "unrealized_pl_eur", "total_pl_eur"}, header[0])
}

func TestNewCSVBadPath(t *testing.T) {
	t.Parallel()

	_, err := NewCSV(filepath.Join(t.TempDir(), "missing", "pl.csv"), "", "USD")
	assert.Error(t, err)
}

func TestWriteIssues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "issues.csv")
	err := WriteIssues(path, []ledger.Issue{
		{Line: 3, Instrument: "X/USD", Issue: "bad side", Value: `"x"`},
		{Line: 7, Instrument: "ETH/BTC", Issue: "USD conversion may be invalid", Value: "ETH/BTC", Warning: true},
	})
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, IssuesHeader, rows[0])
	assert.Equal(t, []string{"3", "X/USD", "bad side", `"x"`}, rows[1])
	assert.Equal(t, "7", rows[2][0])
}

func TestMultiJournal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a, err := NewCSV(filepath.Join(dir, "a.csv"), "", "USD")
	require.NoError(t, err)
	b, err := NewCSV(filepath.Join(dir, "b.csv"), "", "USD")
	require.NoError(t, err)

	m := Multi{a, b}
	assert.NoError(t, m.RecordRun(Run{ID: "R"}))
	assert.NoError(t, m.RecordResult("R", sampleResult()))
	assert.NoError(t, m.RecordClosure("R", sampleClosure()))
	assert.NoError(t, m.Close())

	for _, name := range []string{"a.csv", "b.csv"} {
		rows := readCSV(t, filepath.Join(dir, name))
		assert.Len(t, rows, 2, name)
	}
}
