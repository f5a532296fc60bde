package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/pnl/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('runs','results','closures')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["runs"])
	assert.True(t, found["results"])
	assert.True(t, found["closures"])
}

func TestSQLiteRunRoundTrip(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	started := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	run := Run{
		ID:          "01HZZZZZZZZZZZZZZZZZZZZZZZ",
		StartedAt:   started,
		Input:       "trades.csv",
		Reference:   "USD",
		Trades:      3,
		Instruments: 1,
		Issues:      0,
	}
	require.NoError(t, j.RecordRun(run))

	got, err := j.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.True(t, got.StartedAt.Equal(started))
	assert.Equal(t, run.Input, got.Input)
	assert.Equal(t, run.Reference, got.Reference)
	assert.Equal(t, 3, got.Trades)
	assert.Equal(t, 1, got.Instruments)

	_, err = j.GetRun("nope")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteResultsAndClosures(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	require.NoError(t, j.RecordRun(Run{ID: "R1", StartedAt: time.Now().UTC(), Reference: "USD"}))

	second := sampleResult()
	second.Instrument = "AAA/USD"
	second.Realized = d("0.12345")
	second.Degenerate = true
	require.NoError(t, j.RecordResult("R1", sampleResult()))
	require.NoError(t, j.RecordResult("R1", second))

	c1 := sampleClosure()
	c2 := sampleClosure()
	c2.Side = ledger.Buy
	c2.Realized = d("-1.5")
	require.NoError(t, j.RecordClosure("R1", c1))
	require.NoError(t, j.RecordClosure("R1", c2))

	results, err := j.ListResultsByRun("R1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "AAA/USD", results[0].Instrument)
	assert.True(t, results[0].Degenerate)
	assert.Equal(t, "USD", results[0].Reference)
	assert.True(t, d("0.12345").Equal(results[0].Realized))
	assert.Equal(t, "BTC/USD", results[1].Instrument)
	assert.True(t, d("250").Equal(results[1].Total))
	assert.True(t, d("120").Equal(results[1].LastPrice))

	closures, err := j.ListClosuresByRun("R1")
	require.NoError(t, err)
	require.Len(t, closures, 2)
	assert.Equal(t, ledger.Sell, closures[0].Side)
	assert.Equal(t, ledger.Buy, closures[1].Side)
	assert.True(t, d("-1.5").Equal(closures[1].Realized))
	assert.True(t, closures[0].Time.Equal(c1.Time))

	empty, err := j.ListResultsByRun("other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSQLiteListRuns(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	for _, id := range []string{"01A", "01C", "01B"} {
		require.NoError(t, j.RecordRun(Run{ID: id, StartedAt: time.Now().UTC(), Reference: "USD"}))
	}

	runs, err := j.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "01C", runs[0].ID)
	assert.Equal(t, "01A", runs[2].ID)

	runs, err = j.ListRuns(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}
