package journal

// Monetary columns are TEXT holding decimal strings so values round-trip
// without binary floating point.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	started_at DATETIME NOT NULL,
	input TEXT NOT NULL,
	reference TEXT NOT NULL,
	trades INTEGER NOT NULL,
	instruments INTEGER NOT NULL,
	issues INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	run_id TEXT NOT NULL,
	instrument TEXT NOT NULL,
	quote TEXT NOT NULL,
	last_price TEXT NOT NULL,
	realized_quote TEXT NOT NULL,
	unrealized_quote TEXT NOT NULL,
	total_quote TEXT NOT NULL,
	realized_ref TEXT NOT NULL,
	unrealized_ref TEXT NOT NULL,
	total_ref TEXT NOT NULL,
	degenerate INTEGER NOT NULL,
	PRIMARY KEY (run_id, instrument)
);

CREATE TABLE IF NOT EXISTS closures (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	instrument TEXT NOT NULL,
	time DATETIME NOT NULL,
	side INTEGER NOT NULL,
	amount TEXT NOT NULL,
	entry_price TEXT NOT NULL,
	exit_price TEXT NOT NULL,
	realized_quote TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_closures_run ON closures(run_id, seq);
`
