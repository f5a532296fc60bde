package journal

import (
	"testing"
	"time"

	"github.com/rustyeddy/pnl/valuation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRunOrg(t *testing.T) {
	t.Parallel()

	run := Run{
		ID:          "01HX5Q3ABCDEFGHJKMNPQRSTVW",
		StartedAt:   time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		Input:       "trades.csv",
		Reference:   "USD",
		Trades:      12,
		Instruments: 2,
		Issues:      1,
	}
	degenerate := valuation.Result{Instrument: "ZZZ/ETH", Degenerate: true}

	out, err := FormatRunOrg(run, []valuation.Result{sampleResult(), degenerate})
	require.NoError(t, err)

	assert.Contains(t, out, "* PNL RUN: trades.csv (01HX5Q3A)")
	assert.Contains(t, out, ":RUN_ID:      01HX5Q3ABCDEFGHJKMNPQRSTVW")
	assert.Contains(t, out, ":STARTED:     [2024-03-15 Fri 10:30]")
	assert.Contains(t, out, ":TRADES:      12")
	assert.Contains(t, out, ":ISSUES:      1")
	assert.Contains(t, out, "| BTC/USD | 220.00000 | 30.00000 | 250.00000 |")
	assert.Contains(t, out, "| ZZZ/ETH | 0.00000 | 0.00000 | 0.00000 (no price) |")
	assert.Contains(t, out, "| Total      |          |            | 250.00000 |")
}

func TestShortID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", shortID("short"))
	assert.Equal(t, "12345678", shortID("1234567890"))
}
