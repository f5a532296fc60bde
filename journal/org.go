package journal

import (
	"bytes"
	"text/template"

	"github.com/rustyeddy/pnl/valuation"
	"github.com/shopspring/decimal"
)

var runOrgFuncs = template.FuncMap{
	"fixed": func(d decimal.Decimal) string { return d.StringFixed(valuation.Places) },
	"short": shortID,
	"sum":   valuation.Sum,
}

var runOrgTemplate = template.Must(template.New("run").Funcs(runOrgFuncs).Parse(RunOrgTemplate))

type runOrg struct {
	Run
	Results []valuation.Result
}

// FormatRunOrg renders a run and its results as an Org-mode block.
func FormatRunOrg(r Run, results []valuation.Result) (string, error) {
	buf := new(bytes.Buffer)
	if err := runOrgTemplate.Execute(buf, runOrg{Run: r, Results: results}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}

const RunOrgTemplate = `* PNL RUN: {{.Input}} ({{short .ID}})
:PROPERTIES:
:RUN_ID:      {{.ID}}
:STARTED:     [{{.StartedAt.UTC.Format "2006-01-02 Mon 15:04"}}]
:INPUT:       {{.Input}}
:REFERENCE:   {{.Reference}}
:TRADES:      {{.Trades}}
:INSTRUMENTS: {{.Instruments}}
:ISSUES:      {{.Issues}}
:END:

** Results ({{.Reference}})
| Instrument | Realized | Unrealized | Total |
|------------+----------+------------+-------|
{{- range .Results }}
| {{.Instrument}} | {{fixed .Realized}} | {{fixed .Unrealized}} | {{fixed .Total}}{{if .Degenerate}} (no price){{end}} |
{{- end }}
|------------+----------+------------+-------|
| Total      |          |            | {{fixed (sum .Results)}} |
`
