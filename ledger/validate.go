package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Issue is one consistency problem found in a ledger row.
type Issue struct {
	Line       int
	Instrument string
	Issue      string
	Value      string
	Warning    bool // advisory only, the trade can still be accounted
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d: %s - %s (%s)", i.Line, i.Instrument, i.Issue, i.Value)
}

// Report is the result of Validate.
type Report struct {
	Rows        int
	Instruments int
	Issues      []Issue
}

// OK reports whether no issue was found.
func (r Report) OK() bool { return len(r.Issues) == 0 }

// Errors counts the issues that are not warnings.
func (r Report) Errors() int {
	n := 0
	for _, i := range r.Issues {
		if !i.Warning {
			n++
		}
	}
	return n
}

type instrumentInfo struct {
	base, quote string
	firstLine   int
}

// Validate checks rows for problems that would make the PnL meaningless:
// unparsable fields, currencies that drift within an instrument and
// instruments whose reference conversion is likely wrong. Every row is
// checked, it does not stop at the first issue.
func Validate(rows []Row, reference string) Report {
	var issues []Issue
	add := func(line int, inst, issue, value string) {
		issues = append(issues, Issue{Line: line, Instrument: inst, Issue: issue, Value: value})
	}

	info := map[string]*instrumentInfo{}
	var order []string

	for _, r := range rows {
		inst := r.Get(ColInstrument)
		base := r.Get(ColBase)
		quote := r.Get(ColQuote)

		if inst == "" {
			add(r.Line, "", "empty "+ColInstrument, "")
			continue
		}
		if base == "" || quote == "" {
			add(r.Line, inst, "empty "+ColBase+"/"+ColQuote, base+"/"+quote)
		}

		seen, ok := info[inst]
		if !ok {
			info[inst] = &instrumentInfo{base: base, quote: quote, firstLine: r.Line}
			order = append(order, inst)
		} else {
			if base != "" && seen.base != "" && base != seen.base {
				add(r.Line, inst, ColBase+" changed within instrument", seen.base+" -> "+base)
			}
			if quote != "" && seen.quote != "" && quote != seen.quote {
				add(r.Line, inst, ColQuote+" changed within instrument", seen.quote+" -> "+quote)
			}
		}

		if base != "" && quote != "" {
			if want := base + "/" + quote; inst != want {
				add(r.Line, inst, ColInstrument+" != "+ColBase+"/"+ColQuote, want)
			}
		}

		if _, err := ParseTimestamp(r.Get(ColTime)); err != nil {
			add(r.Line, inst, "bad "+ColTime, fmt.Sprintf("%q (%v)", r.Get(ColTime), err))
		}

		if d, err := decimal.NewFromString(r.Get(ColSide)); err != nil {
			add(r.Line, inst, "bad "+ColSide, fmt.Sprintf("%q", r.Get(ColSide)))
		} else if !d.Equal(decimal.NewFromInt(1)) && !d.Equal(decimal.NewFromInt(-1)) {
			add(r.Line, inst, ColSide+" not in {1, -1}", r.Get(ColSide))
		}

		for _, col := range []string{ColAmount, ColPrice} {
			d, err := decimal.NewFromString(r.Get(col))
			switch {
			case err != nil:
				add(r.Line, inst, "bad "+col, fmt.Sprintf("%q", r.Get(col)))
			case !d.IsPositive():
				add(r.Line, inst, col+" must be > 0", r.Get(col))
			}
		}
	}

	for _, inst := range order {
		i := info[inst]
		if i.base != reference && i.quote != reference {
			issues = append(issues, Issue{
				Line:       i.firstLine,
				Instrument: inst,
				Issue:      fmt.Sprintf("%s conversion may be invalid (base!=%s and quote!=%s)", reference, reference, reference),
				Value:      i.base + "/" + i.quote,
				Warning:    true,
			})
		}
	}

	return Report{Rows: len(rows), Instruments: len(info), Issues: issues}
}
