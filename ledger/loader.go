package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidNumericField is returned when side, amount or price cannot
	// be parsed or are out of range.
	ErrInvalidNumericField = errors.New("invalid numeric field")

	// ErrMissingColumns is returned when the header lacks a required column.
	ErrMissingColumns = errors.New("missing required columns")
)

// Column names of the ledger CSV.
const (
	ColInstrument = "instrument_exch"
	ColBase       = "cur_base"
	ColQuote      = "cur_quote"
	ColSide       = "side"
	ColAmount     = "amount"
	ColPrice      = "price"
	ColTime       = "ts"
)

// RequiredColumns lists the header columns every ledger must carry.
var RequiredColumns = []string{ColInstrument, ColBase, ColQuote, ColSide, ColAmount, ColPrice, ColTime}

// Row is a raw ledger record keyed by column name.
type Row struct {
	Line   int
	Fields map[string]string
}

// Get returns the trimmed value of a column.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r.Fields[col])
}

// ReadRows reads a ledger CSV with a header row. Columns may come in any
// order and extra columns are kept but ignored.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty ledger", ErrMissingColumns)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var missing []string
	for _, c := range RequiredColumns {
		if !slices.Contains(header, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ledger: %w", err)
		}
		line, _ := cr.FieldPos(0)
		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(rec) {
				fields[name] = rec[i]
			}
		}
		rows = append(rows, Row{Line: line, Fields: fields})
	}
	return rows, nil
}

// ParseRow converts a raw row into a Trade. It fails on the first field
// that cannot be used for accounting.
func ParseRow(r Row) (Trade, error) {
	side, err := parseSide(r.Get(ColSide))
	if err != nil {
		return Trade{}, fmt.Errorf("line %d: side: %w", r.Line, err)
	}
	amount, err := parsePositive(r.Get(ColAmount))
	if err != nil {
		return Trade{}, fmt.Errorf("line %d: amount: %w", r.Line, err)
	}
	price, err := parsePositive(r.Get(ColPrice))
	if err != nil {
		return Trade{}, fmt.Errorf("line %d: price: %w", r.Line, err)
	}
	ts, err := ParseTimestamp(r.Get(ColTime))
	if err != nil {
		return Trade{}, fmt.Errorf("line %d: %w", r.Line, err)
	}

	return Trade{
		Line:       r.Line,
		Instrument: r.Get(ColInstrument),
		Base:       r.Get(ColBase),
		Quote:      r.Get(ColQuote),
		Side:       side,
		Amount:     amount,
		Price:      price,
		Time:       ts,
	}, nil
}

// parseSide accepts 1 and -1 in any decimal spelling ("1", "-1.0").
func parseSide(s string) (Side, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumericField, s)
	}
	switch {
	case d.Equal(decimal.NewFromInt(1)):
		return Buy, nil
	case d.Equal(decimal.NewFromInt(-1)):
		return Sell, nil
	}
	return 0, fmt.Errorf("%w: %q not in {1, -1}", ErrInvalidNumericField, s)
}

func parsePositive(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidNumericField, s)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q must be > 0", ErrInvalidNumericField, s)
	}
	return d, nil
}

// ParseRows converts every row, stopping at the first error.
func ParseRows(rows []Row) ([]Trade, error) {
	trades := make([]Trade, 0, len(rows))
	for _, r := range rows {
		t, err := ParseRow(r)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, nil
}

// Load reads and parses a whole ledger.
func Load(r io.Reader) ([]Trade, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return nil, err
	}
	return ParseRows(rows)
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string) ([]Trade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
