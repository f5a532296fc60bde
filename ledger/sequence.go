package ledger

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedTimestamp is returned when a ledger timestamp cannot be parsed.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// ParseTimestamp parses "<month>/<day>/<yy> <hour>:<minute>" into a UTC time.
// The year is read as 2000+yy. A trailing ":<second>" is accepted and ignored.
func ParseTimestamp(s string) (time.Time, error) {
	parts := strings.Fields(s)
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("%w: %q: want date and time", ErrMalformedTimestamp, s)
	}

	d, err := ints(parts[0], "/", 3)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: date: %v", ErrMalformedTimestamp, s, err)
	}
	hm, err := ints(parts[1], ":", 2)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: time: %v", ErrMalformedTimestamp, s, err)
	}

	month, day, year := d[0], d[1], 2000+d[2]
	hour, minute := hm[0], hm[1]
	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)

	// time.Date normalizes out of range values, reject those instead
	if t.Year() != year || int(t.Month()) != month || t.Day() != day ||
		t.Hour() != hour || t.Minute() != minute {
		return time.Time{}, fmt.Errorf("%w: %q: out of range", ErrMalformedTimestamp, s)
	}
	return t, nil
}

// ints splits s on sep and parses at least n leading integer fields.
func ints(s, sep string, n int) ([]int, error) {
	fields := strings.Split(s, sep)
	if len(fields) < n {
		return nil, fmt.Errorf("want %d fields, got %d", n, len(fields))
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

// Sequence returns the trades ordered by time, oldest first. Trades with
// the same time keep their input order. The input slice is not modified.
func Sequence(trades []Trade) []Trade {
	out := slices.Clone(trades)
	slices.SortStableFunc(out, func(a, b Trade) int {
		return a.Time.Compare(b.Time)
	})
	return out
}
