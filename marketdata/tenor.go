package marketdata

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TenorUnit is the calendar unit of a tenor.
type TenorUnit int

const (
	TenorDays TenorUnit = iota
	TenorWeeks
	TenorMonths
	TenorYears
)

func (u TenorUnit) String() string {
	switch u {
	case TenorDays:
		return "D"
	case TenorWeeks:
		return "W"
	case TenorMonths:
		return "M"
	case TenorYears:
		return "Y"
	}
	return "?"
}

// Tenor is a market tenor such as 3M or 10Y.
type Tenor struct {
	N    int
	Unit TenorUnit
}

// ParseTenor parses tenors like "91D", "2W", "6M", "10Y".
func ParseTenor(s string) (Tenor, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Tenor{}, fmt.Errorf("parse tenor %q: too short", s)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return Tenor{}, fmt.Errorf("parse tenor %q: %w", s, err)
	}
	if n <= 0 {
		return Tenor{}, fmt.Errorf("parse tenor %q: length must be positive", s)
	}
	var unit TenorUnit
	switch s[len(s)-1] {
	case 'D':
		unit = TenorDays
	case 'W':
		unit = TenorWeeks
	case 'M':
		unit = TenorMonths
	case 'Y':
		unit = TenorYears
	default:
		return Tenor{}, fmt.Errorf("parse tenor %q: unknown unit %q", s, s[len(s)-1:])
	}
	return Tenor{N: n, Unit: unit}, nil
}

func (t Tenor) String() string {
	return fmt.Sprintf("%d%s", t.N, t.Unit)
}

// IsZero reports whether the tenor is unset.
func (t Tenor) IsZero() bool {
	return t.N == 0
}

// Resolve returns the date the tenor lands on from ref. Month and year
// tenors roll like Excel's EDATE: the day of month is preserved, clamped
// to the end of shorter months.
func (t Tenor) Resolve(ref time.Time) time.Time {
	switch t.Unit {
	case TenorDays:
		return ref.AddDate(0, 0, t.N)
	case TenorWeeks:
		return ref.AddDate(0, 0, 7*t.N)
	case TenorYears:
		return addMonths(ref, 12*t.N)
	default:
		return addMonths(ref, t.N)
	}
}

// addMonths shifts a date by whole months without Go's month
// normalization: Jan 31 + 1M lands on Feb 28/29, not Mar 2/3.
func addMonths(t time.Time, months int) time.Time {
	d := t.AddDate(0, months, 0)
	anchor := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	if d.Month() == anchor.Month() {
		return d
	}
	overflow := d.Month()
	for d.Month() == overflow {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
