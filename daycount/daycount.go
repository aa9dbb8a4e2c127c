// Package daycount converts date pairs to year fractions under named
// market day count conventions.
package daycount

import (
	"fmt"
	"strings"
	"time"
)

// Convention identifies a day count convention.
type Convention string

// Supported conventions.
const (
	Act360     Convention = "ACT/360"
	Act365F    Convention = "ACT/365F"
	Thirty360  Convention = "30/360"  // US bond basis
	ThirtyE360 Convention = "30E/360" // Eurobond basis
)

// Parse resolves a convention name. Matching is case-insensitive and
// tolerates the common "30U/360" alias for the US bond basis.
func Parse(s string) (Convention, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ACT/360", "ACT360":
		return Act360, nil
	case "ACT/365F", "ACT/365", "ACT365F":
		return Act365F, nil
	case "30/360", "30U/360", "THIRTY360":
		return Thirty360, nil
	case "30E/360", "THIRTYE360":
		return ThirtyE360, nil
	default:
		return "", fmt.Errorf("daycount: unknown convention %q", s)
	}
}

// YearFraction computes the year fraction from start to end under the
// convention. Dates are treated as whole calendar days; the result is
// negative when end precedes start.
func (c Convention) YearFraction(start, end time.Time) float64 {
	switch c {
	case Act360:
		return Days(start, end) / 360.0
	case Thirty360:
		// US bond basis (NASD): the last day of February counts as the
		// 30th, D1 is capped at 30, D2 capped only when D1 is 30.
		d1 := start.Day()
		d2 := end.Day()
		if lastDayOfFebruary(start) {
			if lastDayOfFebruary(end) {
				d2 = 30
			}
			d1 = 30
		}
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
		return thirty360(start, end, d1, d2)
	case ThirtyE360:
		// Eurobond basis: both D1 and D2 capped at 30.
		d1 := start.Day()
		if d1 > 30 {
			d1 = 30
		}
		d2 := end.Day()
		if d2 > 30 {
			d2 = 30
		}
		return thirty360(start, end, d1, d2)
	default:
		// ACT/365F, also the fallback for unknown conventions.
		return Days(start, end) / 365.0
	}
}

func lastDayOfFebruary(t time.Time) bool {
	return t.Month() == time.February && t.AddDate(0, 0, 1).Month() == time.March
}

func thirty360(start, end time.Time, d1, d2 int) float64 {
	y1, m1 := start.Year(), int(start.Month())
	y2, m2 := end.Year(), int(end.Month())
	return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
}

// Days returns the calendar day count from start to end.
func Days(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}
