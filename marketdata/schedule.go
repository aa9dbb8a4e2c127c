package marketdata

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantken/ratelib/curve"
)

var hundred = decimal.NewFromInt(100)

// GenerateBondSchedule builds the cashflow schedule of a fixed-coupon bond
// per 100 face, rolling coupon dates backward from maturity in steps of
// couponMonths. Per-period coupon amounts are computed in decimal so a
// 6.1% annual coupon paid semiannually is exactly 3.05.
//
// couponMonths defaults to 12 and must divide a year; redemption defaults
// to 100. Dates already on or before ref are dropped, matching how a
// seasoned bond enters a curve.
func GenerateBondSchedule(ref, maturity time.Time, couponPct decimal.Decimal, couponMonths int, redemption decimal.Decimal) ([]curve.Cashflow, error) {
	if !maturity.After(ref) {
		return nil, fmt.Errorf("bond schedule: maturity %s is not after %s: %w",
			maturity.Format("2006-01-02"), ref.Format("2006-01-02"), curve.ErrInvalidDate)
	}
	if couponMonths == 0 {
		couponMonths = 12
	}
	if couponMonths < 0 || 12%couponMonths != 0 {
		return nil, fmt.Errorf("bond schedule: coupon period %dM does not divide a year", couponMonths)
	}
	if redemption.IsZero() {
		redemption = hundred
	}

	// Each date is rolled from the maturity anchor, not from the previous
	// date, so month-end clamping cannot drift across periods.
	var dates []time.Time
	for k := 0; ; k++ {
		d := addMonths(maturity, -k*couponMonths)
		if !d.After(ref) {
			break
		}
		dates = append(dates, d)
	}
	for i, j := 0, len(dates)-1; i < j; i, j = i+1, j-1 {
		dates[i], dates[j] = dates[j], dates[i]
	}

	periodsPerYear := int64(12 / couponMonths)
	coupon, _ := couponPct.Div(decimal.NewFromInt(periodsPerYear)).Float64()
	principal, _ := redemption.Float64()

	flows := make([]curve.Cashflow, len(dates))
	for i, d := range dates {
		flows[i] = curve.Cashflow{Date: d, Coupon: coupon}
	}
	flows[len(flows)-1].Principal = principal
	return flows, nil
}
