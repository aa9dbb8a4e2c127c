package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/quantken/ratelib/curve"
)

const (
	yieldTolerance = 1e-12
	yieldMaxIter   = 100
	yieldFloor     = -0.05
	yieldCeiling   = 0.50
)

// PriceFromCurve returns the dirty price of a cashflow schedule for a
// settlement date, discounted on the curve. Settlement dates after the
// curve's reference date give the forward dirty price: each flow's
// discount factor is rebased by DF(settlement). Flows on or before
// settlement are ignored.
func PriceFromCurve(c DiscountCurve, settlement time.Time, flows []curve.Cashflow) (float64, error) {
	if c == nil {
		return 0, fmt.Errorf("price from curve: curve is nil")
	}
	if len(flows) == 0 {
		return 0, fmt.Errorf("price from curve: no cashflows")
	}
	dfSettle, err := c.DiscountFactorAt(settlement)
	if err != nil {
		return 0, fmt.Errorf("price from curve: settlement %s: %w", settlement.Format("2006-01-02"), err)
	}

	pv := 0.0
	live := 0
	for _, cf := range flows {
		if !cf.Date.After(settlement) {
			continue
		}
		df, err := c.DiscountFactorAt(cf.Date)
		if err != nil {
			return 0, fmt.Errorf("price from curve: cashflow %s: %w", cf.Date.Format("2006-01-02"), err)
		}
		pv += cf.Amount() * df
		live++
	}
	if live == 0 {
		return 0, fmt.Errorf("price from curve: no cashflows after settlement %s", settlement.Format("2006-01-02"))
	}
	return pv / dfSettle, nil
}

// AccruedInterest returns the coupon accrued from the coupon period start
// to settlement, per 100 face, using the ACT/ACT day ratio within the
// period. The period start is the preceding schedule flow when there is
// one, else the next flow rolled back by couponMonths with month-end
// clamping. couponPct is the annual coupon in percent; couponMonths the
// months between coupons.
func AccruedInterest(settlement time.Time, couponPct float64, couponMonths int, flows []curve.Cashflow) (float64, error) {
	if couponMonths <= 0 || 12%couponMonths != 0 {
		return 0, fmt.Errorf("accrued interest: coupon period %dM does not divide a year", couponMonths)
	}
	live, prev, err := liveSchedule(settlement, couponMonths, flows)
	if err != nil {
		return 0, fmt.Errorf("accrued interest: %w", err)
	}
	next := live[0].Date

	daysAccrued := daysBetween(prev, settlement)
	daysPeriod := daysBetween(prev, next)
	if daysPeriod <= 0 {
		return 0, fmt.Errorf("accrued interest: degenerate coupon period ending %s", next.Format("2006-01-02"))
	}
	if daysAccrued < 0 {
		daysAccrued = 0
	}

	periodsPerYear := float64(12 / couponMonths)
	periodCoupon := couponPct / periodsPerYear
	return periodCoupon * float64(daysAccrued) / float64(daysPeriod), nil
}

// YieldToMaturity solves the annualized yield, compounded at the coupon
// frequency, that discounts the remaining flows to the dirty price.
// Newton-Raphson with the analytic derivative; the yield is clamped to
// [-5%, 50%]. Returns the iterations spent.
func YieldToMaturity(settlement time.Time, dirtyPrice float64, couponMonths int, flows []curve.Cashflow) (float64, int, error) {
	if dirtyPrice <= 0 {
		return 0, 0, fmt.Errorf("yield to maturity: dirty price must be positive, got %g", dirtyPrice)
	}
	if couponMonths <= 0 || 12%couponMonths != 0 {
		return 0, 0, fmt.Errorf("yield to maturity: coupon period %dM does not divide a year", couponMonths)
	}
	live, periodStart, err := liveSchedule(settlement, couponMonths, flows)
	if err != nil {
		return 0, 0, fmt.Errorf("yield to maturity: %w", err)
	}

	y := 0.05
	for iter := 1; iter <= yieldMaxIter; iter++ {
		price, deriv := dirtyPriceAndDeriv(y, settlement, periodStart, couponMonths, live)
		f := price - dirtyPrice
		if math.Abs(f) < yieldTolerance {
			return y, iter, nil
		}
		if math.Abs(deriv) < 1e-15 {
			return 0, iter, fmt.Errorf("yield to maturity: derivative vanished at y=%g", y)
		}
		y = clamp(y-f/deriv, yieldFloor, yieldCeiling)
	}

	// One last check: the clamp can park the iterate on a bound.
	if price, _ := dirtyPriceAndDeriv(y, settlement, periodStart, couponMonths, live); math.Abs(price-dirtyPrice) < 1e-8 {
		return y, yieldMaxIter, nil
	}
	return 0, yieldMaxIter, fmt.Errorf("yield to maturity: no convergence after %d iterations", yieldMaxIter)
}

// PriceFromYield inverts YieldToMaturity: the dirty price implied by an
// annualized yield compounded at the coupon frequency.
func PriceFromYield(settlement time.Time, yield float64, couponMonths int, flows []curve.Cashflow) (float64, error) {
	if couponMonths <= 0 || 12%couponMonths != 0 {
		return 0, fmt.Errorf("price from yield: coupon period %dM does not divide a year", couponMonths)
	}
	live, periodStart, err := liveSchedule(settlement, couponMonths, flows)
	if err != nil {
		return 0, fmt.Errorf("price from yield: %w", err)
	}
	price, _ := dirtyPriceAndDeriv(yield, settlement, periodStart, couponMonths, live)
	return price, nil
}

// dirtyPriceAndDeriv evaluates the ICMA-style dirty price and its yield
// derivative. Period counts step by whole coupon periods from the first
// live flow, with periodStart the start of the period settlement falls in:
//
//	tau_1 = days(settlement, cf[0]) / days(periodStart, cf[0])
//	tau_k = tau_1 + (k - 1)
//	price = sum CF_k * (1 + y/f)^(-tau_k)
func dirtyPriceAndDeriv(y float64, settlement, periodStart time.Time, couponMonths int, live []curve.Cashflow) (float64, float64) {
	f := float64(12 / couponMonths)
	tau1 := float64(daysBetween(settlement, live[0].Date)) / float64(daysBetween(periodStart, live[0].Date))

	base := 1.0 + y/f
	var price, deriv float64
	for i, cf := range live {
		tau := tau1 + float64(i)
		amt := cf.Amount()
		price += amt * math.Pow(base, -tau)
		deriv += -amt * tau / f * math.Pow(base, -tau-1)
	}
	return price, deriv
}

// liveSchedule splits the schedule at settlement: the flows still to be
// paid and the start of the coupon period settlement falls in. The start
// is the preceding flow's date when the schedule has one; only for a
// first-period settlement is it synthesized, rolling the next flow back
// with month-end clamping so a Mar 31 coupon yields Sep 30, not Oct 1.
func liveSchedule(settlement time.Time, couponMonths int, flows []curve.Cashflow) ([]curve.Cashflow, time.Time, error) {
	for i, cf := range flows {
		if !cf.Date.After(settlement) {
			continue
		}
		if i > 0 {
			return flows[i:], flows[i-1].Date, nil
		}
		return flows[i:], addMonths(cf.Date, -couponMonths), nil
	}
	return nil, time.Time{}, fmt.Errorf("no cashflows after settlement %s", settlement.Format("2006-01-02"))
}

// addMonths shifts a date by whole months without Go's month
// normalization: Mar 31 - 6M lands on Sep 30, not Oct 1.
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

func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
