package pricing_test

import (
	"math"
	"testing"
	"time"

	"github.com/quantken/ratelib/curve"
	"github.com/quantken/ratelib/daycount"
	"github.com/quantken/ratelib/pricing"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func semiBondFlows() []curve.Cashflow {
	return []curve.Cashflow{
		{Date: date(2026, time.July, 15), Coupon: 3},
		{Date: date(2027, time.January, 15), Coupon: 3},
		{Date: date(2027, time.July, 15), Coupon: 3},
		{Date: date(2028, time.January, 15), Coupon: 3, Principal: 100},
	}
}

func TestPriceFromCurveRecoversBootstrapQuote(t *testing.T) {
	t.Parallel()

	ref := date(2026, time.January, 15)
	flows := semiBondFlows()
	bond, err := curve.NewBondHelper(99.25, flows, daycount.Thirty360)
	if err != nil {
		t.Fatalf("NewBondHelper error: %v", err)
	}
	crv, err := curve.Bootstrap(curve.BootstrapParams{
		ReferenceDate: ref,
		DayCount:      daycount.Thirty360,
		Helpers: []curve.RateHelper{
			curve.NewDepositHelper(0.0525, date(2026, time.July, 15), daycount.Thirty360),
			curve.NewDepositHelper(0.0550, date(2027, time.January, 15), daycount.Thirty360),
			bond,
		},
	})
	if err != nil {
		t.Fatalf("Bootstrap error: %v", err)
	}

	price, err := pricing.PriceFromCurve(crv, ref, flows)
	if err != nil {
		t.Fatalf("PriceFromCurve error: %v", err)
	}
	if math.Abs(price-99.25) > 1e-8 {
		t.Fatalf("curve does not reproduce the calibrating quote: %.12f", price)
	}
}

func TestPriceFromCurveForwardSettlement(t *testing.T) {
	t.Parallel()

	ref := date(2026, time.January, 15)
	crv, err := curve.NewCurveFromNodes(ref, daycount.Thirty360, curve.LogLinear, []curve.Node{
		{Time: 0.5, DiscountFactor: 0.98},
		{Time: 1.0, DiscountFactor: 0.95},
		{Time: 2.0, DiscountFactor: 0.90},
	})
	if err != nil {
		t.Fatalf("NewCurveFromNodes error: %v", err)
	}

	flows := []curve.Cashflow{
		{Date: date(2026, time.July, 15), Coupon: 4},
		{Date: date(2027, time.January, 15), Coupon: 4},
		{Date: date(2028, time.January, 15), Coupon: 4, Principal: 100},
	}

	// Settling at t=0.5 drops the first coupon and rebases by DF(0.5).
	settlement := date(2026, time.July, 15)
	price, err := pricing.PriceFromCurve(crv, settlement, flows)
	if err != nil {
		t.Fatalf("PriceFromCurve error: %v", err)
	}
	want := (4*0.95 + 104*0.90) / 0.98
	if math.Abs(price-want) > 1e-12 {
		t.Fatalf("forward price mismatch: got %.12f want %.12f", price, want)
	}

	if _, err := pricing.PriceFromCurve(crv, date(2030, time.January, 15), flows); err == nil {
		t.Fatalf("expected error when all flows are in the past")
	}
	if _, err := pricing.PriceFromCurve(nil, ref, flows); err == nil {
		t.Fatalf("expected error for a nil curve")
	}
}

func TestAccruedInterest(t *testing.T) {
	t.Parallel()

	flows := semiBondFlows()

	// 90 accrued days in a 181-day coupon period, 3.0 per period.
	accrued, err := pricing.AccruedInterest(date(2026, time.April, 15), 6.0, 6, flows)
	if err != nil {
		t.Fatalf("AccruedInterest error: %v", err)
	}
	if want := 3.0 * 90.0 / 181.0; math.Abs(accrued-want) > 1e-12 {
		t.Fatalf("accrued mismatch: got %.12f want %.12f", accrued, want)
	}

	// On the period start nothing has accrued yet.
	accrued, err = pricing.AccruedInterest(date(2026, time.January, 15), 6.0, 6, flows)
	if err != nil {
		t.Fatalf("AccruedInterest error: %v", err)
	}
	if accrued != 0 {
		t.Fatalf("expected zero accrued, got %.12f", accrued)
	}

	if _, err := pricing.AccruedInterest(date(2026, time.April, 15), 6.0, 5, flows); err == nil {
		t.Fatalf("expected error for a coupon period that does not divide a year")
	}
	if _, err := pricing.AccruedInterest(date(2030, time.January, 15), 6.0, 6, flows); err == nil {
		t.Fatalf("expected error when no flows remain")
	}
}

func TestAccruedInterestMonthEndSchedule(t *testing.T) {
	t.Parallel()

	// Month-end coupons: the period start must be the prior flow's date
	// (Sep 30), not a normalized Mar 31 - 6M = Oct 1.
	flows := []curve.Cashflow{
		{Date: date(2026, time.September, 30), Coupon: 2},
		{Date: date(2027, time.March, 31), Coupon: 2, Principal: 100},
	}
	accrued, err := pricing.AccruedInterest(date(2026, time.October, 1), 4.0, 6, flows)
	if err != nil {
		t.Fatalf("AccruedInterest error: %v", err)
	}
	if want := 2.0 * 1.0 / 182.0; math.Abs(accrued-want) > 1e-12 {
		t.Fatalf("accrued mismatch: got %.12f want %.12f", accrued, want)
	}

	// In the first period there is no prior flow; rolling Mar 31 back six
	// months must clamp to Sep 30 for the same one-day accrual.
	firstPeriod := []curve.Cashflow{
		{Date: date(2027, time.March, 31), Coupon: 2, Principal: 100},
	}
	accrued, err = pricing.AccruedInterest(date(2026, time.October, 1), 4.0, 6, firstPeriod)
	if err != nil {
		t.Fatalf("AccruedInterest error: %v", err)
	}
	if want := 2.0 * 1.0 / 182.0; math.Abs(accrued-want) > 1e-12 {
		t.Fatalf("first-period accrued mismatch: got %.12f want %.12f", accrued, want)
	}
}

func TestYieldToMaturityMonthEndSchedule(t *testing.T) {
	t.Parallel()

	// tau_1 uses the same period start as accrual; a normalized Oct 1
	// would shrink the denominator and skew every discount exponent.
	settlement := date(2026, time.October, 1)
	flows := []curve.Cashflow{
		{Date: date(2026, time.September, 30), Coupon: 2.25},
		{Date: date(2027, time.March, 31), Coupon: 2.25},
		{Date: date(2027, time.September, 30), Coupon: 2.25},
		{Date: date(2028, time.March, 31), Coupon: 2.25, Principal: 100},
	}

	price, err := pricing.PriceFromYield(settlement, 0.042, 6, flows)
	if err != nil {
		t.Fatalf("PriceFromYield error: %v", err)
	}
	y, _, err := pricing.YieldToMaturity(settlement, price, 6, flows)
	if err != nil {
		t.Fatalf("YieldToMaturity error: %v", err)
	}
	if math.Abs(y-0.042) > 1e-9 {
		t.Fatalf("yield mismatch: got %.12f want 0.042", y)
	}
}

func TestYieldToMaturityRoundTrip(t *testing.T) {
	t.Parallel()

	settlement := date(2026, time.January, 15)
	flows := semiBondFlows()

	price, err := pricing.PriceFromYield(settlement, 0.0475, 6, flows)
	if err != nil {
		t.Fatalf("PriceFromYield error: %v", err)
	}
	y, iters, err := pricing.YieldToMaturity(settlement, price, 6, flows)
	if err != nil {
		t.Fatalf("YieldToMaturity error: %v", err)
	}
	if math.Abs(y-0.0475) > 1e-9 {
		t.Fatalf("yield mismatch: got %.12f want 0.0475", y)
	}
	if iters <= 0 || iters > 100 {
		t.Fatalf("implausible iteration count %d", iters)
	}
}

func TestYieldToMaturityParBond(t *testing.T) {
	t.Parallel()

	// A 6% semiannual bond at a dirty price of 100 on a coupon date
	// yields exactly its coupon rate.
	y, _, err := pricing.YieldToMaturity(date(2026, time.January, 15), 100.0, 6, semiBondFlows())
	if err != nil {
		t.Fatalf("YieldToMaturity error: %v", err)
	}
	if math.Abs(y-0.06) > 1e-9 {
		t.Fatalf("par yield mismatch: got %.12f want 0.06", y)
	}
}

func TestYieldToMaturityValidation(t *testing.T) {
	t.Parallel()

	flows := semiBondFlows()
	if _, _, err := pricing.YieldToMaturity(date(2026, time.January, 15), -5, 6, flows); err == nil {
		t.Fatalf("expected error for a non-positive price")
	}
	if _, _, err := pricing.YieldToMaturity(date(2026, time.January, 15), 100, 7, flows); err == nil {
		t.Fatalf("expected error for a coupon period that does not divide a year")
	}
	if _, _, err := pricing.YieldToMaturity(date(2030, time.January, 15), 100, 6, flows); err == nil {
		t.Fatalf("expected error when no flows remain")
	}
}
