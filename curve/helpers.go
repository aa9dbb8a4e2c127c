package curve

import (
	"fmt"
	"time"

	"github.com/quantken/ratelib/daycount"
)

// DiscountProvider is the read-only curve view a helper prices against.
// *Curve implements it.
type DiscountProvider interface {
	ReferenceDate() time.Time
	DiscountFactor(t float64) (float64, error)
	DiscountFactorAt(date time.Time) (float64, error)
}

// RateHelper wraps one market-quoted instrument used to calibrate the
// curve. Each helper pins exactly one node at its maturity.
type RateHelper interface {
	// MaturityTime returns the instrument maturity as a year fraction
	// from ref under the helper's own day count. Maturities not strictly
	// after ref fail with ErrInvalidDate.
	MaturityTime(ref time.Time) (float64, error)

	// Residual returns the quoted price minus the model price under the
	// candidate curve. The bootstrapper drives it to zero in the
	// discount factor at the helper's maturity node.
	Residual(curve DiscountProvider) (float64, error)
}

// ClosedFormHelper is implemented by helpers whose node discount factor
// has a closed form or a cheap linear estimate. The bootstrapper uses it
// to seed the root-find, or to skip it entirely when the seed already
// reprices the quote.
type ClosedFormHelper interface {
	RateHelper
	ImpliedDiscountFactor(curve DiscountProvider) (float64, error)
}

// DepositHelper calibrates to a money-market deposit quoted as an
// annualized simple rate: invest 1 at the reference date, receive
// 1 + rate*tau at maturity.
type DepositHelper struct {
	rate     float64
	maturity time.Time
	dayCount daycount.Convention
}

// NewDepositHelper builds a deposit helper. rate is decimal (0.0525 for
// 5.25%).
func NewDepositHelper(rate float64, maturity time.Time, dc daycount.Convention) *DepositHelper {
	return &DepositHelper{rate: rate, maturity: maturity, dayCount: dc}
}

// Rate returns the quoted simple rate.
func (h *DepositHelper) Rate() float64 { return h.rate }

// Maturity returns the deposit maturity date.
func (h *DepositHelper) Maturity() time.Time { return h.maturity }

func (h *DepositHelper) MaturityTime(ref time.Time) (float64, error) {
	tau := h.dayCount.YearFraction(ref, h.maturity)
	if tau <= 0 {
		return 0, fmt.Errorf("deposit maturing %s on curve dated %s: %w",
			h.maturity.Format("2006-01-02"), ref.Format("2006-01-02"), ErrInvalidDate)
	}
	return tau, nil
}

func (h *DepositHelper) Residual(curve DiscountProvider) (float64, error) {
	tau, err := h.MaturityTime(curve.ReferenceDate())
	if err != nil {
		return 0, err
	}
	df, err := curve.DiscountFactor(tau)
	if err != nil {
		return 0, err
	}
	return 1.0 - (1.0+h.rate*tau)*df, nil
}

// ImpliedDiscountFactor returns the closed form 1 / (1 + rate*tau).
func (h *DepositHelper) ImpliedDiscountFactor(curve DiscountProvider) (float64, error) {
	tau, err := h.MaturityTime(curve.ReferenceDate())
	if err != nil {
		return 0, err
	}
	growth := 1.0 + h.rate*tau
	if growth <= 0 {
		return 0, fmt.Errorf("deposit rate %g over %g years implies a non-positive discount factor: %w",
			h.rate, tau, ErrUnsolvableNode)
	}
	return 1.0 / growth, nil
}

// redemptionScaleBand bounds the final cashflow relative to the quoted
// price. A per-100 quote paired with a per-unit or minor-unit schedule
// lands far outside the band and is rejected at construction.
const redemptionScaleBand = 10.0

// BondHelper calibrates to a fixed-coupon bond quoted as a dirty price on
// the same scale as its cashflow schedule.
type BondHelper struct {
	price     float64
	cashflows []Cashflow
	dayCount  daycount.Convention
}

// NewBondHelper builds a bond helper from a dirty price and a full
// cashflow schedule. Dates must be strictly increasing and the final
// flow (coupon plus redemption) strictly positive.
func NewBondHelper(price float64, cashflows []Cashflow, dc daycount.Convention) (*BondHelper, error) {
	if price <= 0 {
		return nil, fmt.Errorf("bond helper: price must be positive, got %g", price)
	}
	if len(cashflows) == 0 {
		return nil, fmt.Errorf("bond helper: cashflow schedule is empty")
	}
	for i := 1; i < len(cashflows); i++ {
		if !cashflows[i].Date.After(cashflows[i-1].Date) {
			return nil, fmt.Errorf("bond helper: cashflow dates must be strictly increasing, violated at %s",
				cashflows[i].Date.Format("2006-01-02"))
		}
	}
	final := cashflows[len(cashflows)-1].Amount()
	if final <= 0 {
		return nil, fmt.Errorf("bond helper: final cashflow %g: %w", final, ErrNegativeCashflow)
	}
	if final > price*redemptionScaleBand || final < price/redemptionScaleBand {
		return nil, fmt.Errorf("bond helper: final cashflow %g is inconsistent with quoted price %g; rescale the schedule to the quote's redemption convention", final, price)
	}
	cfs := make([]Cashflow, len(cashflows))
	copy(cfs, cashflows)
	return &BondHelper{price: price, cashflows: cfs, dayCount: dc}, nil
}

// Price returns the quoted dirty price.
func (h *BondHelper) Price() float64 { return h.price }

// Maturity returns the final cashflow date.
func (h *BondHelper) Maturity() time.Time {
	return h.cashflows[len(h.cashflows)-1].Date
}

// Cashflows returns a copy of the schedule.
func (h *BondHelper) Cashflows() []Cashflow {
	cfs := make([]Cashflow, len(h.cashflows))
	copy(cfs, h.cashflows)
	return cfs
}

func (h *BondHelper) MaturityTime(ref time.Time) (float64, error) {
	t := h.dayCount.YearFraction(ref, h.Maturity())
	if t <= 0 {
		return 0, fmt.Errorf("bond maturing %s on curve dated %s: %w",
			h.Maturity().Format("2006-01-02"), ref.Format("2006-01-02"), ErrInvalidDate)
	}
	return t, nil
}

// Residual returns the quoted dirty price minus the schedule PV. Flows on
// or before the reference date carry no value and are skipped.
func (h *BondHelper) Residual(curve DiscountProvider) (float64, error) {
	ref := curve.ReferenceDate()
	pv := 0.0
	for _, cf := range h.cashflows {
		t := h.dayCount.YearFraction(ref, cf.Date)
		if t <= 0 {
			continue
		}
		df, err := curve.DiscountFactor(t)
		if err != nil {
			return 0, fmt.Errorf("bond cashflow on %s: %w", cf.Date.Format("2006-01-02"), err)
		}
		pv += cf.Amount() * df
	}
	return h.price - pv, nil
}

// ImpliedDiscountFactor solves the schedule linearly for the final node:
//
//	DF(T) = (price - PV(earlier flows)) / final amount
//
// Earlier flows are discounted on the curve as built so far, so the
// estimate is exact unless a later refit moves those segments.
func (h *BondHelper) ImpliedDiscountFactor(curve DiscountProvider) (float64, error) {
	ref := curve.ReferenceDate()
	last := len(h.cashflows) - 1
	pvRest := 0.0
	for _, cf := range h.cashflows[:last] {
		t := h.dayCount.YearFraction(ref, cf.Date)
		if t <= 0 {
			continue
		}
		df, err := curve.DiscountFactor(t)
		if err != nil {
			return 0, fmt.Errorf("bond cashflow on %s: %w", cf.Date.Format("2006-01-02"), err)
		}
		pvRest += cf.Amount() * df
	}
	return (h.price - pvRest) / h.cashflows[last].Amount(), nil
}
