package marketdata

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantken/ratelib/curve"
	"github.com/quantken/ratelib/daycount"
)

// Kind identifies the instrument family of a quote line.
type Kind string

const (
	KindDeposit Kind = "deposit"
	KindBond    Kind = "bond"
)

// ParseKind maps a feed string to an instrument kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposit", "depo":
		return KindDeposit, nil
	case "bond":
		return KindBond, nil
	}
	return "", fmt.Errorf("unsupported instrument kind %q", s)
}

// Instrument is one calibrating instrument as it arrives from a feed.
// Deposits need Quote, Tenor or Maturity, and DayCount. Bonds additionally
// carry a coupon definition, or an explicit cashflow schedule that takes
// precedence over coupon generation.
type Instrument struct {
	Kind     Kind
	Quote    Quote
	Tenor    Tenor     // used when Maturity is zero
	Maturity time.Time // explicit maturity wins over Tenor
	DayCount daycount.Convention

	// Bond coupon definition, per 100 face.
	CouponRate   decimal.Decimal // annual coupon in percent
	CouponMonths int             // months between coupons, default 12
	Redemption   decimal.Decimal // default 100

	// Cashflows overrides schedule generation when non-empty.
	Cashflows []curve.Cashflow
}

// MaturityOn resolves the instrument's maturity for a given curve date.
func (ins Instrument) MaturityOn(ref time.Time) (time.Time, error) {
	if !ins.Maturity.IsZero() {
		return ins.Maturity, nil
	}
	if ins.Tenor.IsZero() {
		return time.Time{}, fmt.Errorf("instrument has neither a maturity nor a tenor")
	}
	return ins.Tenor.Resolve(ref), nil
}

// Label names the instrument for logs and error messages.
func (ins Instrument) Label() string {
	if !ins.Tenor.IsZero() {
		return fmt.Sprintf("%s %s", ins.Kind, ins.Tenor)
	}
	if !ins.Maturity.IsZero() {
		return fmt.Sprintf("%s %s", ins.Kind, ins.Maturity.Format("2006-01-02"))
	}
	return string(ins.Kind)
}

// Helper converts the instrument into a curve calibrating helper anchored
// at ref.
func (ins Instrument) Helper(ref time.Time) (curve.RateHelper, error) {
	dc := ins.DayCount
	if dc == "" {
		dc = daycount.Act365F
	}
	switch ins.Kind {
	case KindDeposit:
		rate, err := ins.Quote.Rate()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ins.Label(), err)
		}
		maturity, err := ins.MaturityOn(ref)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ins.Label(), err)
		}
		return curve.NewDepositHelper(rate, maturity, dc), nil
	case KindBond:
		price, err := ins.Quote.Price()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ins.Label(), err)
		}
		flows := ins.Cashflows
		if len(flows) == 0 {
			maturity, err := ins.MaturityOn(ref)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", ins.Label(), err)
			}
			flows, err = GenerateBondSchedule(ref, maturity, ins.CouponRate, ins.CouponMonths, ins.Redemption)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", ins.Label(), err)
			}
		}
		h, err := curve.NewBondHelper(price, flows, dc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ins.Label(), err)
		}
		return h, nil
	}
	return nil, fmt.Errorf("unsupported instrument kind %q", ins.Kind)
}

// BuildHelpers converts a batch of instruments, failing on the first bad
// one so a broken feed line cannot silently thin out the curve.
func BuildHelpers(ref time.Time, instruments []Instrument) ([]curve.RateHelper, error) {
	helpers := make([]curve.RateHelper, 0, len(instruments))
	for i, ins := range instruments {
		h, err := ins.Helper(ref)
		if err != nil {
			return nil, fmt.Errorf("instrument %d: %w", i, err)
		}
		helpers = append(helpers, h)
	}
	return helpers, nil
}
