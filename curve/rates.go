package curve

import (
	"fmt"
	"math"
	"strings"
)

// Compounding identifies how an annualized rate maps to a discount factor.
type Compounding int

const (
	// Simple: DF = 1 / (1 + r*t).
	Simple Compounding = iota
	// Compounded: DF = (1 + r/f)^(-f*t) with f periods per year.
	Compounded
	// Continuous: DF = exp(-r*t).
	Continuous
)

func (c Compounding) String() string {
	switch c {
	case Simple:
		return "simple"
	case Compounded:
		return "compounded"
	case Continuous:
		return "continuous"
	}
	return fmt.Sprintf("Compounding(%d)", int(c))
}

// ParseCompounding maps a case-insensitive name to a Compounding.
func ParseCompounding(s string) (Compounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple":
		return Simple, nil
	case "compounded", "compound":
		return Compounded, nil
	case "continuous", "cc":
		return Continuous, nil
	}
	return 0, fmt.Errorf("unsupported compounding %q", s)
}

// DiscountFromRate converts an annualized rate over horizon t (in years)
// to a discount factor. freq is only used for Compounded.
func DiscountFromRate(rate, t float64, comp Compounding, freq int) (float64, error) {
	if t <= 0 {
		return 0, fmt.Errorf("discount from rate requires t > 0, got %g", t)
	}
	switch comp {
	case Simple:
		growth := 1 + rate*t
		if growth <= 0 {
			return 0, fmt.Errorf("simple rate %g over %g years has no positive discount factor", rate, t)
		}
		return 1 / growth, nil
	case Compounded:
		if freq < 1 {
			return 0, fmt.Errorf("compounded conversion requires frequency >= 1, got %d", freq)
		}
		f := float64(freq)
		base := 1 + rate/f
		if base <= 0 {
			return 0, fmt.Errorf("compounded rate %g at frequency %d has no positive discount factor", rate, freq)
		}
		return math.Pow(base, -f*t), nil
	case Continuous:
		return math.Exp(-rate * t), nil
	}
	return 0, fmt.Errorf("unsupported compounding %v", comp)
}

// RateFromDiscount inverts DiscountFromRate: the annualized rate that
// discounts 1.0 to df over horizon t.
func RateFromDiscount(df, t float64, comp Compounding, freq int) (float64, error) {
	if df <= 0 {
		return 0, fmt.Errorf("rate from discount requires df > 0, got %g", df)
	}
	if t <= 0 {
		return 0, fmt.Errorf("rate from discount requires t > 0, got %g", t)
	}
	switch comp {
	case Simple:
		return (1/df - 1) / t, nil
	case Compounded:
		if freq < 1 {
			return 0, fmt.Errorf("compounded conversion requires frequency >= 1, got %d", freq)
		}
		f := float64(freq)
		return f * (math.Pow(df, -1/(f*t)) - 1), nil
	case Continuous:
		return -math.Log(df) / t, nil
	}
	return 0, fmt.Errorf("unsupported compounding %v", comp)
}
