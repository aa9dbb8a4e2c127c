package pricing

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// OptionType is the option payoff direction.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// ParseOptionType maps a string to an OptionType.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	}
	return "", fmt.Errorf("unsupported option type %q", s)
}

// BSMInput parameterizes a European option under Black-Scholes-Merton.
// Rate and DividendYield are continuously compounded; TimeToExpiry is in
// years.
type BSMInput struct {
	Type          OptionType
	Spot          float64
	Strike        float64
	TimeToExpiry  float64
	Rate          float64
	DividendYield float64
	Volatility    float64
}

func (in BSMInput) validate(needVol bool) error {
	if in.Type != Call && in.Type != Put {
		return fmt.Errorf("option type %q is not call or put", in.Type)
	}
	if in.Spot <= 0 {
		return fmt.Errorf("spot must be positive, got %g", in.Spot)
	}
	if in.Strike <= 0 {
		return fmt.Errorf("strike must be positive, got %g", in.Strike)
	}
	if in.TimeToExpiry <= 0 {
		return fmt.Errorf("time to expiry must be positive, got %g", in.TimeToExpiry)
	}
	if needVol && in.Volatility <= 0 {
		return fmt.Errorf("volatility must be positive, got %g", in.Volatility)
	}
	return nil
}

func (in BSMInput) d1d2() (float64, float64) {
	sqrtT := math.Sqrt(in.TimeToExpiry)
	d1 := (math.Log(in.Spot/in.Strike) + (in.Rate-in.DividendYield+0.5*in.Volatility*in.Volatility)*in.TimeToExpiry) /
		(in.Volatility * sqrtT)
	return d1, d1 - in.Volatility*sqrtT
}

// BSMPrice returns the Black-Scholes-Merton value of a European option.
func BSMPrice(in BSMInput) (float64, error) {
	if err := in.validate(true); err != nil {
		return 0, fmt.Errorf("bsm price: %w", err)
	}
	d1, d2 := in.d1d2()
	spotPV := in.Spot * math.Exp(-in.DividendYield*in.TimeToExpiry)
	strikePV := in.Strike * math.Exp(-in.Rate*in.TimeToExpiry)
	if in.Type == Call {
		return spotPV*distuv.UnitNormal.CDF(d1) - strikePV*distuv.UnitNormal.CDF(d2), nil
	}
	return strikePV*distuv.UnitNormal.CDF(-d2) - spotPV*distuv.UnitNormal.CDF(-d1), nil
}

// Greeks are the Black-Scholes-Merton sensitivities in raw units: Vega per
// unit of volatility, Theta per year, Rho per unit of rate.
type Greeks struct {
	Delta float64
	Gamma float64
	Vega  float64
	Theta float64
	Rho   float64
}

// BSMGreeks returns the sensitivities of a European option.
func BSMGreeks(in BSMInput) (Greeks, error) {
	if err := in.validate(true); err != nil {
		return Greeks{}, fmt.Errorf("bsm greeks: %w", err)
	}
	d1, d2 := in.d1d2()
	sqrtT := math.Sqrt(in.TimeToExpiry)
	qDisc := math.Exp(-in.DividendYield * in.TimeToExpiry)
	rDisc := math.Exp(-in.Rate * in.TimeToExpiry)
	pdf := distuv.UnitNormal.Prob(d1)

	g := Greeks{
		Gamma: qDisc * pdf / (in.Spot * in.Volatility * sqrtT),
		Vega:  in.Spot * qDisc * pdf * sqrtT,
	}
	if in.Type == Call {
		g.Delta = qDisc * distuv.UnitNormal.CDF(d1)
		g.Theta = -in.Spot*qDisc*pdf*in.Volatility/(2*sqrtT) +
			in.DividendYield*in.Spot*qDisc*distuv.UnitNormal.CDF(d1) -
			in.Rate*in.Strike*rDisc*distuv.UnitNormal.CDF(d2)
		g.Rho = in.Strike * in.TimeToExpiry * rDisc * distuv.UnitNormal.CDF(d2)
	} else {
		g.Delta = qDisc * (distuv.UnitNormal.CDF(d1) - 1)
		g.Theta = -in.Spot*qDisc*pdf*in.Volatility/(2*sqrtT) -
			in.DividendYield*in.Spot*qDisc*distuv.UnitNormal.CDF(-d1) +
			in.Rate*in.Strike*rDisc*distuv.UnitNormal.CDF(-d2)
		g.Rho = -in.Strike * in.TimeToExpiry * rDisc * distuv.UnitNormal.CDF(-d2)
	}
	return g, nil
}

const (
	ivTolerance = 1e-9
	ivMaxIter   = 100
	ivFloor     = 1e-4
	ivCeiling   = 5.0
)

// ImpliedVolatility inverts BSMPrice for the volatility that reproduces
// target. in.Volatility is ignored. Newton on vega with a bisection
// fallback over [0.01%, 500%].
func ImpliedVolatility(target float64, in BSMInput) (float64, error) {
	if err := in.validate(false); err != nil {
		return 0, fmt.Errorf("implied volatility: %w", err)
	}
	if target <= 0 {
		return 0, fmt.Errorf("implied volatility: target price must be positive, got %g", target)
	}

	price := func(vol float64) float64 {
		in.Volatility = vol
		p, _ := BSMPrice(in)
		return p
	}
	lo, hi := ivFloor, ivCeiling
	fLo, fHi := price(lo)-target, price(hi)-target
	if fLo > 0 || fHi < 0 {
		return 0, fmt.Errorf("implied volatility: target %g outside the attainable range [%g, %g]",
			target, price(ivFloor), price(ivCeiling))
	}

	vol := clamp(0.2, lo, hi)
	for iter := 0; iter < ivMaxIter; iter++ {
		in.Volatility = vol
		p, err := BSMPrice(in)
		if err != nil {
			return 0, fmt.Errorf("implied volatility: %w", err)
		}
		diff := p - target
		if math.Abs(diff) < ivTolerance {
			return vol, nil
		}
		if diff > 0 {
			hi = vol
		} else {
			lo = vol
		}

		g, err := BSMGreeks(in)
		if err != nil {
			return 0, fmt.Errorf("implied volatility: %w", err)
		}
		next := vol - diff/g.Vega
		if g.Vega < 1e-12 || math.IsNaN(next) || next <= lo || next >= hi {
			next = 0.5 * (lo + hi)
		}
		vol = next
	}
	return 0, fmt.Errorf("implied volatility: no convergence after %d iterations", ivMaxIter)
}

// BSMPriceFromCurve prices with the continuously compounded zero rate the
// curve implies at the option expiry, overriding in.Rate.
func BSMPriceFromCurve(c DiscountCurve, in BSMInput) (float64, error) {
	if c == nil {
		return 0, fmt.Errorf("bsm price from curve: curve is nil")
	}
	if in.TimeToExpiry <= 0 {
		return 0, fmt.Errorf("bsm price from curve: time to expiry must be positive, got %g", in.TimeToExpiry)
	}
	df, err := c.DiscountFactor(in.TimeToExpiry)
	if err != nil {
		return 0, fmt.Errorf("bsm price from curve: %w", err)
	}
	in.Rate = -math.Log(df) / in.TimeToExpiry
	return BSMPrice(in)
}
