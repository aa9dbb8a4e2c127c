package pricing

import (
	"fmt"
	"math"
	"strings"
)

// ExerciseStyle selects when an option can be exercised.
type ExerciseStyle string

const (
	European ExerciseStyle = "european"
	American ExerciseStyle = "american"
)

// ParseExerciseStyle maps a string to an ExerciseStyle.
func ParseExerciseStyle(s string) (ExerciseStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "european", "eur":
		return European, nil
	case "american", "amer":
		return American, nil
	}
	return "", fmt.Errorf("unsupported exercise style %q", s)
}

// BinomialInput parameterizes a Cox-Ross-Rubinstein lattice valuation.
type BinomialInput struct {
	Type          OptionType
	Style         ExerciseStyle
	Spot          float64
	Strike        float64
	TimeToExpiry  float64
	Rate          float64
	DividendYield float64
	Volatility    float64
	Steps         int
}

// BinomialPrice values an option on a CRR lattice. European valuations
// converge to BSMPrice as Steps grows; American valuations add the early
// exercise premium.
func BinomialPrice(in BinomialInput) (float64, error) {
	bsm := BSMInput{
		Type:          in.Type,
		Spot:          in.Spot,
		Strike:        in.Strike,
		TimeToExpiry:  in.TimeToExpiry,
		Rate:          in.Rate,
		DividendYield: in.DividendYield,
		Volatility:    in.Volatility,
	}
	if err := bsm.validate(true); err != nil {
		return 0, fmt.Errorf("binomial price: %w", err)
	}
	if in.Style != European && in.Style != American {
		return 0, fmt.Errorf("binomial price: exercise style %q is not european or american", in.Style)
	}
	if in.Steps < 1 {
		return 0, fmt.Errorf("binomial price: steps must be >= 1, got %d", in.Steps)
	}

	dt := in.TimeToExpiry / float64(in.Steps)
	u := math.Exp(in.Volatility * math.Sqrt(dt))
	d := 1.0 / u
	growth := math.Exp((in.Rate - in.DividendYield) * dt)
	p := (growth - d) / (u - d)
	if p <= 0 || p >= 1 {
		return 0, fmt.Errorf("binomial price: risk-neutral probability %.6f outside (0, 1); increase steps or volatility", p)
	}
	disc := math.Exp(-in.Rate * dt)

	// Terminal payoffs, then roll back one layer per step reusing the slice.
	values := make([]float64, in.Steps+1)
	for i := 0; i <= in.Steps; i++ {
		s := in.Spot * math.Pow(u, float64(i)) * math.Pow(d, float64(in.Steps-i))
		values[i] = intrinsic(in.Type, s, in.Strike)
	}
	for step := in.Steps - 1; step >= 0; step-- {
		for i := 0; i <= step; i++ {
			cont := disc * (p*values[i+1] + (1-p)*values[i])
			if in.Style == American {
				s := in.Spot * math.Pow(u, float64(i)) * math.Pow(d, float64(step-i))
				if ex := intrinsic(in.Type, s, in.Strike); ex > cont {
					cont = ex
				}
			}
			values[i] = cont
		}
	}
	return values[0], nil
}

func intrinsic(t OptionType, spot, strike float64) float64 {
	if t == Call {
		return math.Max(spot-strike, 0)
	}
	return math.Max(strike-spot, 0)
}
