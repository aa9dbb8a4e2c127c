package pricing_test

import (
	"math"
	"testing"

	"github.com/quantken/ratelib/pricing"
)

func crrInput(typ pricing.OptionType, style pricing.ExerciseStyle, steps int) pricing.BinomialInput {
	return pricing.BinomialInput{
		Type:         typ,
		Style:        style,
		Spot:         100,
		Strike:       100,
		TimeToExpiry: 1,
		Rate:         0.05,
		Volatility:   0.20,
		Steps:        steps,
	}
}

func TestBinomialConvergesToBSM(t *testing.T) {
	t.Parallel()

	for _, typ := range []pricing.OptionType{pricing.Call, pricing.Put} {
		in := crrInput(typ, pricing.European, 500)
		lattice, err := pricing.BinomialPrice(in)
		if err != nil {
			t.Fatalf("BinomialPrice error: %v", err)
		}
		closed, err := pricing.BSMPrice(pricing.BSMInput{
			Type:         typ,
			Spot:         in.Spot,
			Strike:       in.Strike,
			TimeToExpiry: in.TimeToExpiry,
			Rate:         in.Rate,
			Volatility:   in.Volatility,
		})
		if err != nil {
			t.Fatalf("BSMPrice error: %v", err)
		}
		if math.Abs(lattice-closed) > 0.02 {
			t.Fatalf("%s lattice price %.6f too far from closed form %.6f", typ, lattice, closed)
		}
	}
}

func TestAmericanPutEarlyExercisePremium(t *testing.T) {
	t.Parallel()

	in := crrInput(pricing.Put, pricing.American, 200)
	in.Spot = 90
	american, err := pricing.BinomialPrice(in)
	if err != nil {
		t.Fatalf("BinomialPrice american error: %v", err)
	}
	in.Style = pricing.European
	european, err := pricing.BinomialPrice(in)
	if err != nil {
		t.Fatalf("BinomialPrice european error: %v", err)
	}

	// An in-the-money put on a positive-rate lattice carries a real
	// early exercise premium, not just rounding.
	if american < european+0.05 {
		t.Fatalf("early exercise premium too small: american %.6f european %.6f", american, european)
	}
}

func TestAmericanCallWithoutDividendsMatchesEuropean(t *testing.T) {
	t.Parallel()

	in := crrInput(pricing.Call, pricing.American, 200)
	american, err := pricing.BinomialPrice(in)
	if err != nil {
		t.Fatalf("BinomialPrice american error: %v", err)
	}
	in.Style = pricing.European
	european, err := pricing.BinomialPrice(in)
	if err != nil {
		t.Fatalf("BinomialPrice european error: %v", err)
	}
	// Early exercise never binds for a call without dividends, so the
	// two rollbacks evaluate identically.
	if math.Abs(american-european) > 1e-12 {
		t.Fatalf("american call %.15f != european call %.15f", american, european)
	}
}

func TestAmericanPutFloorsAtIntrinsic(t *testing.T) {
	t.Parallel()

	in := crrInput(pricing.Put, pricing.American, 100)
	in.Spot = 60
	price, err := pricing.BinomialPrice(in)
	if err != nil {
		t.Fatalf("BinomialPrice error: %v", err)
	}
	if price < 40 {
		t.Fatalf("american put below intrinsic: %.6f", price)
	}
}

func TestBinomialValidation(t *testing.T) {
	t.Parallel()

	if _, err := pricing.BinomialPrice(crrInput(pricing.Call, pricing.European, 0)); err == nil {
		t.Fatalf("expected error for zero steps")
	}

	in := crrInput(pricing.Call, "bermudan", 10)
	if _, err := pricing.BinomialPrice(in); err == nil {
		t.Fatalf("expected error for an unknown exercise style")
	}

	in = crrInput(pricing.Call, pricing.European, 10)
	in.Volatility = 0
	if _, err := pricing.BinomialPrice(in); err == nil {
		t.Fatalf("expected error for zero volatility")
	}

	// One step of a high-rate, low-vol lattice pushes the risk-neutral
	// probability above 1.
	in = crrInput(pricing.Call, pricing.European, 1)
	in.Rate = 2.0
	in.Volatility = 0.05
	if _, err := pricing.BinomialPrice(in); err == nil {
		t.Fatalf("expected error for a degenerate lattice")
	}
}

func TestParseExerciseStyle(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in   string
		want pricing.ExerciseStyle
	}{
		{"european", pricing.European},
		{"EUR", pricing.European},
		{" American ", pricing.American},
		{"amer", pricing.American},
	} {
		got, err := pricing.ParseExerciseStyle(tc.in)
		if err != nil {
			t.Fatalf("ParseExerciseStyle(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseExerciseStyle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if _, err := pricing.ParseExerciseStyle("bermudan"); err == nil {
		t.Fatalf("expected error for an unknown exercise style")
	}
}
