package pricing_test

import (
	"math"
	"testing"
	"time"

	"github.com/quantken/ratelib/curve"
	"github.com/quantken/ratelib/daycount"
	"github.com/quantken/ratelib/pricing"
)

func atmCall() pricing.BSMInput {
	return pricing.BSMInput{
		Type:         pricing.Call,
		Spot:         100,
		Strike:       100,
		TimeToExpiry: 1,
		Rate:         0.05,
		Volatility:   0.20,
	}
}

func TestBSMPriceKnownValues(t *testing.T) {
	t.Parallel()

	// S=K=100, T=1, r=5%, sigma=20%: d1=0.35, d2=0.15.
	call, err := pricing.BSMPrice(atmCall())
	if err != nil {
		t.Fatalf("BSMPrice error: %v", err)
	}
	if math.Abs(call-10.450584) > 1e-5 {
		t.Fatalf("call mismatch: got %.6f want 10.450584", call)
	}

	in := atmCall()
	in.Type = pricing.Put
	put, err := pricing.BSMPrice(in)
	if err != nil {
		t.Fatalf("BSMPrice error: %v", err)
	}
	if math.Abs(put-5.573526) > 1e-5 {
		t.Fatalf("put mismatch: got %.6f want 5.573526", put)
	}
}

func TestPutCallParity(t *testing.T) {
	t.Parallel()

	in := pricing.BSMInput{
		Type:          pricing.Call,
		Spot:          105,
		Strike:        98,
		TimeToExpiry:  1.75,
		Rate:          0.04,
		DividendYield: 0.015,
		Volatility:    0.27,
	}
	call, err := pricing.BSMPrice(in)
	if err != nil {
		t.Fatalf("BSMPrice call error: %v", err)
	}
	in.Type = pricing.Put
	put, err := pricing.BSMPrice(in)
	if err != nil {
		t.Fatalf("BSMPrice put error: %v", err)
	}

	lhs := call - put
	rhs := in.Spot*math.Exp(-in.DividendYield*in.TimeToExpiry) -
		in.Strike*math.Exp(-in.Rate*in.TimeToExpiry)
	if math.Abs(lhs-rhs) > 1e-12 {
		t.Fatalf("parity violated: call-put=%.15f forward=%.15f", lhs, rhs)
	}
}

func TestBSMGreeks(t *testing.T) {
	t.Parallel()

	callGreeks, err := pricing.BSMGreeks(atmCall())
	if err != nil {
		t.Fatalf("BSMGreeks error: %v", err)
	}
	if math.Abs(callGreeks.Delta-0.636831) > 1e-5 {
		t.Fatalf("call delta mismatch: got %.6f want 0.636831", callGreeks.Delta)
	}
	if math.Abs(callGreeks.Gamma-0.018762) > 1e-5 {
		t.Fatalf("gamma mismatch: got %.6f want 0.018762", callGreeks.Gamma)
	}
	if math.Abs(callGreeks.Vega-37.524035) > 1e-3 {
		t.Fatalf("vega mismatch: got %.6f want 37.524035", callGreeks.Vega)
	}
	if callGreeks.Theta >= 0 {
		t.Fatalf("call theta should be negative, got %.6f", callGreeks.Theta)
	}
	if callGreeks.Rho <= 0 {
		t.Fatalf("call rho should be positive, got %.6f", callGreeks.Rho)
	}

	in := atmCall()
	in.Type = pricing.Put
	putGreeks, err := pricing.BSMGreeks(in)
	if err != nil {
		t.Fatalf("BSMGreeks error: %v", err)
	}
	// With q=0 call and put deltas differ by exactly 1; gamma and vega
	// are shared.
	if math.Abs(callGreeks.Delta-putGreeks.Delta-1.0) > 1e-12 {
		t.Fatalf("delta parity violated: call %.15f put %.15f", callGreeks.Delta, putGreeks.Delta)
	}
	if callGreeks.Gamma != putGreeks.Gamma || callGreeks.Vega != putGreeks.Vega {
		t.Fatalf("gamma/vega should match across call and put")
	}
	if putGreeks.Rho >= 0 {
		t.Fatalf("put rho should be negative, got %.6f", putGreeks.Rho)
	}
}

func TestImpliedVolatilityRoundTrip(t *testing.T) {
	t.Parallel()

	in := pricing.BSMInput{
		Type:          pricing.Put,
		Spot:          102,
		Strike:        110,
		TimeToExpiry:  0.75,
		Rate:          0.03,
		DividendYield: 0.01,
		Volatility:    0.25,
	}
	target, err := pricing.BSMPrice(in)
	if err != nil {
		t.Fatalf("BSMPrice error: %v", err)
	}

	in.Volatility = 0
	vol, err := pricing.ImpliedVolatility(target, in)
	if err != nil {
		t.Fatalf("ImpliedVolatility error: %v", err)
	}
	if math.Abs(vol-0.25) > 1e-6 {
		t.Fatalf("implied vol mismatch: got %.9f want 0.25", vol)
	}
}

func TestImpliedVolatilityUnattainable(t *testing.T) {
	t.Parallel()

	// An ATM call is worth at least S - K*exp(-rT) ~ 4.88 for any vol.
	in := atmCall()
	in.Volatility = 0
	if _, err := pricing.ImpliedVolatility(2.0, in); err == nil {
		t.Fatalf("expected error for a target below the zero-vol price")
	}
	if _, err := pricing.ImpliedVolatility(-1, in); err == nil {
		t.Fatalf("expected error for a negative target")
	}
}

func TestBSMPriceFromCurve(t *testing.T) {
	t.Parallel()

	crv, err := curve.NewCurveFromNodes(date(2026, time.March, 2), daycount.Act365F, curve.LogLinear, []curve.Node{
		{Time: 1.0, DiscountFactor: 0.95},
		{Time: 2.0, DiscountFactor: 0.9025},
	})
	if err != nil {
		t.Fatalf("NewCurveFromNodes error: %v", err)
	}

	in := atmCall()
	fromCurve, err := pricing.BSMPriceFromCurve(crv, in)
	if err != nil {
		t.Fatalf("BSMPriceFromCurve error: %v", err)
	}
	in.Rate = -math.Log(0.95)
	direct, err := pricing.BSMPrice(in)
	if err != nil {
		t.Fatalf("BSMPrice error: %v", err)
	}
	if math.Abs(fromCurve-direct) > 1e-12 {
		t.Fatalf("curve-rate price mismatch: got %.15f want %.15f", fromCurve, direct)
	}

	if _, err := pricing.BSMPriceFromCurve(nil, in); err == nil {
		t.Fatalf("expected error for a nil curve")
	}
}

func TestBSMInputValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*pricing.BSMInput)
	}{
		{"bad type", func(in *pricing.BSMInput) { in.Type = "straddle" }},
		{"zero spot", func(in *pricing.BSMInput) { in.Spot = 0 }},
		{"negative strike", func(in *pricing.BSMInput) { in.Strike = -5 }},
		{"zero expiry", func(in *pricing.BSMInput) { in.TimeToExpiry = 0 }},
		{"zero vol", func(in *pricing.BSMInput) { in.Volatility = 0 }},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			in := atmCall()
			tc.mutate(&in)
			if _, err := pricing.BSMPrice(in); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestParseOptionType(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in   string
		want pricing.OptionType
	}{
		{"call", pricing.Call},
		{"C", pricing.Call},
		{" Put ", pricing.Put},
		{"p", pricing.Put},
	} {
		got, err := pricing.ParseOptionType(tc.in)
		if err != nil {
			t.Fatalf("ParseOptionType(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseOptionType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if _, err := pricing.ParseOptionType("straddle"); err == nil {
		t.Fatalf("expected error for an unknown option type")
	}
}
