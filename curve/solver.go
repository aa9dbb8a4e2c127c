package curve

import (
	"fmt"
	"math"
)

// residualFunc evaluates the pricing residual at a candidate discount factor.
type residualFunc func(df float64) (float64, error)

// solveDiscountFactor finds df within [cfg.MinDiscountFactor,
// cfg.MaxDiscountFactor] with |f(df)| < cfg.ResidualTolerance.
//
// Newton-Raphson with a forward-difference derivative drives the search.
// Every evaluation is recorded as a potential bracket endpoint; once a
// sign change is known, Newton steps that leave the bracket are replaced
// by bisection, and an unusable derivative falls back to bisection too.
// Returns the number of iterations spent.
func solveDiscountFactor(f residualFunc, guess float64, cfg Config) (float64, int, error) {
	lo, hi := cfg.MinDiscountFactor, cfg.MaxDiscountFactor

	x := clamp(guess, lo, hi)
	fx, err := f(x)
	if err != nil {
		return 0, 0, err
	}
	if math.IsNaN(fx) || math.IsInf(fx, 0) {
		return 0, 0, fmt.Errorf("residual is not finite at df=%g: %w", x, ErrUnsolvableNode)
	}

	var xNeg, xPos float64
	haveNeg, havePos := false, false
	note := func(xi, fi float64) {
		if math.IsNaN(fi) || math.IsInf(fi, 0) {
			return
		}
		if fi < 0 {
			xNeg, haveNeg = xi, true
		} else if fi > 0 {
			xPos, havePos = xi, true
		}
	}
	note(x, fx)
	probedBounds := false

	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		if math.Abs(fx) < cfg.ResidualTolerance {
			return x, iter - 1, nil
		}

		next, ok := newtonStep(f, x, fx, lo, hi, cfg)
		if !ok && !(haveNeg && havePos) && !probedBounds {
			// Last resort before declaring the node unsolvable: probe the
			// search bounds for a sign change to bisect on.
			probedBounds = true
			if fLo, err := f(lo); err == nil {
				note(lo, fLo)
			}
			if fHi, err := f(hi); err == nil {
				note(hi, fHi)
			}
		}
		switch {
		case !ok && haveNeg && havePos:
			next = 0.5 * (xNeg + xPos)
		case !ok:
			return 0, iter, fmt.Errorf("no sign change of the residual in [%g, %g]: %w", lo, hi, ErrUnsolvableNode)
		case haveNeg && havePos:
			if bLo, bHi := math.Min(xNeg, xPos), math.Max(xNeg, xPos); next < bLo || next > bHi {
				next = 0.5 * (xNeg + xPos)
			}
		}

		fNext, err := f(next)
		if err != nil {
			return 0, iter, err
		}
		x, fx = next, fNext
		note(x, fx)
	}

	if math.Abs(fx) < cfg.ResidualTolerance {
		return x, cfg.MaxIterations, nil
	}
	return 0, cfg.MaxIterations, fmt.Errorf("no convergence after %d iterations, residual %.3e: %w",
		cfg.MaxIterations, fx, ErrUnsolvableNode)
}

// newtonStep returns the damped Newton update from x, or ok=false when the
// local derivative is unusable or the step leaves (lo, hi).
func newtonStep(f residualFunc, x, fx, lo, hi float64, cfg Config) (float64, bool) {
	h := 1e-7 * math.Max(1.0, math.Abs(x))
	if x+h > hi {
		h = -h
	}
	fh, err := f(x + h)
	if err != nil || math.IsNaN(fh) || math.IsInf(fh, 0) {
		return 0, false
	}
	deriv := (fh - fx) / h
	if math.IsNaN(deriv) || math.IsInf(deriv, 0) || math.Abs(deriv) < cfg.DerivativeThreshold {
		return 0, false
	}
	step := fx / deriv
	if maxStep := cfg.DampingFactor * math.Max(math.Abs(x), 0.05); math.Abs(step) > maxStep {
		step = math.Copysign(maxStep, step)
	}
	next := x - step
	if math.IsNaN(next) || next <= lo || next >= hi {
		return 0, false
	}
	return next, true
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
