// Package curve bootstraps discount curves from market-quoted calibrating
// instruments and answers discount factor, zero rate, and forward rate
// queries against the result.
package curve

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/quantken/ratelib/daycount"
)

// timeEpsilon is the node-collision tolerance on the curve time axis, in years.
const timeEpsilon = 1e-9

// Node is one bootstrapped curve pillar.
type Node struct {
	Time           float64
	DiscountFactor float64
}

// Curve is a piecewise-interpolated discount curve.
//
// A curve is grown one node at a time by Bootstrap and is immutable
// afterwards: concurrent readers need no synchronization. The reference
// date always carries the implicit node (0, 1.0).
type Curve struct {
	refDate  time.Time
	dayCount daycount.Convention
	method   Interpolation

	times  []float64
	dfs    []float64
	logDFs []float64
	spline *logCubicFit

	extrapolate bool
}

// NewCurveFromNodes builds a curve directly from known discount factors,
// bypassing the bootstrap. Times are year fractions from ref; a node at
// t=0 may be omitted but must carry a discount factor of 1 if present.
// Queries beyond the last node extrapolate flat in the zero rate.
func NewCurveFromNodes(ref time.Time, dc daycount.Convention, method Interpolation, nodes []Node) (*Curve, error) {
	if ref.IsZero() {
		return nil, fmt.Errorf("curve from nodes: reference date is required")
	}
	c := newCurve(ref, dc, method)
	for _, n := range nodes {
		if n.Time <= timeEpsilon {
			if n.Time < -timeEpsilon || math.Abs(n.DiscountFactor-1.0) > timeEpsilon {
				return nil, fmt.Errorf("curve from nodes: node (%g, %g) conflicts with the reference node",
					n.Time, n.DiscountFactor)
			}
			continue
		}
		if err := c.appendNode(n.Time, n.DiscountFactor); err != nil {
			return nil, fmt.Errorf("curve from nodes: %w", err)
		}
	}
	return c, nil
}

// newCurve seeds a curve with the reference node (0, 1.0). Extrapolation
// stays enabled during construction; Bootstrap applies the caller's flag
// once the curve is complete.
func newCurve(ref time.Time, dc daycount.Convention, method Interpolation) *Curve {
	return &Curve{
		refDate:     ref,
		dayCount:    dc,
		method:      method,
		times:       []float64{0},
		dfs:         []float64{1},
		logDFs:      []float64{0},
		extrapolate: true,
	}
}

// ReferenceDate returns the curve's anchor date.
func (c *Curve) ReferenceDate() time.Time {
	return c.refDate
}

// DayCount returns the convention mapping dates onto the curve time axis.
func (c *Curve) DayCount() daycount.Convention {
	return c.dayCount
}

// Interpolation returns the configured interpolation strategy.
func (c *Curve) Interpolation() Interpolation {
	return c.method
}

// MaxTime returns the time of the last bootstrapped node.
func (c *Curve) MaxTime() float64 {
	return c.times[len(c.times)-1]
}

// Nodes returns a copy of the curve pillars, reference node included.
func (c *Curve) Nodes() []Node {
	nodes := make([]Node, len(c.times))
	for i := range c.times {
		nodes[i] = Node{Time: c.times[i], DiscountFactor: c.dfs[i]}
	}
	return nodes
}

// timeOf maps a date onto the curve time axis.
func (c *Curve) timeOf(date time.Time) float64 {
	return c.dayCount.YearFraction(c.refDate, date)
}

// DiscountFactor returns the discount factor at year fraction t.
//
// t = 0 returns exactly 1.0. Queries beyond the last node extrapolate flat
// in the continuously compounded zero rate, or fail with ErrExtrapolation
// when extrapolation is disabled. Negative t always fails.
func (c *Curve) DiscountFactor(t float64) (float64, error) {
	switch {
	case t < -timeEpsilon:
		return 0, fmt.Errorf("discount factor at t=%g: %w", t, ErrExtrapolation)
	case t <= timeEpsilon:
		return 1.0, nil
	}
	if last := c.MaxTime(); t > last+timeEpsilon {
		if !c.extrapolate {
			return 0, fmt.Errorf("discount factor at t=%g beyond last node t=%g: %w", t, last, ErrExtrapolation)
		}
		return c.extrapolateFlatZero(t), nil
	}
	return c.interpolate(t), nil
}

// DiscountFactorAt returns the discount factor on a date, mapped through
// the curve's day count.
func (c *Curve) DiscountFactorAt(date time.Time) (float64, error) {
	return c.DiscountFactor(c.timeOf(date))
}

// ZeroRate returns the annualized zero rate over [0, t] under the given
// compounding convention. freq is only used for Compounded.
func (c *Curve) ZeroRate(t float64, comp Compounding, freq int) (float64, error) {
	if t <= timeEpsilon {
		return 0, fmt.Errorf("zero rate requires t > 0, got %g", t)
	}
	df, err := c.DiscountFactor(t)
	if err != nil {
		return 0, err
	}
	return RateFromDiscount(df, t, comp, freq)
}

// ZeroRateAt is ZeroRate keyed by date.
func (c *Curve) ZeroRateAt(date time.Time, comp Compounding, freq int) (float64, error) {
	return c.ZeroRate(c.timeOf(date), comp, freq)
}

// ForwardRate returns the rate implied between t1 and t2 by the ratio of
// their discount factors.
func (c *Curve) ForwardRate(t1, t2 float64, comp Compounding, freq int) (float64, error) {
	if t1 < -timeEpsilon {
		return 0, fmt.Errorf("forward rate start t1=%g: %w", t1, ErrExtrapolation)
	}
	if t2-t1 <= timeEpsilon {
		return 0, fmt.Errorf("forward rate requires t2 > t1, got [%g, %g]", t1, t2)
	}
	df1, err := c.DiscountFactor(t1)
	if err != nil {
		return 0, err
	}
	df2, err := c.DiscountFactor(t2)
	if err != nil {
		return 0, err
	}
	return RateFromDiscount(df2/df1, t2-t1, comp, freq)
}

// ForwardRateBetween is ForwardRate keyed by dates.
func (c *Curve) ForwardRateBetween(d1, d2 time.Time, comp Compounding, freq int) (float64, error) {
	return c.ForwardRate(c.timeOf(d1), c.timeOf(d2), comp, freq)
}

// appendNode inserts (t, df) keeping the node times strictly ascending.
func (c *Curve) appendNode(t, df float64) error {
	if t <= timeEpsilon {
		return fmt.Errorf("node at t=%g collides with the reference node: %w", t, ErrDuplicateNode)
	}
	if df <= 0 {
		return fmt.Errorf("node at t=%g: discount factor %g must be positive", t, df)
	}
	i := sort.SearchFloat64s(c.times, t)
	if i < len(c.times) && math.Abs(c.times[i]-t) < timeEpsilon {
		return fmt.Errorf("node at t=%g: %w", t, ErrDuplicateNode)
	}
	if i > 0 && math.Abs(t-c.times[i-1]) < timeEpsilon {
		return fmt.Errorf("node at t=%g: %w", t, ErrDuplicateNode)
	}
	c.times = append(c.times, 0)
	copy(c.times[i+1:], c.times[i:])
	c.times[i] = t
	c.dfs = append(c.dfs, 0)
	copy(c.dfs[i+1:], c.dfs[i:])
	c.dfs[i] = df
	c.logDFs = append(c.logDFs, 0)
	copy(c.logDFs[i+1:], c.logDFs[i:])
	c.logDFs[i] = math.Log(df)
	return c.refit()
}

// setNodeDF updates the discount factor of the node at index i.
func (c *Curve) setNodeDF(i int, df float64) error {
	if df <= 0 {
		return fmt.Errorf("node at t=%g: discount factor %g must be positive", c.times[i], df)
	}
	c.dfs[i] = df
	c.logDFs[i] = math.Log(df)
	return c.refit()
}
