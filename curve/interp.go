package curve

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/interp"
)

// Interpolation selects how discount factors are interpolated between nodes.
type Interpolation int

const (
	// LogLinear interpolates ln(DF) linearly in time, which makes the
	// instantaneous forward rate piecewise flat. The bootstrap default.
	LogLinear Interpolation = iota
	// LogCubic fits a monotonicity-preserving cubic through ln(DF). The
	// fit is global, so adding a node reshapes earlier segments.
	LogCubic
	// Linear interpolates the discount factor itself.
	Linear
)

func (i Interpolation) String() string {
	switch i {
	case LogLinear:
		return "loglinear"
	case LogCubic:
		return "logcubic"
	case Linear:
		return "linear"
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

// ParseInterpolation maps a case-insensitive name to an Interpolation.
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "loglinear", "log-linear":
		return LogLinear, nil
	case "logcubic", "log-cubic":
		return LogCubic, nil
	case "linear":
		return Linear, nil
	}
	return 0, fmt.Errorf("unsupported interpolation %q", s)
}

// logCubicFit holds a monotone cubic through the (time, ln(DF)) knots.
type logCubicFit struct {
	fb interp.FritschButland
}

// interpolate evaluates the curve at 0 < t <= MaxTime. Node hits within
// timeEpsilon return the stored value exactly.
func (c *Curve) interpolate(t float64) float64 {
	i := sort.SearchFloat64s(c.times, t)
	if i < len(c.times) && math.Abs(c.times[i]-t) <= timeEpsilon {
		return c.dfs[i]
	}
	if i > 0 && math.Abs(t-c.times[i-1]) <= timeEpsilon {
		return c.dfs[i-1]
	}
	switch c.method {
	case Linear:
		w := (t - c.times[i-1]) / (c.times[i] - c.times[i-1])
		return c.dfs[i-1] + w*(c.dfs[i]-c.dfs[i-1])
	case LogCubic:
		if c.spline != nil {
			return math.Exp(c.spline.fb.Predict(t))
		}
	}
	// ln(DF) linear between the bracketing nodes.
	fwd := (c.logDFs[i-1] - c.logDFs[i]) / (c.times[i] - c.times[i-1])
	return c.dfs[i-1] * math.Exp(-fwd*(t-c.times[i-1]))
}

// extrapolateFlatZero extends the curve beyond the last node holding the
// continuously compounded zero rate of that node flat.
func (c *Curve) extrapolateFlatZero(t float64) float64 {
	last := len(c.times) - 1
	if c.times[last] <= timeEpsilon {
		return 1.0
	}
	z := -c.logDFs[last] / c.times[last]
	return math.Exp(-z * t)
}

// refit rebuilds the global spline after a knot change. LogLinear and
// Linear are local and need no fitted state.
func (c *Curve) refit() error {
	if c.method != LogCubic || len(c.times) < 2 {
		c.spline = nil
		return nil
	}
	fit := &logCubicFit{}
	if err := fit.fb.Fit(c.times, c.logDFs); err != nil {
		return fmt.Errorf("logcubic fit over %d nodes: %w", len(c.times), err)
	}
	c.spline = fit
	return nil
}
