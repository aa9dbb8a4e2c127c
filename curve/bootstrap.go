package curve

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/quantken/ratelib/daycount"
)

// BootstrapParams configures a curve bootstrap.
type BootstrapParams struct {
	// ReferenceDate anchors the curve. Every helper must mature strictly
	// after it.
	ReferenceDate time.Time

	// Helpers are the calibrating instruments, in any order. Each pins
	// one curve node; two helpers sharing a maturity are rejected.
	Helpers []RateHelper

	// DayCount maps dates onto the curve time axis for date-keyed
	// queries. Helpers convert their own maturities with their own
	// conventions. Defaults to ACT/365F.
	DayCount daycount.Convention

	// Interpolation selects the node interpolation strategy.
	Interpolation Interpolation

	// DisableExtrapolation makes queries beyond the last node fail with
	// ErrExtrapolation instead of holding the zero rate flat.
	DisableExtrapolation bool

	// Config overrides solver tolerances; zero fields take defaults.
	Config Config

	// Logger receives one debug record per solved node and an info record
	// on completion. Nil disables tracing.
	Logger *zap.Logger
}

// helperNode pairs a helper with its resolved maturity time.
type helperNode struct {
	helper RateHelper
	t      float64
}

// Bootstrap builds a discount curve that reprices every helper to within
// Config.VerifyTolerance.
//
// Nodes are solved sequentially in maturity order; each solve sees the
// curve built so far plus its own provisional node, so intermediate
// cashflows interpolate consistently while the node moves. Global
// interpolations re-solve all nodes in sweeps until the curve settles.
// Any failure aborts the whole build and returns a nil curve.
func Bootstrap(params BootstrapParams) (*Curve, error) {
	if params.ReferenceDate.IsZero() {
		return nil, fmt.Errorf("bootstrap: reference date is required")
	}
	if len(params.Helpers) == 0 {
		return nil, fmt.Errorf("bootstrap: at least one rate helper is required")
	}
	cfg := params.Config.withDefaults()
	log := params.Logger
	if log == nil {
		log = zap.NewNop()
	}
	dc := params.DayCount
	if dc == "" {
		dc = daycount.Act365F
	}

	nodes := make([]helperNode, len(params.Helpers))
	for i, h := range params.Helpers {
		t, err := h.MaturityTime(params.ReferenceDate)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: helper %d: %w", i, err)
		}
		nodes[i] = helperNode{helper: h, t: t}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].t < nodes[j].t })
	for i := 1; i < len(nodes); i++ {
		if nodes[i].t-nodes[i-1].t < timeEpsilon {
			return nil, fmt.Errorf("bootstrap: two helpers mature at t=%.9f: %w", nodes[i].t, ErrDuplicateMaturity)
		}
	}

	c := newCurve(params.ReferenceDate, dc, params.Interpolation)
	for i, hn := range nodes {
		df, iters, err := solveNode(c, hn, cfg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: node %d (t=%.6f): %w", i+1, hn.t, err)
		}
		log.Debug("bootstrapped curve node",
			zap.Int("node", i+1),
			zap.Float64("time", hn.t),
			zap.Float64("discountFactor", df),
			zap.Int("iterations", iters),
		)
	}

	// A global fit reshapes earlier segments every time a node lands, so
	// the first pass leaves early helpers slightly off. Re-solve in place
	// until the largest node shift drops below tolerance.
	if c.method == LogCubic && len(nodes) > 1 {
		if err := settleGlobalFit(c, nodes, cfg, log); err != nil {
			return nil, fmt.Errorf("bootstrap: %w", err)
		}
	}

	for i, hn := range nodes {
		res, err := hn.helper.Residual(c)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: verifying node %d: %w", i+1, err)
		}
		if math.Abs(res) > cfg.VerifyTolerance {
			return nil, fmt.Errorf("bootstrap: node %d (t=%.6f) reprices with residual %.3e: %w",
				i+1, hn.t, res, ErrUnsolvableNode)
		}
	}

	c.extrapolate = !params.DisableExtrapolation
	log.Info("bootstrap complete",
		zap.Time("referenceDate", params.ReferenceDate),
		zap.Int("nodes", len(nodes)),
		zap.Float64("maxTime", c.MaxTime()),
		zap.String("interpolation", c.method.String()),
	)
	return c, nil
}

// solveNode appends a provisional node for hn and solves its discount
// factor in place.
func solveNode(c *Curve, hn helperNode, cfg Config) (float64, int, error) {
	// Flat-forward continuation of the previous pillar unless the helper
	// offers something better.
	guess := c.dfs[len(c.dfs)-1]
	if cf, ok := hn.helper.(ClosedFormHelper); ok {
		g, err := cf.ImpliedDiscountFactor(c)
		if err != nil {
			return 0, 0, err
		}
		guess = g
	}
	guess = clamp(guess, cfg.MinDiscountFactor, cfg.MaxDiscountFactor)
	if err := c.appendNode(hn.t, guess); err != nil {
		return 0, 0, err
	}
	idx := sort.SearchFloat64s(c.times, hn.t)
	return solveNodeAt(c, idx, hn, guess, cfg)
}

// solveNodeAt drives the residual of hn to zero in the discount factor of
// node idx, leaving the solved value on the curve.
func solveNodeAt(c *Curve, idx int, hn helperNode, guess float64, cfg Config) (float64, int, error) {
	f := func(df float64) (float64, error) {
		if err := c.setNodeDF(idx, df); err != nil {
			return 0, err
		}
		return hn.helper.Residual(c)
	}
	res, err := f(guess)
	if err != nil {
		return 0, 0, err
	}
	if math.Abs(res) < cfg.ResidualTolerance {
		return guess, 0, nil
	}
	df, iters, err := solveDiscountFactor(f, guess, cfg)
	if err != nil {
		return 0, iters, err
	}
	// The last residual evaluation may have been a derivative probe;
	// pin the node to the solution.
	if err := c.setNodeDF(idx, df); err != nil {
		return 0, iters, err
	}
	return df, iters, nil
}

// settleGlobalFit re-solves every node against the full curve until the
// largest discount factor shift in a sweep falls below
// cfg.SweepTolerance. Hitting cfg.MaxSweeps is not an error here; the
// verification pass decides whether the curve is good enough.
func settleGlobalFit(c *Curve, nodes []helperNode, cfg Config, log *zap.Logger) error {
	for sweep := 1; sweep <= cfg.MaxSweeps; sweep++ {
		maxShift := 0.0
		for i, hn := range nodes {
			idx := i + 1 // node 0 is the reference node
			prev := c.dfs[idx]
			df, _, err := solveNodeAt(c, idx, hn, prev, cfg)
			if err != nil {
				return fmt.Errorf("sweep %d, node %d: %w", sweep, idx, err)
			}
			if shift := math.Abs(df - prev); shift > maxShift {
				maxShift = shift
			}
		}
		log.Debug("global fit sweep",
			zap.Int("sweep", sweep),
			zap.Float64("maxShift", maxShift),
		)
		if maxShift < cfg.SweepTolerance {
			return nil
		}
	}
	return nil
}
