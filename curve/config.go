package curve

// Config holds the solver parameters for curve bootstrapping.
type Config struct {
	// ResidualTolerance is the price-residual tolerance for a node solve.
	ResidualTolerance float64

	// MaxIterations is the iteration cap for a single node root-find.
	MaxIterations int

	// MinDiscountFactor and MaxDiscountFactor bound the discount factor
	// search range. A node whose residual has no sign change inside the
	// range is unsolvable.
	MinDiscountFactor float64
	MaxDiscountFactor float64

	// DampingFactor limits a Newton step to DampingFactor * currentGuess
	// to prevent overshooting.
	DampingFactor float64

	// DerivativeThreshold is the minimum derivative magnitude below which
	// a Newton step is abandoned in favour of bisection.
	DerivativeThreshold float64

	// MaxSweeps caps the number of full re-solve passes used to settle a
	// global interpolation (LogCubic) after the initial bootstrap.
	MaxSweeps int

	// SweepTolerance is the maximum node shift at which a sweep pass is
	// considered converged.
	SweepTolerance float64

	// VerifyTolerance is the residual bound applied when re-pricing every
	// helper against the finished curve.
	VerifyTolerance float64
}

// DefaultConfig provides production-ready defaults.
var DefaultConfig = Config{
	ResidualTolerance:   1e-10,
	MaxIterations:       100,
	MinDiscountFactor:   1e-6,
	MaxDiscountFactor:   10.0,
	DampingFactor:       0.5,
	DerivativeThreshold: 1e-15,
	MaxSweeps:           8,
	SweepTolerance:      1e-12,
	VerifyTolerance:     1e-8,
}

// withDefaults fills zero-valued fields from DefaultConfig, so callers
// can override a single parameter without restating the rest.
func (c Config) withDefaults() Config {
	d := DefaultConfig
	if c.ResidualTolerance > 0 {
		d.ResidualTolerance = c.ResidualTolerance
	}
	if c.MaxIterations > 0 {
		d.MaxIterations = c.MaxIterations
	}
	if c.MinDiscountFactor > 0 {
		d.MinDiscountFactor = c.MinDiscountFactor
	}
	if c.MaxDiscountFactor > 0 {
		d.MaxDiscountFactor = c.MaxDiscountFactor
	}
	if c.DampingFactor > 0 {
		d.DampingFactor = c.DampingFactor
	}
	if c.DerivativeThreshold > 0 {
		d.DerivativeThreshold = c.DerivativeThreshold
	}
	if c.MaxSweeps > 0 {
		d.MaxSweeps = c.MaxSweeps
	}
	if c.SweepTolerance > 0 {
		d.SweepTolerance = c.SweepTolerance
	}
	if c.VerifyTolerance > 0 {
		d.VerifyTolerance = c.VerifyTolerance
	}
	return d
}
