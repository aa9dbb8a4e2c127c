package curve

import "errors"

// Sentinel errors for curve construction and queries. Callers test for
// them with errors.Is; the wrapped message carries the offending dates,
// times, or residuals.
var (
	// ErrInvalidDate is returned when an instrument maturity is not
	// strictly after the curve reference date.
	ErrInvalidDate = errors.New("maturity not after reference date")

	// ErrDuplicateMaturity is returned when two helpers resolve to the
	// same maturity time.
	ErrDuplicateMaturity = errors.New("duplicate helper maturity")

	// ErrDuplicateNode is returned when a node insertion collides with
	// an existing node time.
	ErrDuplicateNode = errors.New("duplicate curve node")

	// ErrUnsolvableNode is returned when the node solve fails to bracket
	// a sign change or to converge within the iteration cap, or when the
	// finished curve fails to reprice a calibrating instrument.
	ErrUnsolvableNode = errors.New("unsolvable curve node")

	// ErrNegativeCashflow is returned when a bond schedule ends in a
	// non-positive final cashflow.
	ErrNegativeCashflow = errors.New("non-positive final cashflow")

	// ErrExtrapolation is returned for queries outside the curve's knot
	// range when extrapolation is disabled, and for negative times.
	ErrExtrapolation = errors.New("query outside curve range")
)
