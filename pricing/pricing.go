// Package pricing values bonds and vanilla options off a bootstrapped
// discount curve.
package pricing

import (
	"time"
)

// DiscountCurve is the curve view the pricers need. *curve.Curve
// implements it.
type DiscountCurve interface {
	ReferenceDate() time.Time
	DiscountFactor(t float64) (float64, error)
	DiscountFactorAt(date time.Time) (float64, error)
}
