package curve

import "time"

// Cashflow is a single dated cash payment for a fixed-coupon bond.
//
// Amounts are on the quoted-price scale (per-100 for a standard
// redemption), not in minor units.
type Cashflow struct {
	Date      time.Time
	Coupon    float64
	Principal float64
}

// Amount returns the total payment on Date.
func (c Cashflow) Amount() float64 {
	return c.Coupon + c.Principal
}
