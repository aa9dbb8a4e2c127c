package marketdata

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantken/ratelib/curve"
)

// MinorUnitCashflow is a schedule line as stored in the quote database:
// amounts are integer minor units (cents) so storage never rounds.
type MinorUnitCashflow struct {
	Date      time.Time
	Coupon    int64
	Principal int64
}

// Cashflow converts the stored line to a pricing cashflow. minorPerUnit
// is the number of minor units in one unit of the quote scale, 100 for
// cent-denominated per-100 schedules.
func (m MinorUnitCashflow) Cashflow(minorPerUnit int64) (curve.Cashflow, error) {
	if minorPerUnit <= 0 {
		return curve.Cashflow{}, fmt.Errorf("minor units per unit must be positive, got %d", minorPerUnit)
	}
	scale := decimal.NewFromInt(minorPerUnit)
	coupon, _ := decimal.NewFromInt(m.Coupon).Div(scale).Float64()
	principal, _ := decimal.NewFromInt(m.Principal).Div(scale).Float64()
	return curve.Cashflow{Date: m.Date, Coupon: coupon, Principal: principal}, nil
}

// ToCashflows converts a stored schedule in date order.
func ToCashflows(rows []MinorUnitCashflow, minorPerUnit int64) ([]curve.Cashflow, error) {
	flows := make([]curve.Cashflow, 0, len(rows))
	for i, row := range rows {
		cf, err := row.Cashflow(minorPerUnit)
		if err != nil {
			return nil, fmt.Errorf("cashflow %d: %w", i, err)
		}
		flows = append(flows, cf)
	}
	return flows, nil
}
