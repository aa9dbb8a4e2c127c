package marketdata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quantken/ratelib/daycount"
)

// Bundled demo quote sets for development and benchmarks. Values are
// indicative end-of-day style snapshots, not live market data.

// USDDemo is a USD money-market and treasury-style set: ACT/360 deposits
// out to a year, 30/360 semiannual coupon bonds beyond.
func USDDemo() []Instrument {
	return []Instrument{
		{
			Kind:     KindDeposit,
			Tenor:    Tenor{N: 3, Unit: TenorMonths},
			Quote:    NewRateQuote(decimal.RequireFromString("5.10")),
			DayCount: daycount.Act360,
		},
		{
			Kind:     KindDeposit,
			Tenor:    Tenor{N: 6, Unit: TenorMonths},
			Quote:    NewRateQuote(decimal.RequireFromString("5.25")),
			DayCount: daycount.Act360,
		},
		{
			Kind:     KindDeposit,
			Tenor:    Tenor{N: 1, Unit: TenorYears},
			Quote:    NewRateQuote(decimal.RequireFromString("5.50")),
			DayCount: daycount.Act360,
		},
		{
			Kind:         KindBond,
			Tenor:        Tenor{N: 2, Unit: TenorYears},
			Quote:        NewPriceQuote(decimal.RequireFromString("99.80")),
			DayCount:     daycount.Thirty360,
			CouponRate:   decimal.RequireFromString("5.625"),
			CouponMonths: 6,
		},
		{
			Kind:         KindBond,
			Tenor:        Tenor{N: 3, Unit: TenorYears},
			Quote:        NewPriceQuote(decimal.RequireFromString("100.25")),
			DayCount:     daycount.Thirty360,
			CouponRate:   decimal.RequireFromString("5.875"),
			CouponMonths: 6,
		},
		{
			Kind:         KindBond,
			Tenor:        Tenor{N: 5, Unit: TenorYears},
			Quote:        NewPriceQuote(decimal.RequireFromString("101.40")),
			DayCount:     daycount.Thirty360,
			CouponRate:   decimal.RequireFromString("6.25"),
			CouponMonths: 6,
		},
	}
}

// GiltDemo is a GBP-flavored set: ACT/365F deposits and semiannual gilts.
func GiltDemo() []Instrument {
	return []Instrument{
		{
			Kind:     KindDeposit,
			Tenor:    Tenor{N: 6, Unit: TenorMonths},
			Quote:    NewRateQuote(decimal.RequireFromString("4.40")),
			DayCount: daycount.Act365F,
		},
		{
			Kind:     KindDeposit,
			Tenor:    Tenor{N: 1, Unit: TenorYears},
			Quote:    NewRateQuote(decimal.RequireFromString("4.55")),
			DayCount: daycount.Act365F,
		},
		{
			Kind:         KindBond,
			Tenor:        Tenor{N: 2, Unit: TenorYears},
			Quote:        NewPriceQuote(decimal.RequireFromString("100.10")),
			DayCount:     daycount.Act365F,
			CouponRate:   decimal.RequireFromString("4.75"),
			CouponMonths: 6,
		},
		{
			Kind:         KindBond,
			Tenor:        Tenor{N: 4, Unit: TenorYears},
			Quote:        NewPriceQuote(decimal.RequireFromString("99.55")),
			DayCount:     daycount.Act365F,
			CouponRate:   decimal.RequireFromString("4.50"),
			CouponMonths: 6,
		},
	}
}

var presets = map[string]func() []Instrument{
	"usd-demo":  USDDemo,
	"gilt-demo": GiltDemo,
}

// Preset returns the named bundled instrument set.
func Preset(name string) ([]Instrument, error) {
	build, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (have %s)", name, strings.Join(PresetNames(), ", "))
	}
	return build(), nil
}

// PresetNames lists the bundled sets in stable order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
