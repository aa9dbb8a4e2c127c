// Package marketdata supplies calibrating instruments for curve
// construction from bundled presets, CSV quote files, or PostgreSQL.
package marketdata

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// QuoteKind distinguishes how a quote value is expressed.
type QuoteKind int

const (
	// RateQuote is an annualized rate in percent: 5.25 means 5.25%.
	RateQuote QuoteKind = iota
	// PriceQuote is a dirty price on the instrument's cashflow scale,
	// conventionally per 100 face.
	PriceQuote
)

// Quote is a single market observation. The value is held as a decimal so
// feed strings like "5.25" survive exactly until they are needed as floats.
type Quote struct {
	value decimal.Decimal
	kind  QuoteKind
}

// NewRateQuote wraps a rate quoted in percent.
func NewRateQuote(percent decimal.Decimal) Quote {
	return Quote{value: percent, kind: RateQuote}
}

// NewPriceQuote wraps a dirty price.
func NewPriceQuote(price decimal.Decimal) Quote {
	return Quote{value: price, kind: PriceQuote}
}

// ParseQuote parses the feed representation of a quote value.
func ParseQuote(s string, kind QuoteKind) (Quote, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Quote{}, fmt.Errorf("parse quote %q: %w", s, err)
	}
	return Quote{value: v, kind: kind}, nil
}

// Kind returns the quote kind.
func (q Quote) Kind() QuoteKind { return q.kind }

// Value returns the quote exactly as observed.
func (q Quote) Value() decimal.Decimal { return q.value }

// Rate returns a rate quote as a decimal fraction: "5.25" becomes 0.0525.
func (q Quote) Rate() (float64, error) {
	if q.kind != RateQuote {
		return 0, fmt.Errorf("quote %s is not a rate", q.value)
	}
	f, _ := q.value.Div(decimal.NewFromInt(100)).Float64()
	return f, nil
}

// Price returns a price quote as a float.
func (q Quote) Price() (float64, error) {
	if q.kind != PriceQuote {
		return 0, fmt.Errorf("quote %s is not a price", q.value)
	}
	f, _ := q.value.Float64()
	return f, nil
}
