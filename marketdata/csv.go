package marketdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantken/ratelib/daycount"
)

// CSVSource reads calibrating instruments from a quote file.
//
// The file needs a header row; column order is free. Recognized columns:
//
//	kind          deposit | bond (required)
//	tenor         e.g. 6M, 2Y (this or maturity is required)
//	maturity      YYYY-MM-DD
//	quote         rate in percent for deposits, dirty price for bonds (required)
//	day_count     ACT/360, ACT/365F, 30/360, 30E/360 (default ACT/365F)
//	coupon        annual coupon in percent, bonds only
//	coupon_months months between coupons, default 12
//	redemption    per 100 face, default 100
//
// Empty cells take the documented defaults.
type CSVSource struct {
	path string
}

// NewCSVSource reads from path on every Instruments call.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Instruments(ctx context.Context, curveDate time.Time) ([]Instrument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open quote file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read quote file header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"kind", "quote"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("quote file %s is missing the %q column", s.path, required)
		}
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read quote file records: %w", err)
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	instruments := make([]Instrument, 0, len(records))
	for line, record := range records {
		ins, err := parseRecord(record, field)
		if err != nil {
			return nil, fmt.Errorf("quote file %s line %d: %w", s.path, line+2, err)
		}
		instruments = append(instruments, ins)
	}
	return instruments, nil
}

func parseRecord(record []string, field func([]string, string) string) (Instrument, error) {
	kind, err := ParseKind(field(record, "kind"))
	if err != nil {
		return Instrument{}, err
	}
	ins := Instrument{Kind: kind}

	quoteKind := RateQuote
	if kind == KindBond {
		quoteKind = PriceQuote
	}
	ins.Quote, err = ParseQuote(field(record, "quote"), quoteKind)
	if err != nil {
		return Instrument{}, err
	}

	if v := field(record, "tenor"); v != "" {
		ins.Tenor, err = ParseTenor(v)
		if err != nil {
			return Instrument{}, err
		}
	}
	if v := field(record, "maturity"); v != "" {
		ins.Maturity, err = time.Parse("2006-01-02", v)
		if err != nil {
			return Instrument{}, fmt.Errorf("parse maturity %q: %w", v, err)
		}
	}
	if ins.Tenor.IsZero() && ins.Maturity.IsZero() {
		return Instrument{}, fmt.Errorf("neither tenor nor maturity given")
	}

	if v := field(record, "day_count"); v != "" {
		ins.DayCount, err = daycount.Parse(v)
		if err != nil {
			return Instrument{}, err
		}
	}

	if kind == KindBond {
		if v := field(record, "coupon"); v != "" {
			ins.CouponRate, err = decimal.NewFromString(v)
			if err != nil {
				return Instrument{}, fmt.Errorf("parse coupon %q: %w", v, err)
			}
		}
		if v := field(record, "coupon_months"); v != "" {
			ins.CouponMonths, err = strconv.Atoi(v)
			if err != nil {
				return Instrument{}, fmt.Errorf("parse coupon_months %q: %w", v, err)
			}
		}
		if v := field(record, "redemption"); v != "" {
			ins.Redemption, err = decimal.NewFromString(v)
			if err != nil {
				return Instrument{}, fmt.Errorf("parse redemption %q: %w", v, err)
			}
		}
	}
	return ins, nil
}
