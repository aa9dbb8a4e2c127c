package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/quantken/ratelib/marketdata"
	"github.com/quantken/ratelib/pricing"
)

var priceFlags = struct {
	curveFlags
	bondTenor    string
	bondMaturity string
	settlement   string
	coupon       float64
	couponMonths int
	redemption   float64
	jsonOut      bool
}{}

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price a fixed-coupon bond off a bootstrapped curve",
	Long: `Bootstrap a curve from a quote source, then price a fixed-coupon
bullet bond on it: dirty price, accrued interest, clean price, and the
yield implied by the curve-consistent dirty price.

Examples:
  curvecalc price --preset usd-demo --coupon 6.0 --bond-tenor 4Y
  curvecalc price --csv quotes.csv --coupon 4.25 --coupon-months 6 --bond-maturity 2031-03-07`,
	Args: cobra.NoArgs,
	RunE: runPrice,
}

func init() {
	priceFlags.register(priceCmd)
	priceCmd.Flags().StringVar(&priceFlags.bondTenor, "bond-tenor", "", "bond maturity as a tenor from the curve date, e.g. 4Y")
	priceCmd.Flags().StringVar(&priceFlags.bondMaturity, "bond-maturity", "", "bond maturity date YYYY-MM-DD")
	priceCmd.Flags().StringVar(&priceFlags.settlement, "settlement", "", "settlement date YYYY-MM-DD (default curve date)")
	priceCmd.Flags().Float64Var(&priceFlags.coupon, "coupon", 0, "annual coupon in percent of face")
	priceCmd.Flags().IntVar(&priceFlags.couponMonths, "coupon-months", 12, "months between coupons")
	priceCmd.Flags().Float64Var(&priceFlags.redemption, "redemption", 100, "redemption per 100 face")
	priceCmd.Flags().BoolVar(&priceFlags.jsonOut, "json", false, "emit JSON instead of text")
}

type priceOutput struct {
	ReferenceDate string  `json:"reference_date"`
	Settlement    string  `json:"settlement"`
	Maturity      string  `json:"maturity"`
	CouponPct     float64 `json:"coupon_pct"`
	DirtyPrice    float64 `json:"dirty_price"`
	Accrued       float64 `json:"accrued_interest"`
	CleanPrice    float64 `json:"clean_price"`
	YieldPct      float64 `json:"yield_pct"`
}

func runPrice(cmd *cobra.Command, args []string) error {
	c, err := priceFlags.buildCurve(context.Background())
	if err != nil {
		return err
	}
	ref := c.ReferenceDate()

	maturity, err := resolveBondMaturity(ref)
	if err != nil {
		return err
	}
	settlement := ref
	if priceFlags.settlement != "" {
		settlement, err = time.Parse("2006-01-02", priceFlags.settlement)
		if err != nil {
			return fmt.Errorf("parse --settlement %q: %w", priceFlags.settlement, err)
		}
	}

	flows, err := marketdata.GenerateBondSchedule(ref, maturity,
		decimal.NewFromFloat(priceFlags.coupon), priceFlags.couponMonths,
		decimal.NewFromFloat(priceFlags.redemption))
	if err != nil {
		return err
	}

	dirty, err := pricing.PriceFromCurve(c, settlement, flows)
	if err != nil {
		return err
	}
	accrued, err := pricing.AccruedInterest(settlement, priceFlags.coupon, priceFlags.couponMonths, flows)
	if err != nil {
		return err
	}
	yield, _, err := pricing.YieldToMaturity(settlement, dirty, priceFlags.couponMonths, flows)
	if err != nil {
		return err
	}

	out := priceOutput{
		ReferenceDate: ref.Format("2006-01-02"),
		Settlement:    settlement.Format("2006-01-02"),
		Maturity:      maturity.Format("2006-01-02"),
		CouponPct:     priceFlags.coupon,
		DirtyPrice:    dirty,
		Accrued:       accrued,
		CleanPrice:    dirty - accrued,
		YieldPct:      yield * 100,
	}

	if priceFlags.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("Bond %s  coupon %.4f%%  settle %s\n", out.Maturity, out.CouponPct, out.Settlement)
	fmt.Printf("Dirty price:      %12.6f\n", out.DirtyPrice)
	fmt.Printf("Accrued interest: %12.6f\n", out.Accrued)
	fmt.Printf("Clean price:      %12.6f\n", out.CleanPrice)
	fmt.Printf("Yield:            %12.6f %%\n", out.YieldPct)
	return nil
}

// resolveBondMaturity turns --bond-tenor or --bond-maturity into a date.
func resolveBondMaturity(ref time.Time) (time.Time, error) {
	switch {
	case priceFlags.bondTenor != "" && priceFlags.bondMaturity != "":
		return time.Time{}, fmt.Errorf("--bond-tenor and --bond-maturity are mutually exclusive")
	case priceFlags.bondTenor != "":
		tenor, err := marketdata.ParseTenor(priceFlags.bondTenor)
		if err != nil {
			return time.Time{}, err
		}
		return tenor.Resolve(ref), nil
	case priceFlags.bondMaturity != "":
		maturity, err := time.Parse("2006-01-02", priceFlags.bondMaturity)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse --bond-maturity %q: %w", priceFlags.bondMaturity, err)
		}
		return maturity, nil
	}
	return time.Time{}, fmt.Errorf("one of --bond-tenor, --bond-maturity is required")
}
