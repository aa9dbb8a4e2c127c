package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/quantken/ratelib/curve"
	"github.com/quantken/ratelib/marketdata"
)

func main() {
	ref := time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)

	src := marketdata.NewStaticSource(marketdata.USDDemo())
	instruments, err := src.Instruments(context.Background(), ref)
	if err != nil {
		log.Fatal(err)
	}
	helpers, err := marketdata.BuildHelpers(ref, instruments)
	if err != nil {
		log.Fatal(err)
	}

	c, err := curve.Bootstrap(curve.BootstrapParams{
		ReferenceDate: ref,
		Helpers:       helpers,
		Interpolation: curve.LogLinear,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Discount curve %s (%s)\n", ref.Format("2006-01-02"), c.Interpolation())
	fmt.Println("  time      DF          zero (cc, %)")
	for _, n := range c.Nodes() {
		if n.Time == 0 {
			continue
		}
		zero, err := c.ZeroRate(n.Time, curve.Continuous, 0)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("  %6.3f  %.8f  %.6f\n", n.Time, n.DiscountFactor, zero*100)
	}

	fwd, err := c.ForwardRate(1.0, 2.0, curve.Continuous, 0)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("1y->2y forward (cc): %.6f %%\n", fwd*100)
}
