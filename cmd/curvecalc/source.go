package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantken/ratelib/curve"
	"github.com/quantken/ratelib/daycount"
	"github.com/quantken/ratelib/marketdata"
)

// dsnEnvVar names the fallback environment variable for --dsn, usually
// supplied through .env.
const dsnEnvVar = "CURVECALC_PG_DSN"

// curveFlags is the quote-source and bootstrap configuration shared by
// the bootstrap and price commands.
type curveFlags struct {
	csvPath string
	dsn     string
	preset  string

	date     string
	interp   string
	dayCount string
	noExtrap bool
}

func (f *curveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.csvPath, "csv", "", "quote CSV file")
	cmd.Flags().StringVar(&f.dsn, "dsn", "", "PostgreSQL DSN ("+dsnEnvVar+" when set)")
	cmd.Flags().StringVar(&f.preset, "preset", "", "bundled quote set ("+strings.Join(marketdata.PresetNames(), ", ")+")")
	cmd.Flags().StringVar(&f.date, "date", "", "curve reference date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.interp, "interp", "loglinear", "interpolation (loglinear, logcubic, linear)")
	cmd.Flags().StringVar(&f.dayCount, "daycount", "ACT/365F", "curve day count for date queries")
	cmd.Flags().BoolVar(&f.noExtrap, "no-extrapolation", false, "fail queries beyond the last node")
}

// referenceDate resolves --date, defaulting to today at UTC midnight.
func (f *curveFlags) referenceDate() (time.Time, error) {
	if f.date == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	ref, err := time.Parse("2006-01-02", f.date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse --date %q: %w", f.date, err)
	}
	return ref, nil
}

// source picks the quote source, enforcing exactly one of --csv, --dsn,
// --preset. A PG source must be closed by the caller.
func (f *curveFlags) source() (marketdata.Source, func() error, error) {
	noop := func() error { return nil }

	dsn := f.dsn
	if dsn == "" {
		dsn = os.Getenv(dsnEnvVar)
	}

	given := 0
	for _, set := range []bool{f.csvPath != "", dsn != "", f.preset != ""} {
		if set {
			given++
		}
	}
	if given != 1 {
		return nil, noop, fmt.Errorf("exactly one of --csv, --dsn (or %s), --preset is required", dsnEnvVar)
	}

	switch {
	case f.csvPath != "":
		return marketdata.NewCSVSource(f.csvPath), noop, nil
	case f.preset != "":
		instruments, err := marketdata.Preset(f.preset)
		if err != nil {
			return nil, noop, err
		}
		return marketdata.NewStaticSource(instruments), noop, nil
	}

	pg, err := marketdata.OpenPG(dsn, logger)
	if err != nil {
		return nil, noop, err
	}
	return pg, pg.Close, nil
}

// buildCurve loads the instruments and bootstraps the curve.
func (f *curveFlags) buildCurve(ctx context.Context) (*curve.Curve, error) {
	ref, err := f.referenceDate()
	if err != nil {
		return nil, err
	}
	interp, err := curve.ParseInterpolation(f.interp)
	if err != nil {
		return nil, err
	}
	dc, err := daycount.Parse(f.dayCount)
	if err != nil {
		return nil, err
	}

	src, closeSrc, err := f.source()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := closeSrc(); err != nil {
			logger.Warn("closing quote source", zap.Error(err))
		}
	}()

	instruments, err := src.Instruments(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("load instruments: %w", err)
	}
	if len(instruments) == 0 {
		return nil, fmt.Errorf("quote source returned no instruments for %s", ref.Format("2006-01-02"))
	}

	helpers, err := marketdata.BuildHelpers(ref, instruments)
	if err != nil {
		return nil, err
	}

	return curve.Bootstrap(curve.BootstrapParams{
		ReferenceDate:        ref,
		Helpers:              helpers,
		DayCount:             dc,
		Interpolation:        interp,
		DisableExtrapolation: f.noExtrap,
		Logger:               logger,
	})
}
