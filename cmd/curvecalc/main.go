// Command curvecalc bootstraps discount curves from quote feeds and
// prices bonds off the result.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "0.3.0"

var (
	verbose   bool
	logFormat string

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "curvecalc",
	Short: "Bootstrap discount curves and price bonds",
	Long: `curvecalc builds a discount curve from market-quoted deposits and
coupon bonds, then answers discount factor and zero rate queries or
prices bonds off the bootstrapped curve.

Quotes come from a CSV file, a PostgreSQL store, or a bundled preset.

Examples:
  curvecalc bootstrap --preset usd-demo
  curvecalc bootstrap --csv quotes.csv --date 2026-08-28 --interp logcubic
  curvecalc bootstrap --dsn "postgres://localhost/quotes?sslmode=disable" --json
  curvecalc price --preset usd-demo --coupon 6.0 --bond-tenor 4Y`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; it typically carries CURVECALC_PG_DSN.
		_ = godotenv.Load()
		return initLogger()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("curvecalc version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging (per-node solver trace)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log output format (console, json)")

	rootCmd.AddCommand(bootstrapCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(versionCmd)
}

// initLogger builds the process logger on stderr so piped stdout stays
// machine-readable.
func initLogger() error {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch logFormat {
	case "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return fmt.Errorf("unsupported log format %q (console, json)", logFormat)
	}

	logger = zap.New(zapcore.NewCore(enc, zapcore.AddSync(os.Stderr), level))
	return nil
}

func main() {
	defer func() {
		_ = logger.Sync()
	}()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
