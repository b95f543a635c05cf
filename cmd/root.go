package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/agency-intel/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "agency-intel",
	Short: "Agency coverage and rate card intelligence",
	Long: "Reconciles staffing-agency coverage, rate card, and fulfillment scorecard exports " +
		"into a unified agency-by-city table with presence classification and margin metrics.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
