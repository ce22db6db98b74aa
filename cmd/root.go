package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/salesdash/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "salesdash",
	Short: "Commercial-performance dashboard engine",
	Long:  "Ingests sales-activity spreadsheets, computes funnel and revenue KPIs per person and squad, goal progress, end-of-period projections, and period-over-period insights.",
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
