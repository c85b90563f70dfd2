package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/factsync/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "factsync",
	Short: "Incremental SEC financial statement sync",
	Long:  "Locates 10-K/10-Q filings on EDGAR, extracts XBRL facts, normalizes them into a canonical per-company table and keeps the stored table current.",
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
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
