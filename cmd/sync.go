package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var syncFull bool

var syncCmd = &cobra.Command{
	Use:   "sync <ticker>",
	Short: "Sync one company's canonical table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initSync(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Controller.ProcessCompany(ctx, args[0], syncFull)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tperiods=%d\tadded=%d\tsource=%s\n",
			res.Ticker, res.Status, res.Periods, res.PeriodsAdded, res.Source)
		return err
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncFull, "full", false, "reprocess even when the stored table is current and replace it")
	rootCmd.AddCommand(syncCmd)
}
