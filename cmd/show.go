package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/factsync/internal/model"
	"github.com/sells-group/factsync/internal/statement"
	"github.com/sells-group/factsync/internal/store"
)

var showHistory int

var showCmd = &cobra.Command{
	Use:   "show <ticker>",
	Short: "Print a company's stored canonical table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer st.Close() //nolint:errcheck

		ticker := model.NormalizeTicker(args[0])
		table, err := st.Load(ctx, ticker)
		if err != nil {
			return eris.Wrapf(err, "show %s", ticker)
		}
		out := cmd.OutOrStdout()
		if err := writeTable(out, table); err != nil {
			return err
		}

		sl, ok := st.(store.SyncLog)
		if !ok || showHistory <= 0 {
			return nil
		}
		entries, err := sl.History(ctx, ticker, showHistory)
		if err != nil {
			return eris.Wrap(err, "load sync history")
		}
		return writeHistory(out, entries)
	},
}

func init() {
	showCmd.Flags().IntVar(&showHistory, "history", 10, "recent sync log entries to print (SQL stores only)")
	rootCmd.AddCommand(showCmd)
}

func writeTable(w io.Writer, t *statement.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, statement.VariableHeader)
	periods := t.Periods()
	for _, p := range periods {
		fmt.Fprintf(tw, "\t%s", p.Format(statement.DateLayout))
	}
	fmt.Fprintln(tw, "\t")
	for _, row := range t.Rows() {
		fmt.Fprint(tw, row)
		for _, p := range periods {
			fmt.Fprintf(tw, "\t%s", strconv.FormatFloat(t.Get(row, p), 'f', -1, 64))
		}
		fmt.Fprintln(tw, "\t")
	}
	return tw.Flush()
}

func writeHistory(w io.Writer, entries []store.SyncEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nRECORDED\tSTATUS\tADDED\tSOURCE\tERROR")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			e.RecordedAt.UTC().Format("2006-01-02 15:04:05"), e.Status, e.PeriodsAdded, e.Source, e.Error)
	}
	return tw.Flush()
}
