package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/factsync/internal/edgar"
	"github.com/sells-group/factsync/internal/pipeline"
)

var (
	batchTickers []string
	batchFile    string
	batchAll     bool
	batchLimit   int
	batchFull    bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Sync many companies with bounded concurrency",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initSync(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		tickers, err := collectTickers(ctx, env)
		if err != nil {
			return err
		}
		limit := batchLimit
		if !cmd.Flags().Changed("limit") {
			limit = cfg.Batch.Limit
		}
		tickers = applyLimit(tickers, limit)
		if len(tickers) == 0 {
			zap.L().Info("batch: no tickers to process")
			return nil
		}

		sum, runErr := pipeline.NewBatch(env.Controller, cfg.Batch.Concurrency).Run(ctx, tickers, batchFull)
		if err := writeSummary(cmd.OutOrStdout(), sum); err != nil {
			return err
		}
		if runErr != nil {
			return eris.Wrap(runErr, "batch aborted")
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringSliceVar(&batchTickers, "tickers", nil, "comma separated tickers")
	batchCmd.Flags().StringVar(&batchFile, "file", "", "file with one ticker per line")
	batchCmd.Flags().BoolVar(&batchAll, "all", false, "every ticker in the SEC exchange listing")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of companies to process (0 = no limit)")
	batchCmd.Flags().BoolVar(&batchFull, "full", false, "reprocess current tables and replace them")
	rootCmd.AddCommand(batchCmd)
}

// collectTickers merges the --tickers, --file and --all sources.
func collectTickers(ctx context.Context, env *syncEnv) ([]string, error) {
	tickers := append([]string(nil), batchTickers...)

	if batchFile != "" {
		fromFile, err := readTickerFile(batchFile)
		if err != nil {
			return nil, err
		}
		tickers = append(tickers, fromFile...)
	}

	if batchAll {
		companies, err := edgar.ListExchangeTickers(ctx, env.Fetcher, env.Endpoints)
		if err != nil {
			return nil, err
		}
		for _, c := range companies {
			tickers = append(tickers, c.Ticker)
		}
	}

	if len(tickers) == 0 {
		return nil, eris.New("batch: one of --tickers, --file or --all is required")
	}
	return tickers, nil
}

func readTickerFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: open %s", path)
	}
	defer f.Close() //nolint:errcheck
	return parseTickers(f)
}

// parseTickers reads one ticker per line. Blank lines and # comments are
// skipped; commas also separate tickers.
func parseTickers(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, t := range strings.Split(line, ",") {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "batch: read tickers")
	}
	return out, nil
}

func applyLimit(tickers []string, limit int) []string {
	if limit > 0 && len(tickers) > limit {
		return tickers[:limit]
	}
	return tickers
}

func writeSummary(w io.Writer, sum pipeline.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TICKER\tSTATUS\tPERIODS\tADDED\tSOURCE\tERROR")
	for _, r := range sum.Results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n", r.Ticker, r.Status, r.Periods, r.PeriodsAdded, r.Source, r.Error)
	}
	fmt.Fprintf(tw, "\n%d companies, %d failed, %s\n", len(sum.Results), sum.Failed(), sum.Duration.Round(time.Millisecond))
	return tw.Flush()
}
