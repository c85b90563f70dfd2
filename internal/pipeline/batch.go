package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/factsync/internal/model"
)

// CompanyProcessor syncs one company. *Controller implements it.
type CompanyProcessor interface {
	ProcessCompany(ctx context.Context, ticker string, force bool) (model.Result, error)
}

// Batch runs many companies through a processor with bounded concurrency.
type Batch struct {
	proc        CompanyProcessor
	concurrency int
}

// NewBatch creates a Batch. concurrency below 1 runs companies one at a time.
func NewBatch(proc CompanyProcessor, concurrency int) *Batch {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Batch{proc: proc, concurrency: concurrency}
}

// Summary is the outcome of a batch run.
type Summary struct {
	Results  []model.Result
	Counts   map[model.Status]int
	Duration time.Duration
}

// Failed returns the number of companies that ended in an error status.
func (s Summary) Failed() int {
	n := 0
	for st, c := range s.Counts {
		if st.IsError() {
			n += c
		}
	}
	return n
}

// Run processes tickers. Per-company failures are recorded and the run
// continues; an unsupported schema stops every remaining company and is
// returned together with the results gathered so far.
func (b *Batch) Run(ctx context.Context, tickers []string, force bool) (Summary, error) {
	start := time.Now()
	log := zap.L().With(zap.String("component", "batch"))
	log.Info("batch: starting", zap.Int("companies", len(tickers)), zap.Int("concurrency", b.concurrency))

	results := haxmap.New[string, model.Result]()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for _, t := range dedupe(tickers) {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res, err := b.proc.ProcessCompany(gctx, t, force)
			results.Set(res.Ticker, res)
			if err != nil && model.IsBatchFatal(err) {
				log.Error("batch: aborting run", zap.String("ticker", res.Ticker), zap.Error(err))
				return eris.Wrapf(err, "batch: %s", res.Ticker)
			}
			return nil
		})
	}
	err := g.Wait()

	sum := Summary{Counts: map[model.Status]int{}, Duration: time.Since(start)}
	results.ForEach(func(_ string, r model.Result) bool {
		sum.Results = append(sum.Results, r)
		sum.Counts[r.Status]++
		return true
	})
	sort.Slice(sum.Results, func(i, j int) bool { return sum.Results[i].Ticker < sum.Results[j].Ticker })

	log.Info("batch: finished",
		zap.Int("processed", len(sum.Results)),
		zap.Int("failed", sum.Failed()),
		zap.Duration("duration", sum.Duration),
	)
	return sum, err
}

// dedupe normalizes tickers and drops repeats and blanks, keeping order.
func dedupe(tickers []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range tickers {
		t = model.NormalizeTicker(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
