package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/factsync/internal/filing"
	"github.com/sells-group/factsync/internal/model"
	"github.com/sells-group/factsync/internal/statement"
	"github.com/sells-group/factsync/internal/store"
)

// State is how the stored table relates to what is available upstream.
type State int

const (
	// NoPriorData: nothing usable is stored.
	NoPriorData State = iota
	// PriorDataStale: upstream has a later period than the stored table.
	PriorDataStale
	// PriorDataCurrent: the stored table already covers the latest period.
	PriorDataCurrent
)

func (s State) String() string {
	switch s {
	case NoPriorData:
		return "no_prior_data"
	case PriorDataStale:
		return "prior_data_stale"
	case PriorDataCurrent:
		return "prior_data_current"
	}
	return "unknown"
}

// Decide classifies the stored table against the latest located period.
// Without any located period the stored table cannot be behind.
func Decide(prev *statement.Table, located time.Time, hasLocated bool) State {
	stored, ok := prev.MaxPeriod()
	if !ok {
		return NoPriorData
	}
	if hasLocated && stored.Before(model.Date(located)) {
		return PriorDataStale
	}
	return PriorDataCurrent
}

// Controller runs the incremental sync for one company at a time. It is
// safe for concurrent use when its store is.
type Controller struct {
	dir      CompanyDirectory
	store    store.TableStore
	sessions SessionFactory
	pipeline *Pipeline
}

// NewController creates a Controller.
func NewController(dir CompanyDirectory, st store.TableStore, sessions SessionFactory, p *Pipeline) *Controller {
	return &Controller{dir: dir, store: st, sessions: sessions, pipeline: p}
}

// ProcessCompany syncs one ticker. force reprocesses a current table and
// replaces the stored table outright instead of carrying old columns forward.
// The returned Result is filled in on every path, errors included.
func (c *Controller) ProcessCompany(ctx context.Context, ticker string, force bool) (model.Result, error) {
	res := model.Result{Ticker: model.NormalizeTicker(ticker)}
	log := zap.L().With(zap.String("component", "sync"), zap.String("ticker", res.Ticker))

	res, err := c.process(ctx, res, force, log)
	if err != nil {
		res.Status = model.ErrorStatus(err)
		res.Error = err.Error()
		log.Warn("sync: company failed", zap.String("status", string(res.Status)), zap.Error(err))
	}
	c.record(ctx, res, log)
	return res, err
}

func (c *Controller) process(ctx context.Context, res model.Result, force bool, log *zap.Logger) (model.Result, error) {
	company, err := c.dir.Lookup(ctx, res.Ticker)
	if err != nil {
		return res, err
	}
	company.Ticker = res.Ticker
	res.CIK = company.CIK

	sess := c.sessions()
	located, err := sess.Locator.Locate(ctx, company)
	if err != nil {
		return res, err
	}
	filings := usable(located, log)
	latest, hasLatest := filing.MaxPeriodEnd(filings)

	prev := c.loadPrior(ctx, res.Ticker, log)
	state := Decide(prev, latest, hasLatest)
	log.Info("sync: state decided",
		zap.Stringer("state", state),
		zap.Int("filings", len(filings)),
		zap.Bool("force", force),
	)

	if state == PriorDataCurrent && !force {
		res.Status = model.StatusSkipped
		res.Periods = prev.Len()
		return res, nil
	}

	out, err := c.pipeline.Build(ctx, company, filings, sess)
	if err != nil {
		return res, err
	}
	res.Source = out.Source

	// Located filings always yield columns, so only a company without any
	// filings and without fallback facts ends up here with nothing.
	table := out.Table
	if table.Len() == 0 {
		return res, eris.Wrapf(model.ErrNoData, "sync: %s", res.Ticker)
	}
	if !force {
		table = table.CarryForward(prev)
	}

	if err := c.store.Save(ctx, res.Ticker, table); err != nil {
		return res, err
	}

	res.PeriodsAdded = len(table.NewPeriods(prev))
	res.Periods = table.Len()
	if state == NoPriorData {
		res.Status = model.StatusFirstTime
	} else {
		res.Status = model.StatusUpdated
	}
	log.Info("sync: table saved",
		zap.String("status", string(res.Status)),
		zap.Int("periods", res.Periods),
		zap.Int("periods_added", res.PeriodsAdded),
	)
	return res, nil
}

// loadPrior returns the stored table, or nil when nothing usable is stored.
// Read failures of any kind are treated as no prior data.
func (c *Controller) loadPrior(ctx context.Context, ticker string, log *zap.Logger) *statement.Table {
	prev, err := c.store.Load(ctx, ticker)
	switch {
	case err == nil:
		return prev
	case errors.Is(err, store.ErrNotFound):
		log.Debug("sync: no stored table")
	default:
		log.Warn("sync: stored table unreadable, treating as absent", zap.Error(err))
	}
	return nil
}

// record appends res to the store's sync log when it keeps one.
func (c *Controller) record(ctx context.Context, res model.Result, log *zap.Logger) {
	sl, ok := c.store.(store.SyncLog)
	if !ok {
		return
	}
	if err := sl.RecordSync(context.WithoutCancel(ctx), store.EntryFromResult(res)); err != nil {
		log.Warn("sync: record sync log", zap.Error(err))
	}
}

// usable drops filings without a report date and sorts the rest by it.
func usable(filings []model.Filing, log *zap.Logger) []model.Filing {
	out := make([]model.Filing, 0, len(filings))
	for _, f := range filings {
		if f.ReportDate.IsZero() {
			log.Debug("sync: dropping filing without report date", zap.String("accession", f.AccessionNumber))
			continue
		}
		out = append(out, f)
	}
	return filing.SortByPeriodEnd(out)
}
