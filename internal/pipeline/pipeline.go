package pipeline

import (
	"context"
	"time"

	"github.com/jmhodges/clock"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/factsync/internal/filing"
	"github.com/sells-group/factsync/internal/model"
	"github.com/sells-group/factsync/internal/normalize"
	"github.com/sells-group/factsync/internal/statement"
	"github.com/sells-group/factsync/internal/xbrl"
)

// Pipeline builds a canonical table from a company's located filings.
type Pipeline struct {
	builder  *normalize.Builder
	clk      clock.Clock
	lookback time.Duration
}

// New creates a Pipeline.
func New(builder *normalize.Builder, clk clock.Clock, lookback time.Duration) *Pipeline {
	if builder == nil {
		builder = normalize.DefaultBuilder()
	}
	if lookback <= 0 {
		lookback = filing.DefaultLookback
	}
	return &Pipeline{builder: builder, clk: clk, lookback: lookback}
}

// Outcome is a built table and where its facts came from.
type Outcome struct {
	Table  *statement.Table
	Source model.Source
	// Fallback records whether company facts were consulted.
	Fallback bool
}

// Build extracts every filing and builds the table, with a column for every
// report date even when no facts were found for it. filings must be sorted
// by period end with no zero report dates. Only an unsupported schema or a
// canceled context is returned as an error; every other per-document failure
// routes the company to the company facts fallback.
func (p *Pipeline) Build(ctx context.Context, company model.Company, filings []model.Filing, sess *Session) (Outcome, error) {
	log := zap.L().With(zap.String("ticker", company.Ticker), zap.String("cik", company.CIK))

	needFallback := len(filings) == 0
	byPeriod := map[time.Time][]model.RawFact{}

	for _, f := range filings {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}

		url, ok := sess.Resolver.Resolve(ctx, f, company.Ticker)
		if !ok {
			needFallback = true
			continue
		}

		ex, err := sess.Extractor.Extract(ctx, url)
		if err != nil {
			if model.IsBatchFatal(err) {
				return Outcome{}, eris.Wrapf(err, "pipeline: %s", company.Ticker)
			}
			if ctx.Err() != nil {
				return Outcome{}, ctx.Err()
			}
			log.Warn("pipeline: extraction failed", zap.String("url", url), zap.Error(err))
			needFallback = true
			continue
		}
		if !ex.Sufficient {
			needFallback = true
			continue
		}

		period := model.Date(f.ReportDate)
		byPeriod[period] = append(byPeriod[period], withFiled(ex.Facts, f.FilingDate)...)
	}

	out := Outcome{Source: model.SourceInstance}
	if needFallback {
		out.Fallback = true
		if facts := p.fallback(ctx, company, filings, sess); len(facts) > 0 {
			byPeriod = facts
			out.Source = model.SourceCompanyFacts
		} else {
			log.Info("pipeline: fallback empty, keeping document facts", zap.Int("periods", len(byPeriod)))
		}
	}
	if len(byPeriod) == 0 {
		out.Source = model.SourceNone
	}

	out.Table = p.builder.Build(byPeriod, reportDates(filings)...)
	log.Info("pipeline: table built",
		zap.Int("filings", len(filings)),
		zap.Int("periods", out.Table.Len()),
		zap.String("source", string(out.Source)),
	)
	return out, nil
}

// fallback reads company facts and groups them by end date, keeping only
// dates that match a located filing's report date. Any failure yields nil.
func (p *Pipeline) fallback(ctx context.Context, company model.Company, filings []model.Filing, sess *Session) map[time.Time][]model.RawFact {
	log := zap.L().With(zap.String("ticker", company.Ticker))

	dates := filing.ReportDates(filings)
	if len(dates) == 0 {
		log.Info("pipeline: no report dates to match company facts against")
		return nil
	}

	facts, err := sess.Facts.CompanyFacts(ctx, company.CIK)
	if err != nil {
		log.Warn("pipeline: company facts unavailable", zap.Error(err))
		return nil
	}

	flat := xbrl.FlattenCompanyFacts(facts, p.builder.Concepts(), horizonStart(p.clk, p.lookback))
	out := map[time.Time][]model.RawFact{}
	for _, f := range flat {
		end := model.Date(f.PeriodEnd)
		if dates[end] {
			out[end] = append(out[end], f)
		}
	}
	log.Info("pipeline: company facts fallback",
		zap.Int("facts", len(flat)),
		zap.Int("periods", len(out)),
	)
	return out
}

// reportDates lists the report date of every filing. Repeats collapse into
// one column when the table is built.
func reportDates(filings []model.Filing) []time.Time {
	out := make([]time.Time, 0, len(filings))
	for _, f := range filings {
		out = append(out, model.Date(f.ReportDate))
	}
	return out
}

// withFiled stamps facts that carry no filing date with the filing's own.
func withFiled(facts []model.RawFact, filed time.Time) []model.RawFact {
	out := make([]model.RawFact, len(facts))
	for i, f := range facts {
		if f.Filed.IsZero() {
			f.Filed = filed
		}
		out[i] = f
	}
	return out
}
