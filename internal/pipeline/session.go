// Package pipeline turns a ticker into a canonical table: it locates
// filings, extracts facts, falls back to company facts when extraction
// cannot be trusted, and decides whether stored data needs reprocessing.
package pipeline

import (
	"context"
	"time"

	"github.com/jmhodges/clock"

	"github.com/sells-group/factsync/internal/config"
	"github.com/sells-group/factsync/internal/edgar"
	"github.com/sells-group/factsync/internal/fetcher"
	"github.com/sells-group/factsync/internal/filing"
	"github.com/sells-group/factsync/internal/model"
	"github.com/sells-group/factsync/internal/xbrl"
)

// CompanyDirectory maps tickers to companies.
type CompanyDirectory interface {
	Lookup(ctx context.Context, ticker string) (model.Company, error)
}

// InstanceResolver finds a filing's instance document.
type InstanceResolver interface {
	Resolve(ctx context.Context, f model.Filing, ticker string) (string, bool)
}

// DocumentExtractor reads the facts of one instance document.
type DocumentExtractor interface {
	Extract(ctx context.Context, url string) (xbrl.Extraction, error)
}

// FactsSource serves the company-wide facts used as fallback.
type FactsSource interface {
	CompanyFacts(ctx context.Context, cik string) (*xbrl.CompanyFacts, error)
}

// Session holds the collaborators for one company. Sessions are never
// shared, so nothing cached in one can leak into another company's run.
type Session struct {
	Locator   filing.Locator
	Resolver  InstanceResolver
	Extractor DocumentExtractor
	Facts     FactsSource
}

// SessionFactory creates a fresh Session per company.
type SessionFactory func() *Session

// NewSessionFactory builds sessions over a shared rate-limited fetcher.
// Each session wraps it in its own document cache.
func NewSessionFactory(cfg *config.Config, base fetcher.Fetcher, ep edgar.Endpoints, catalog *xbrl.Catalog, clk clock.Clock) SessionFactory {
	lookback := filing.Lookback(cfg.Locator.LookbackYears)
	return func() *Session {
		f := fetcher.NewCachingFetcher(base)
		client := edgar.NewClient(f, ep)

		var loc filing.Locator
		if cfg.Locator.Policy == config.PolicyFixed {
			loc = filing.NewFixedCountLocator(client, clk, lookback, cfg.Locator.MaxFilings)
		} else {
			loc = filing.NewWindowedLocator(client, clk, lookback)
		}

		return &Session{
			Locator:   loc,
			Resolver:  filing.NewResolver(f, ep),
			Extractor: xbrl.NewExtractor(f, catalog, cfg.Extract.MinFacts),
			Facts:     client,
		}
	}
}

// horizonStart is the earliest fact end date kept from company facts.
func horizonStart(clk clock.Clock, lookback time.Duration) time.Time {
	return model.Date(clk.Now().Add(-lookback))
}
