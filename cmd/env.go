package main

import (
	"context"
	"time"

	"github.com/jmhodges/clock"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/factsync/internal/config"
	"github.com/sells-group/factsync/internal/edgar"
	"github.com/sells-group/factsync/internal/fetcher"
	"github.com/sells-group/factsync/internal/filing"
	"github.com/sells-group/factsync/internal/normalize"
	"github.com/sells-group/factsync/internal/pipeline"
	"github.com/sells-group/factsync/internal/store"
	"github.com/sells-group/factsync/internal/xbrl"
)

// syncEnv holds everything the sync and batch commands need.
type syncEnv struct {
	Store      store.TableStore
	Fetcher    fetcher.Fetcher
	Endpoints  edgar.Endpoints
	Controller *pipeline.Controller
}

// Close releases resources held by the environment.
func (e *syncEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func endpoints(c *config.Config) edgar.Endpoints {
	return edgar.Endpoints{
		WWW:    c.EDGAR.WWWBaseURL,
		Data:   c.EDGAR.DataBaseURL,
		Search: c.EDGAR.SearchBaseURL,
	}
}

// newFetcher returns the process-wide fetcher. Every company shares its
// per-host gates so the SEC request spacing holds across workers.
func newFetcher(c *config.Config, clk clock.Clock) fetcher.Fetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent: c.EDGAR.UserAgent,
		Timeout:   time.Duration(c.EDGAR.TimeoutSecs) * time.Second,
		Gates:     fetcher.SECGates(clk, time.Duration(c.EDGAR.MinIntervalMs)*time.Millisecond),
	})
}

// initSync validates the config, opens the store and builds the controller.
// Callers should defer env.Close().
func initSync(ctx context.Context) (*syncEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}

	clk := clock.New()
	ep := endpoints(cfg)
	f := newFetcher(cfg, clk)

	catalog := xbrl.NewCatalog(cfg.Extract.ExtraTaxonomies...)
	zap.L().Info("xbrl: taxonomy catalog loaded", zap.Strings("families", catalog.Families()))
	sessions := pipeline.NewSessionFactory(cfg, f, ep, catalog, clk)
	p := pipeline.New(normalize.DefaultBuilder(), clk, filing.Lookback(cfg.Locator.LookbackYears))

	return &syncEnv{
		Store:      st,
		Fetcher:    f,
		Endpoints:  ep,
		Controller: pipeline.NewController(edgar.NewDirectory(f, ep), st, sessions, p),
	}, nil
}
