package pipeline

import (
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"

	"github.com/sells-group/factsync/internal/config"
	"github.com/sells-group/factsync/internal/edgar"
	"github.com/sells-group/factsync/internal/filing"
	"github.com/sells-group/factsync/internal/fetcher/mocks"
	"github.com/sells-group/factsync/internal/xbrl"
)

func TestNewSessionFactory_FreshSessions(t *testing.T) {
	cfg := &config.Config{}
	cfg.Locator.Policy = config.PolicyWindowed
	cfg.Locator.LookbackYears = 5

	newSession := NewSessionFactory(cfg, mocks.NewMockFetcher(t), edgar.DefaultEndpoints(), xbrl.NewCatalog(), clock.NewFake())
	a, b := newSession(), newSession()

	assert.NotSame(t, a, b)
	assert.NotSame(t, a.Extractor, b.Extractor)
	assert.IsType(t, &filing.WindowedLocator{}, a.Locator)
	assert.IsType(t, &edgar.Client{}, a.Facts)
}

func TestNewSessionFactory_FixedPolicy(t *testing.T) {
	cfg := &config.Config{}
	cfg.Locator.Policy = config.PolicyFixed
	cfg.Locator.MaxFilings = 4

	sess := NewSessionFactory(cfg, mocks.NewMockFetcher(t), edgar.DefaultEndpoints(), xbrl.NewCatalog(), clock.NewFake())()
	assert.IsType(t, &filing.FixedCountLocator{}, sess.Locator)
}

func TestHorizonStart(t *testing.T) {
	clk := clock.NewFake()
	clk.Set(day("2024-06-01").Add(15 * time.Hour))
	assert.Equal(t, day("2019-06-03"), horizonStart(clk, filing.Lookback(5)))
}
