package pipeline

import (
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/factsync/internal/model"
	"github.com/sells-group/factsync/internal/normalize"
	"github.com/sells-group/factsync/internal/xbrl"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

var apple = model.Company{Ticker: "AAPL", CIK: "320193", Name: "Apple Inc."}

func annual(acc, report string) model.Filing {
	return model.Filing{
		FormType:        model.FormAnnual,
		AccessionNumber: acc,
		CIK:             apple.CIK,
		ReportDate:      day(report),
		FilingDate:      day(report).AddDate(0, 1, 0),
	}
}

func interim(acc, report string) model.Filing {
	f := annual(acc, report)
	f.FormType = model.FormInterim
	return f
}

func revenueFacts(v float64, end string) []model.RawFact {
	return []model.RawFact{
		{Concept: "Revenues", Value: v, PeriodEnd: day(end)},
		{Concept: "Assets", Value: v * 10, PeriodEnd: day(end)},
	}
}

// harness wires a controller over mocks and an in-memory store.
type harness struct {
	dir       *mockDirectory
	locator   *mockLocator
	resolver  *mockResolver
	extractor *mockExtractor
	facts     *mockFacts
	store     *memStore
	ctrl      *Controller
	sessions  int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		dir:       &mockDirectory{},
		locator:   &mockLocator{},
		resolver:  &mockResolver{},
		extractor: &mockExtractor{},
		facts:     &mockFacts{},
		store:     newMemStore(),
	}
	t.Cleanup(func() {
		h.dir.AssertExpectations(t)
		h.locator.AssertExpectations(t)
		h.resolver.AssertExpectations(t)
		h.extractor.AssertExpectations(t)
		h.facts.AssertExpectations(t)
	})

	clk := clock.NewFake()
	clk.Set(day("2024-06-01"))

	sessions := func() *Session {
		h.sessions++
		return &Session{Locator: h.locator, Resolver: h.resolver, Extractor: h.extractor, Facts: h.facts}
	}
	h.ctrl = NewController(h.dir, h.store, sessions, New(normalize.DefaultBuilder(), clk, 0))
	h.dir.On("Lookup", mock.Anything, "AAPL").Return(apple, nil).Maybe()
	return h
}

// docFor makes filing f resolve to a sufficient document with facts.
func (h *harness) docFor(f model.Filing, facts []model.RawFact) {
	url := "https://www.sec.gov/doc/" + f.AccessionNumber
	h.resolver.On("Resolve", mock.Anything, f, "AAPL").Return(url, true).Once()
	h.extractor.On("Extract", mock.Anything, url).Return(sufficient(facts), nil).Once()
}

func sufficient(facts []model.RawFact) xbrl.Extraction {
	return xbrl.Extraction{Format: xbrl.FormatJSON, RawCount: 1500, Facts: facts, Sufficient: true}
}

func insufficient() xbrl.Extraction {
	return xbrl.Extraction{Format: xbrl.FormatInline, RawCount: 12}
}
