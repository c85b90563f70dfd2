package pipeline

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/factsync/internal/model"
	"github.com/sells-group/factsync/internal/statement"
	"github.com/sells-group/factsync/internal/store"
	"github.com/sells-group/factsync/internal/xbrl"
)

// --- Directory Mock ---

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) Lookup(ctx context.Context, ticker string) (model.Company, error) {
	args := m.Called(ctx, ticker)
	return args.Get(0).(model.Company), args.Error(1)
}

// --- Locator Mock ---

type mockLocator struct {
	mock.Mock
}

func (m *mockLocator) Locate(ctx context.Context, company model.Company) ([]model.Filing, error) {
	args := m.Called(ctx, company)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Filing), args.Error(1)
}

// --- Resolver Mock ---

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, f model.Filing, ticker string) (string, bool) {
	args := m.Called(ctx, f, ticker)
	return args.String(0), args.Bool(1)
}

// --- Extractor Mock ---

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, url string) (xbrl.Extraction, error) {
	args := m.Called(ctx, url)
	return args.Get(0).(xbrl.Extraction), args.Error(1)
}

// --- Company Facts Mock ---

type mockFacts struct {
	mock.Mock
}

func (m *mockFacts) CompanyFacts(ctx context.Context, cik string) (*xbrl.CompanyFacts, error) {
	args := m.Called(ctx, cik)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*xbrl.CompanyFacts), args.Error(1)
}

// --- Processor Mock ---

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) ProcessCompany(ctx context.Context, ticker string, force bool) (model.Result, error) {
	args := m.Called(ctx, ticker, force)
	return args.Get(0).(model.Result), args.Error(1)
}

// --- In-memory store ---

type memStore struct {
	mu      sync.Mutex
	tables  map[string]*statement.Table
	loadErr error
	saves   int
	log     []store.SyncEntry
}

func newMemStore() *memStore {
	return &memStore{tables: map[string]*statement.Table{}}
}

func (s *memStore) Load(_ context.Context, ticker string) (*statement.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	t, ok := s.tables[ticker]
	if !ok {
		return nil, store.ErrNotFound
	}
	return t, nil
}

func (s *memStore) Save(_ context.Context, ticker string, t *statement.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.tables[ticker] = t
	return nil
}

func (s *memStore) Close() error { return nil }

func (s *memStore) RecordSync(_ context.Context, e store.SyncEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, e)
	return nil
}

func (s *memStore) History(_ context.Context, ticker string, _ int) ([]store.SyncEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.SyncEntry
	for _, e := range s.log {
		if e.Ticker == ticker {
			out = append(out, e)
		}
	}
	return out, nil
}
