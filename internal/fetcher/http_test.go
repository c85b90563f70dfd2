package fetcher

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher() *HTTPFetcher {
	return NewHTTPFetcher(HTTPOptions{
		UserAgent: "test-agent",
		Timeout:   5 * time.Second,
	})
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte("hello world"))
	}))
	defer srv.Close()

	f := newTestFetcher()
	body, err := f.Download(context.Background(), srv.URL+"/data")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestDownload_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Download(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDownload_NoRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Download(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, int32(1), calls.Load())
}

func TestDownload_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("late"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{Timeout: 50 * time.Millisecond})
	_, err := f.Download(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestDownload_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestFetcher().Download(ctx, srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		if r.URL.Path == "/present.htm" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher()

	ok, err := f.Exists(context.Background(), srv.URL+"/present.htm")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.Exists(context.Background(), srv.URL+"/absent.htm")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExists_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	ok, err := newTestFetcher().Exists(context.Background(), addr+"/x")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestHostGateApplied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	clk := clock.NewFake()
	start := clk.Now()
	f := NewHTTPFetcher(HTTPOptions{
		Gates: map[string]Gate{u.Host: NewIntervalGate(clk, 110*time.Millisecond)},
	})

	for range 3 {
		body, err := f.Download(context.Background(), srv.URL)
		require.NoError(t, err)
		body.Close()
	}

	// Two waits of 110ms between three requests.
	assert.Equal(t, 220*time.Millisecond, clk.Now().Sub(start))
}

func TestGateFor_UnknownHostUsesFallback(t *testing.T) {
	f := NewHTTPFetcher(HTTPOptions{Gates: map[string]Gate{"www.sec.gov": NewIntervalGate(clock.NewFake(), time.Second)}})
	assert.Same(t, f.fallback, f.gateFor("https://example.com/x"))
	assert.Same(t, f.fallback, f.gateFor("://bad"))
	assert.NotSame(t, f.fallback, f.gateFor("https://www.sec.gov/Archives/x"))
}
