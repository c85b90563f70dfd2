package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Gate blocks until the next request to a host may be sent.
// *rate.Limiter and *IntervalGate both satisfy it.
type Gate interface {
	Wait(ctx context.Context) error
}

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent string
	Timeout   time.Duration
	// Gates maps a host name to the gate guarding it.
	Gates map[string]Gate
	// DefaultRate limits hosts without an entry in Gates.
	DefaultRate rate.Limit
}

// HTTPFetcher implements Fetcher using net/http with per-host gating.
// Each request is attempted once; callers decide how to degrade.
type HTTPFetcher struct {
	client   *http.Client
	opts     HTTPOptions
	gates    map[string]Gate
	fallback *rate.Limiter
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 12 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "factsync/1.0"
	}
	if opts.DefaultRate == 0 {
		opts.DefaultRate = 20
	}
	gates := make(map[string]Gate, len(opts.Gates))
	for k, v := range opts.Gates {
		gates[k] = v
	}
	transport := &http.Transport{
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     20,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts:     opts,
		gates:    gates,
		fallback: rate.NewLimiter(opts.DefaultRate, int(opts.DefaultRate)),
	}
}

func (f *HTTPFetcher) gateFor(rawURL string) Gate {
	u, err := url.Parse(rawURL)
	if err != nil {
		return f.fallback
	}
	if g, ok := f.gates[u.Host]; ok {
		return g
	}
	return f.fallback
}

func (f *HTTPFetcher) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	if err := f.gateFor(rawURL).Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "rate limiter wait")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "%s %s", method, rawURL)
	}
	return resp, nil
}

// Download fetches the URL and returns the response body.
func (f *HTTPFetcher) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	resp, err := f.do(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, eris.Wrap(err, "download")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp.Body, nil
	case resp.StatusCode == http.StatusNotFound:
		_ = resp.Body.Close()
		return nil, eris.Wrapf(ErrNotFound, "download: %s", rawURL)
	default:
		_ = resp.Body.Close()
		return nil, eris.Errorf("download: unexpected status %d from %s", resp.StatusCode, rawURL)
	}
}

// Exists performs a HEAD request and reports whether the URL answered 200.
func (f *HTTPFetcher) Exists(ctx context.Context, rawURL string) (bool, error) {
	resp, err := f.do(ctx, http.MethodHead, rawURL)
	if err != nil {
		return false, eris.Wrap(err, "head request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		zap.L().Debug("head probe miss",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
		)
		return false, nil
	}
	return true, nil
}
