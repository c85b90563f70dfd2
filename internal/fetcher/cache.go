package fetcher

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/rotisserie/eris"
)

// CachingFetcher keeps successful downloads in memory. One is created per
// company session so documents are never fetched twice within a run.
type CachingFetcher struct {
	next Fetcher

	mu     sync.Mutex
	bodies map[string][]byte
}

// NewCachingFetcher wraps next with an in-memory document cache.
func NewCachingFetcher(next Fetcher) *CachingFetcher {
	return &CachingFetcher{next: next, bodies: make(map[string][]byte)}
}

// Download returns the cached body for url or fetches and caches it.
func (c *CachingFetcher) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	c.mu.Lock()
	body, ok := c.bodies[url]
	c.mu.Unlock()
	if ok {
		return io.NopCloser(bytes.NewReader(body)), nil
	}

	rc, err := c.next.Download(ctx, url)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck

	body, err = io.ReadAll(rc)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: read %s", url)
	}

	c.mu.Lock()
	c.bodies[url] = body
	c.mu.Unlock()
	return io.NopCloser(bytes.NewReader(body)), nil
}

// Exists answers from the cache when the document was already downloaded.
func (c *CachingFetcher) Exists(ctx context.Context, url string) (bool, error) {
	c.mu.Lock()
	_, ok := c.bodies[url]
	c.mu.Unlock()
	if ok {
		return true, nil
	}
	return c.next.Exists(ctx, url)
}
