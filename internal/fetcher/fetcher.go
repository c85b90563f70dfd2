package fetcher

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
)

// ErrNotFound is returned by Download when the server answers 404.
var ErrNotFound = eris.New("fetcher: not found")

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// Exists performs a HEAD request and reports whether the URL answered 200.
	// Non-200 statuses are reported as false with a nil error.
	Exists(ctx context.Context, url string) (bool, error)
}
