package fetcher

import (
	"context"
	"io"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// DecodeJSONObject decodes a single JSON object from a reader.
func DecodeJSONObject[T any](r io.Reader) (*T, error) {
	var obj T
	if err := json.NewDecoder(r).Decode(&obj); err != nil {
		return nil, eris.Wrap(err, "json: decode object")
	}
	return &obj, nil
}

// FetchJSON downloads url and decodes the body into T.
func FetchJSON[T any](ctx context.Context, f Fetcher, url string) (*T, error) {
	body, err := f.Download(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	obj, err := DecodeJSONObject[T](body)
	if err != nil {
		return nil, eris.Wrapf(err, "decode %s", url)
	}
	return obj, nil
}
