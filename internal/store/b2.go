package store

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/kothar/go-backblaze"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/factsync/internal/config"
	"github.com/sells-group/factsync/internal/statement"
)

// b2Bucket is the part of *backblaze.Bucket the store uses.
type b2Bucket interface {
	UploadFile(name string, meta map[string]string, file io.Reader) (*backblaze.File, error)
	DownloadFileByName(name string) (*backblaze.File, io.ReadCloser, error)
}

// B2Store keeps one CSV object per ticker in a Backblaze B2 bucket.
type B2Store struct {
	bucket b2Bucket
	name   string
	prefix string
}

// NewB2Store authorizes against B2 and looks up the configured bucket.
func NewB2Store(cfg config.B2Config, prefix string) (*B2Store, error) {
	b2, err := backblaze.NewB2(backblaze.Credentials{
		KeyID:          cfg.KeyID,
		ApplicationKey: cfg.ApplicationKey,
	})
	if err != nil {
		return nil, eris.Wrap(err, "b2 store: authorize")
	}

	bucket, err := b2.Bucket(cfg.Bucket)
	if err != nil {
		return nil, eris.Wrapf(err, "b2 store: lookup bucket %s", cfg.Bucket)
	}
	if bucket == nil {
		return nil, eris.Errorf("b2 store: bucket %s does not exist", cfg.Bucket)
	}
	return &B2Store{bucket: bucket, name: cfg.Bucket, prefix: prefix}, nil
}

// Load downloads and decodes the ticker's object.
func (s *B2Store) Load(ctx context.Context, ticker string) (*statement.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := Key(s.prefix, ticker)
	_, body, err := s.bucket.DownloadFileByName(key)
	if err != nil {
		if isB2NotFound(err) {
			return nil, eris.Wrapf(ErrNotFound, "b2 store: %s", key)
		}
		return nil, eris.Wrapf(err, "b2 store: download %s", key)
	}
	defer body.Close() //nolint:errcheck

	t, err := statement.Decode(body)
	if err != nil {
		return nil, eris.Wrapf(err, "b2 store: decode %s", key)
	}
	return t, nil
}

// Save encodes the table and uploads it over the previous object.
func (s *B2Store) Save(ctx context.Context, ticker string, t *statement.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := statement.Encode(&buf, t); err != nil {
		return eris.Wrapf(err, "b2 store: encode %s", ticker)
	}

	key := Key(s.prefix, ticker)
	file, err := s.bucket.UploadFile(key, map[string]string{}, &buf)
	if err != nil {
		return eris.Wrapf(err, "b2 store: upload %s", key)
	}

	zap.L().Info("b2 store: uploaded table",
		zap.String("bucket", s.name),
		zap.String("file", file.Name),
		zap.Int64("size", file.ContentLength),
	)
	return nil
}

func (s *B2Store) Close() error { return nil }

func isB2NotFound(err error) bool {
	var b2err *backblaze.B2Error
	return errors.As(err, &b2err) && b2err.Code == "not_found"
}
