package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/factsync/internal/statement"
)

// FileStore keeps one CSV per ticker under a local directory.
type FileStore struct {
	dir    string
	prefix string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir, prefix string) *FileStore {
	return &FileStore{dir: dir, prefix: prefix}
}

func (s *FileStore) path(ticker string) string {
	return filepath.Join(s.dir, filepath.FromSlash(Key(s.prefix, ticker)))
}

// Load reads and decodes the ticker's CSV.
func (s *FileStore) Load(ctx context.Context, ticker string) (*statement.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path(ticker))
	if os.IsNotExist(err) {
		return nil, eris.Wrapf(ErrNotFound, "file store: %s", ticker)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "file store: open %s", ticker)
	}
	defer f.Close() //nolint:errcheck

	t, err := statement.Decode(f)
	if err != nil {
		return nil, eris.Wrapf(err, "file store: decode %s", ticker)
	}
	return t, nil
}

// Save writes the table to a temp file and renames it into place.
func (s *FileStore) Save(ctx context.Context, ticker string, t *statement.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst := s.path(ticker)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return eris.Wrap(err, "file store: create dir")
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".factsync-*")
	if err != nil {
		return eris.Wrap(err, "file store: create temp")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if err := statement.Encode(tmp, t); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrapf(err, "file store: encode %s", ticker)
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "file store: close temp")
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return eris.Wrapf(err, "file store: rename to %s", dst)
	}

	zap.L().Debug("file store: saved", zap.String("ticker", ticker), zap.String("path", dst))
	return nil
}

func (s *FileStore) Close() error { return nil }
