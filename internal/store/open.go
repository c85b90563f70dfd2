package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/factsync/internal/config"
)

// Open creates the store selected by cfg.Driver. SQLite databases are
// migrated on open; Postgres needs an explicit migrate.
func Open(ctx context.Context, cfg config.StoreConfig) (TableStore, error) {
	switch cfg.Driver {
	case config.DriverFile:
		return NewFileStore(cfg.Dir, cfg.Prefix), nil
	case config.DriverPostgres:
		s, err := NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverSQLite:
		s, err := NewSQLite(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close() //nolint:errcheck
			return nil, err
		}
		return s, nil
	case config.DriverB2:
		s, err := NewB2Store(cfg.B2, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
