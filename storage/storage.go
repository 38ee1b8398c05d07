// Package storage selects the configured storage gateway and runs its
// schema migrations.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"devtrack/config"
	"devtrack/database"
	"devtrack/database/sqlite"
	"devtrack/database/sqlite/migrations"
	"devtrack/service"
)

// Open connects to the store named by cfg.Driver. The SQLite store brings
// its schema up to date on open; PostgreSQL expects `migrate up` first.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (service.Store, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := database.Connect(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Migrator applies the embedded goose migrations of one driver.
type Migrator struct {
	provider *goose.Provider
	closeDB  func() error
	log      *zap.Logger
}

// NewMigrator opens a migration session for cfg. Close releases it.
func NewMigrator(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*Migrator, error) {
	var (
		dialect goose.Dialect
		sqlDB   *sql.DB
		files   fs.FS
		closeDB func() error
	)

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := database.Connect(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		dialect, sqlDB, files = goose.DialectPostgres, db.SQLDB(), database.Migrations()
		closeDB = func() error {
			_ = sqlDB.Close()
			return db.Close()
		}
	case config.DriverSQLite:
		raw, err := sqlite.OpenDB(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		dialect, sqlDB, files, closeDB = goose.DialectSQLite3, raw, migrations.FS, raw.Close
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	provider, err := goose.NewProvider(dialect, sqlDB, files)
	if err != nil {
		_ = closeDB()
		return nil, fmt.Errorf("goose new provider: %w", err)
	}

	return &Migrator{
		provider: provider,
		closeDB:  closeDB,
		log:      log.With(zap.String("component", "migrate"), zap.String("driver", cfg.Driver)),
	}, nil
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	results, err := m.provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	for _, r := range results {
		m.log.Info("migration applied",
			zap.Int64("version", r.Source.Version),
			zap.Duration("duration", r.Duration))
	}
	if len(results) == 0 {
		m.log.Info("no pending migrations")
	}
	return nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) error {
	result, err := m.provider.Down(ctx)
	if err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	if result != nil {
		m.log.Info("migration rolled back",
			zap.Int64("version", result.Source.Version),
			zap.Duration("duration", result.Duration))
	}
	return nil
}

// MigrationStatus is one row of the status report.
type MigrationStatus struct {
	Version int64
	Path    string
	Applied bool
}

// Status reports every known migration and whether it is applied.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate status: %w", err)
	}
	out := make([]MigrationStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, MigrationStatus{
			Version: s.Source.Version,
			Path:    s.Source.Path,
			Applied: s.State == goose.StateApplied,
		})
	}
	return out, nil
}

func (m *Migrator) Close() error {
	return m.closeDB()
}
