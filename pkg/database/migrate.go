package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migration is a single versioned schema change.
type Migration struct {
	Version string
	Name    string
	SQL     string
}

// Migrator applies embedded migrations, tracking them in schema_migrations.
type Migrator struct {
	db         *sqlx.DB
	logger     *zap.Logger
	migrations []Migration
}

// NewMigrator loads the embedded migration set.
func NewMigrator(db *sqlx.DB, logger *zap.Logger) (*Migrator, error) {
	migrations, err := loadMigrations(migrationFiles, "migrations")
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migrator{db: db, logger: logger, migrations: migrations}, nil
}

func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	migrations := make([]Migration, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		// "001_init.sql" => version "001"
		version, _, _ := strings.Cut(entry.Name(), "_")
		migrations = append(migrations, Migration{Version: version, Name: entry.Name(), SQL: string(raw)})
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// Up applies every migration not yet recorded. Each one runs in its own transaction.
func (m *Migrator) Up(ctx context.Context) error {
	const createTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version VARCHAR(255) PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
	if _, err := m.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, migration := range m.migrations {
		applied, err := m.isApplied(ctx, migration.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		if err := m.apply(ctx, migration); err != nil {
			return err
		}
		m.logger.Info("migration applied", zap.String("version", migration.Version), zap.String("name", migration.Name))
	}
	return nil
}

func (m *Migrator) isApplied(ctx context.Context, version string) (bool, error) {
	var exists int
	err := m.db.GetContext(ctx, &exists, `SELECT 1 FROM schema_migrations WHERE version = $1`, version)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check migration %s: %w", version, err)
	}
	return true, nil
}

func (m *Migrator) apply(ctx context.Context, migration Migration) (err error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", migration.Version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, migration.SQL); err != nil {
		return fmt.Errorf("apply migration %s: %w", migration.Name, err)
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`, migration.Version, time.Now().UTC()); err != nil {
		return fmt.Errorf("record migration %s: %w", migration.Version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", migration.Version, err)
	}
	return nil
}
