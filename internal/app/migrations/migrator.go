package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var embedded embed.FS

// Files returns the migrations shipped with the binary.
func Files() fs.FS {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migrator applies versioned SQL files once each, tracking them in schema_migrations.
type Migrator struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(db *pgxpool.Pool, logger zerolog.Logger) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger,
	}
}

func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	_, err := m.db.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`)
	if err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	err := m.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1);`, version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// Version extracts the numeric prefix of a migration file name ("001_init.sql" -> "001").
func Version(name string) string {
	base := path.Base(name)
	version, _, _ := strings.Cut(base, "_")
	return strings.TrimSuffix(version, ".sql")
}

// Pending lists the .sql files of fsys in apply order.
func Pending(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Apply runs every migration in fsys that has not been recorded yet, each in its own transaction.
func (m *Migrator) Apply(ctx context.Context, fsys fs.FS) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	names, err := Pending(fsys)
	if err != nil {
		return err
	}

	for _, name := range names {
		if err := m.applyFile(ctx, fsys, name); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) applyFile(ctx context.Context, fsys fs.FS, name string) error {
	version := Version(name)

	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		m.logger.Debug().Str("migration", name).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read migration file %s: %w", name, err)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("migration %s failed: %w", name, err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`, version, time.Now(),
	); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	m.logger.Info().Str("migration", name).Msg("Migration applied")
	return nil
}
