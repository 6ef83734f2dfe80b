package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

const prefixPlaceholder = "{{prefix}}"

// Migrate applies the *.sql files of migrations that are not yet recorded in
// the migrations table. Each file runs in its own transaction.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, tables *TableNames, logger *slog.Logger) error {
	_, err := pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name       TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`, tables.Migrations))
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	names, err := fs.Glob(migrations, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		applied, err := migrationApplied(ctx, pool, tables, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		body, err := fs.ReadFile(migrations, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if err := applyMigration(ctx, pool, tables, name, string(body)); err != nil {
			return err
		}
		logger.Info("migration applied", "name", name, "prefix", tables.Prefix)
	}

	return nil
}

func migrationApplied(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, name string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE name = $1)`, tables.Migrations)
	if err := pool.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("check migration %s: %w", name, err)
	}
	return exists, nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, name, body string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, strings.ReplaceAll(body, prefixPlaceholder, tables.Prefix)); err != nil {
		return fmt.Errorf("apply migration %s: %w", name, err)
	}
	record := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1)`, tables.Migrations)
	if _, err := tx.Exec(ctx, record, name); err != nil {
		return fmt.Errorf("record migration %s: %w", name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}
