package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Migration struct {
	Version string
	Name    string
	File    string
}

// RunMigrations applies every *.sql file in migrationsDir that is not yet
// recorded in the migrations table. Each file runs in its own transaction.
func RunMigrations(ctx context.Context, db *pgxpool.Pool, migrationsDir string, logger *zap.Logger) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS migrations (
			version VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	applied := make(map[string]bool)
	rows, err := db.Query(ctx, "SELECT version FROM migrations")
	if err != nil {
		return fmt.Errorf("list applied migrations: %w", err)
	}
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return fmt.Errorf("scan migration version: %w", err)
		}
		applied[version] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list applied migrations: %w", err)
	}

	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}

	pending, skipped := PendingMigrations(names, applied)
	for _, file := range skipped {
		logger.Warn("ignoring migration with malformed name", zap.String("file", file))
	}
	if len(pending) == 0 {
		logger.Info("database schema is up to date")
		return nil
	}

	for _, m := range pending {
		content, err := os.ReadFile(filepath.Join(migrationsDir, m.File))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", m.File, err)
		}

		logger.Info("applying migration", zap.String("version", m.Version), zap.String("name", m.Name))

		tx, err := db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		if _, err := tx.Exec(ctx, string(content)); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("apply migration %s: %w", m.File, err)
		}

		if _, err := tx.Exec(ctx,
			"INSERT INTO migrations (version, name, applied_at) VALUES ($1, $2, $3)",
			m.Version, m.Name, time.Now(),
		); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("record migration %s: %w", m.File, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit migration %s: %w", m.File, err)
		}
	}

	return nil
}

// PendingMigrations returns the <version>_<name>.sql files not in applied,
// ordered by file name, plus the .sql files whose names could not be parsed.
func PendingMigrations(files []string, applied map[string]bool) (pending []Migration, skipped []string) {
	sorted := make([]string, 0, len(files))
	for _, f := range files {
		if strings.HasSuffix(f, ".sql") {
			sorted = append(sorted, f)
		}
	}
	sort.Strings(sorted)

	for _, f := range sorted {
		version, rest, ok := strings.Cut(f, "_")
		name := strings.TrimSuffix(rest, ".sql")
		if !ok || version == "" || name == "" {
			skipped = append(skipped, f)
			continue
		}
		if applied[version] {
			continue
		}
		pending = append(pending, Migration{Version: version, Name: name, File: f})
	}
	return pending, skipped
}
