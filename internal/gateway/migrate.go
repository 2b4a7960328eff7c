package gateway

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Migration is one applied or pending schema file.
type Migration struct {
	Filename string
	Checksum string
	Applied  bool
}

// Migrate applies the .sql files of dir in lexical order, skipping those
// already recorded in schema_migrations. It is written for Postgres; the
// sqlite driver gets its schema from Open.
func Migrate(ctx context.Context, db *sql.DB, dir fs.FS) ([]Migration, error) {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id BIGSERIAL PRIMARY KEY,
			filename TEXT NOT NULL UNIQUE,
			checksum TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	applied := map[string]string{}
	rows, err := db.QueryContext(ctx, "SELECT filename, checksum FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	for rows.Next() {
		var name, sum string
		if err := rows.Scan(&name, &sum); err != nil {
			rows.Close()
			return nil, err
		}
		applied[name] = sum
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(dir, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	var out []Migration
	for _, name := range files {
		content, err := fs.ReadFile(dir, name)
		if err != nil {
			return out, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		sum := fmt.Sprintf("%x", sha256.Sum256(content))
		if prev, ok := applied[name]; ok {
			if prev != sum {
				return out, fmt.Errorf("migration %s changed after it was applied", name)
			}
			out = append(out, Migration{Filename: name, Checksum: sum})
			continue
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return out, fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx,
			"INSERT INTO schema_migrations (filename, checksum) VALUES ($1, $2)", name, sum); err != nil {
			return out, fmt.Errorf("failed to record migration %s: %w", name, err)
		}
		out = append(out, Migration{Filename: name, Checksum: sum, Applied: true})
	}
	return out, nil
}
