package db

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	embedsql "github.com/gyeh/datenorm/internal/sql"
)

// ApplyMigrations runs the embedded migrations not yet recorded in
// datenorm.schema_migrations, in filename order, each in its own
// transaction. It returns how many were applied.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) (int, error) {
	names, err := migrationNames(embedsql.Migrations)
	if err != nil {
		return 0, err
	}

	if _, err := pool.Exec(ctx, embedsql.EnsureSchemaMigrations); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}
	rows, err := pool.Query(ctx, embedsql.ListMigrations)
	if err != nil {
		return 0, fmt.Errorf("list applied migrations: %w", err)
	}
	done, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return 0, fmt.Errorf("list applied migrations: %w", err)
	}
	seen := make(map[string]bool, len(done))
	for _, name := range done {
		seen[name] = true
	}

	applied := 0
	for _, name := range names {
		if seen[name] {
			log.Debug().Str("migration", name).Msg("already applied")
			continue
		}
		data, err := fs.ReadFile(embedsql.Migrations, path.Join("migrations", name))
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}
		if err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(data)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, embedsql.RecordMigration, name)
			return err
		}); err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", name, err)
		}
		log.Info().Str("migration", name).Msg("migration applied")
		applied++
	}

	log.Info().
		Int("applied", applied).
		Int("total", len(names)).
		Msg("datenorm schema up to date")
	return applied, nil
}

// migrationNames lists the .sql files under migrations/ in fsys, sorted.
func migrationNames(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
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
