package postgresdb

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrazmi/taskwire/schema"
	"github.com/jrazmi/taskwire/sdk/logger"
)

// Migrate applies every pending file under schema/pgmigrations in name order.
// Applied versions and their checksums live in schema_migrations; a changed
// checksum on an applied file is an error. Forward only.
func Migrate(ctx context.Context, log *logger.Logger, pool *pgxpool.Pool) error {
	if err := StatusCheck(ctx, pool); err != nil {
		return fmt.Errorf("status check database: %w", err)
	}

	log.InfoContext(ctx, "running database migrations")

	applied, err := runMigrations(ctx, log, pool, schema.MigrationsFS, "pgmigrations")
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	log.InfoContext(ctx, "migrations complete", "applied", applied)
	return nil
}

func runMigrations(ctx context.Context, log *logger.Logger, pool *pgxpool.Pool, fsys fs.FS, dir string) (int, error) {
	if err := createMigrationsTable(ctx, pool); err != nil {
		return 0, fmt.Errorf("create migrations table: %w", err)
	}

	files, err := MigrationFiles(fsys, dir)
	if err != nil {
		return 0, fmt.Errorf("get migration files: %w", err)
	}

	var applied int
	for _, file := range files {
		ran, err := applyMigration(ctx, log, pool, fsys, path.Join(dir, file))
		if err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", file, err)
		}
		if ran {
			applied++
		}
	}

	return applied, nil
}

func createMigrationsTable(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			checksum VARCHAR(64) NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := pool.Exec(ctx, query)
	return err
}

// MigrationFiles returns the sorted .sql file names found in dir.
func MigrationFiles(fsys fs.FS, dir string) ([]string, error) {
	var files []string

	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".sql") {
			files = append(files, path.Base(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Checksum is the hex sha256 recorded for a migration's content.
func Checksum(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

func applyMigration(ctx context.Context, log *logger.Logger, pool *pgxpool.Pool, fsys fs.FS, filePath string) (bool, error) {
	version := path.Base(filePath)

	content, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return false, fmt.Errorf("read migration file: %w", err)
	}

	checksum := Checksum(content)

	var existing string
	err = pool.QueryRow(ctx, "SELECT checksum FROM schema_migrations WHERE version = $1", version).Scan(&existing)
	switch {
	case err == nil:
		if existing != checksum {
			return false, fmt.Errorf("checksum mismatch: migration %s was modified after being applied (expected %s, got %s)",
				version, existing, checksum)
		}
		log.DebugContext(ctx, "migration already applied", "version", version)
		return false, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return false, fmt.Errorf("lookup migration: %w", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return false, fmt.Errorf("execute migration: %w", err)
	}

	if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version, checksum) VALUES ($1, $2)", version, checksum); err != nil {
		return false, fmt.Errorf("record migration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	log.InfoContext(ctx, "migration applied", "version", version, "checksum", checksum[:8])
	return true, nil
}
