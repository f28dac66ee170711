package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

// Schema filename parsing constants.
const (
	// migrationFilenameParts is the expected number of parts in a schema filename.
	// Format: YYYYMMDD_HHMMSS_description.up.sql (3 parts when split by "_")
	migrationFilenameParts = 3

	// minVersionParts is the minimum parts needed to extract a version.
	minVersionParts = 2

	// upSuffix marks files applied at startup.
	upSuffix = ".up.sql"
)

// MigrationsFS should be set by the migrations package to embed schema files.
// This allows the schema to be compiled into the binary.
var MigrationsFS embed.FS

// MigrationsDir is the directory within MigrationsFS containing schema files.
// Can be set to "." if files are at the root of the embedded filesystem.
var MigrationsDir = "migrations"

// Migration represents a single embedded schema file.
type Migration struct {
	// Version is extracted from the filename (YYYYMMDD_HHMMSS).
	Version string

	// Name is the human-readable description from the filename.
	Name string

	// UpSQL contains the statements to apply.
	UpSQL string
}

// MigrationRecord represents a row in the schema_migrations table.
type MigrationRecord struct {
	Version   string
	AppliedAt time.Time
}

// Migrate creates any tables the embedded schema defines that are not yet
// present. It runs once at startup; there is no rollback path.
//
// Each schema file runs in its own transaction and is recorded in
// schema_migrations so it is not re-applied. Files are applied in version
// order (oldest first). If file N fails, files 1 to N-1 stay committed and
// re-running Migrate continues from N.
func (db *DB) Migrate(ctx context.Context) error {
	if err := db.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	migrations, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	if len(migrations) == 0 {
		return nil
	}

	applied, err := db.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("getting applied migrations: %w", err)
	}

	for _, m := range pendingMigrations(migrations, applied) {
		if err := db.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("applying migration %s (%s): %w", m.Version, m.Name, err)
		}
	}

	return nil
}

// GetMigrationStatus returns the applied and pending schema files.
func (db *DB) GetMigrationStatus(ctx context.Context) (applied []MigrationRecord, pending []Migration, err error) {
	if err := db.createMigrationsTable(ctx); err != nil {
		return nil, nil, fmt.Errorf("creating migrations table: %w", err)
	}

	applied, err = db.getAppliedMigrations(ctx)
	if err != nil {
		return nil, nil, err
	}

	migrations, err := loadMigrations()
	if err != nil {
		return nil, nil, err
	}

	return applied, pendingMigrations(migrations, applied), nil
}

// pendingMigrations filters out migrations whose version is already recorded.
func pendingMigrations(all []Migration, applied []MigrationRecord) []Migration {
	appliedSet := make(map[string]bool, len(applied))
	for _, m := range applied {
		appliedSet[m.Version] = true
	}

	var pending []Migration
	for _, m := range all {
		if !appliedSet[m.Version] {
			pending = append(pending, m)
		}
	}
	return pending
}

// createMigrationsTable creates the schema_migrations table if it doesn't exist.
func (db *DB) createMigrationsTable(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`)
	return err
}

// getAppliedMigrations returns all migrations that have been applied.
func (db *DB) getAppliedMigrations(ctx context.Context) ([]MigrationRecord, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT version, applied_at FROM schema_migrations ORDER BY version",
	)
	if err != nil {
		return nil, fmt.Errorf("querying migrations: %w", err)
	}
	defer rows.Close()

	var records []MigrationRecord
	for rows.Next() {
		var r MigrationRecord
		var appliedAt string
		if err := rows.Scan(&r.Version, &appliedAt); err != nil {
			return nil, fmt.Errorf("scanning migration row: %w", err)
		}
		r.AppliedAt, _ = time.Parse(time.RFC3339, appliedAt) //nolint:errcheck // Format is controlled
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating migrations: %w", err)
	}
	return records, nil
}

// applyMigration applies a single schema file within a transaction.
func (db *DB) applyMigration(ctx context.Context, m Migration) error {
	return db.InTx(ctx, func(q Querier) error {
		if _, err := q.ExecContext(ctx, m.UpSQL); err != nil {
			return fmt.Errorf("executing SQL: %w", err)
		}

		if _, err := q.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			m.Version,
			time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("recording migration: %w", err)
		}
		return nil
	})
}

// loadMigrations loads all schema files from the embedded filesystem.
func loadMigrations() ([]Migration, error) {
	var empty embed.FS
	if MigrationsFS == empty {
		return nil, nil
	}

	entries, err := fs.ReadDir(MigrationsFS, MigrationsDir)
	if err != nil {
		// Directory might not exist if there is no schema
		return nil, nil
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		version, ok := parseMigrationFilename(name)
		if !ok {
			continue
		}

		upSQL, err := fs.ReadFile(MigrationsFS, path.Join(MigrationsDir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    extractMigrationName(name),
			UpSQL:   string(upSQL),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// parseMigrationFilename extracts the version from a schema filename.
// Only .up.sql files are recognised.
func parseMigrationFilename(name string) (version string, ok bool) {
	if !strings.HasSuffix(name, upSuffix) {
		return "", false
	}

	base := strings.TrimSuffix(name, upSuffix)

	// YYYYMMDD_HHMMSS from YYYYMMDD_HHMMSS_description
	parts := strings.SplitN(base, "_", migrationFilenameParts)
	if len(parts) < minVersionParts {
		return "", false
	}

	return parts[0] + "_" + parts[1], true
}

// extractMigrationName extracts a human-readable name from the filename.
// Example: "20261017_120000_create_term.up.sql" -> "create_term"
func extractMigrationName(filename string) string {
	base := strings.TrimSuffix(filename, upSuffix)

	parts := strings.SplitN(base, "_", migrationFilenameParts)
	if len(parts) >= migrationFilenameParts {
		return parts[minVersionParts]
	}
	return base
}
