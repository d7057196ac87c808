package store

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migration is one numbered schema step, e.g. 0001_slots.{up,down}.sql.
type migration struct {
	version int
	up      string
	down    string
}

// MigrateUp applies every step newer than the schema version recorded in
// PRAGMA user_version.
func MigrateUp(db *sql.DB) error {
	steps, err := loadMigrations()
	if err != nil {
		return err
	}
	current, err := schemaVersion(db)
	if err != nil {
		return err
	}
	for _, step := range steps {
		if step.version <= current {
			continue
		}
		if err := applyStep(db, step.up, step.version); err != nil {
			return err
		}
	}
	return nil
}

// migrateDown reverts applied steps newest first, back to version 0.
func migrateDown(db *sql.DB) error {
	steps, err := loadMigrations()
	if err != nil {
		return err
	}
	current, err := schemaVersion(db)
	if err != nil {
		return err
	}
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		if step.version > current {
			continue
		}
		if err := applyStep(db, step.down, step.version-1); err != nil {
			return err
		}
	}
	return nil
}

func loadMigrations() ([]migration, error) {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	byVersion := make(map[int]*migration)
	for _, name := range names {
		base := path.Base(name)
		prefix, _, ok := strings.Cut(base, "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: missing version prefix", name)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %s: bad version %q", name, prefix)
		}
		body, err := migrationFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		step := byVersion[version]
		if step == nil {
			step = &migration{version: version}
			byVersion[version] = step
		}
		switch {
		case strings.HasSuffix(base, ".up.sql"):
			step.up = string(body)
		case strings.HasSuffix(base, ".down.sql"):
			step.down = string(body)
		}
	}

	out := make([]migration, 0, len(byVersion))
	for _, step := range byVersion {
		if step.up == "" || step.down == "" {
			return nil, fmt.Errorf("migration %04d: needs both up and down", step.version)
		}
		out = append(out, *step)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

func schemaVersion(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// applyStep runs body and records version in one transaction.
func applyStep(db *sql.DB, body string, version int) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %04d: %w", version, err)
	}
	if _, err := tx.Exec(body); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply migration to %04d: %w", version, err)
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, version)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record schema version %04d: %w", version, err)
	}
	return tx.Commit()
}
