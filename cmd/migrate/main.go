package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type direction string

const (
	up   direction = "up"
	down direction = "down"
)

type migration struct {
	version int
	name    string
	path    string
	dir     direction
}

func main() {
	mode := flag.String("mode", "up", "migration mode: up or down")
	dir := flag.String("dir", "migrations", "directory holding NNN_name.{up,down}.sql files")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.WithError(err).Fatal("failed to ping database")
	}

	if err := ensureSchemaMigrations(ctx, db); err != nil {
		log.WithError(err).Fatal("failed to ensure schema_migrations")
	}

	files, err := loadMigrations(*dir)
	if err != nil {
		log.WithError(err).Fatal("failed to load migrations")
	}

	switch direction(strings.ToLower(*mode)) {
	case up:
		err = applyUp(ctx, db, files, log)
	case down:
		err = applyDown(ctx, db, files, log)
	default:
		log.Fatalf("unknown mode: %s", *mode)
	}
	if err != nil {
		log.WithError(err).Fatalf("migration %s failed", *mode)
	}
	log.Infof("migration %s completed", *mode)
}

func ensureSchemaMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

// loadMigrations lists the migration files in dir sorted by version.
// Files without a numeric prefix are ignored.
func loadMigrations(dir string) ([]migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []migration
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m, err := parseMigrationName(e.Name())
		if err != nil {
			continue
		}
		m.path = filepath.Join(dir, e.Name())
		files = append(files, m)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].version < files[j].version })
	return files, nil
}

// parseMigrationName accepts 001_create_users.up.sql, 001_create_users.down.sql
// and 001_create_users.sql (treated as up).
func parseMigrationName(filename string) (migration, error) {
	lower := strings.ToLower(filename)
	if !strings.HasSuffix(lower, ".sql") {
		return migration{}, errors.New("not a sql file")
	}

	m := migration{dir: up}
	base := filename[:len(filename)-len(".sql")]
	switch {
	case strings.HasSuffix(lower, ".down.sql"):
		m.dir = down
		base = base[:len(base)-len(".down")]
	case strings.HasSuffix(lower, ".up.sql"):
		base = base[:len(base)-len(".up")]
	}

	version, name, found := strings.Cut(base, "_")
	if !found || name == "" {
		return migration{}, fmt.Errorf("invalid migration name %q", filename)
	}
	v, err := strconv.Atoi(version)
	if err != nil || v <= 0 {
		return migration{}, fmt.Errorf("invalid migration version in %q", filename)
	}
	m.version = v
	m.name = name
	return m, nil
}

func applied(ctx context.Context, db *sql.DB, version int) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version=$1)", version).Scan(&exists)
	return exists, err
}

func applyUp(ctx context.Context, db *sql.DB, files []migration, log *logrus.Logger) error {
	for _, m := range files {
		if m.dir != up {
			continue
		}
		done, err := applied(ctx, db, m.version)
		if err != nil {
			return err
		}
		if done {
			continue
		}

		log.WithField("version", m.version).Infof("applying %s", m.name)
		err = runInTx(ctx, db, m.path, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations(version, name) VALUES($1, $2)", m.version, m.name)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed applying %s: %w", m.path, err)
		}
	}
	return nil
}

func applyDown(ctx context.Context, db *sql.DB, files []migration, log *logrus.Logger) error {
	var downs []migration
	for _, m := range files {
		if m.dir == down {
			downs = append(downs, m)
		}
	}
	sort.Slice(downs, func(i, j int) bool { return downs[i].version > downs[j].version })

	for _, m := range downs {
		done, err := applied(ctx, db, m.version)
		if err != nil {
			return err
		}
		if !done {
			continue
		}

		log.WithField("version", m.version).Infof("reverting %s", m.name)
		err = runInTx(ctx, db, m.path, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version=$1", m.version)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed reverting %s: %w", m.path, err)
		}
	}
	return nil
}

// runInTx executes the file and the bookkeeping statement atomically.
func runInTx(ctx context.Context, db *sql.DB, path string, record func(*sql.Tx) error) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := record(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
