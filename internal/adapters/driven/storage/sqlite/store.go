package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/overlap-cli/internal/adapters/driven/storage/sqlite/migrations"
)

// DatabaseFile is the corpus database file name inside the data directory.
const DatabaseFile = "corpus.db"

// connParams puts every connection in WAL mode with foreign keys enforced.
const connParams = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// Store keeps the corpus in a single SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens dataDir/corpus.db, creating the directory and the schema as
// needed. An empty dataDir means ~/.overlap/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".overlap", "data")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, DatabaseFile)
	db, err := sql.Open("sqlite", path+connParams)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.upgrade(context.Background(), migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("upgrading schema: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion() (int, error) {
	return s.schemaVersion(context.Background())
}

func (s *Store) schemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// migration is one NNN_name.up.sql script.
type migration struct {
	version int
	name    string
	file    string
}

// parseMigrations lists the up scripts in fsys ordered by version.
// Files that do not follow the naming scheme are ignored.
func parseMigrations(fsys fs.FS) ([]migration, error) {
	files, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}

	var list []migration
	for _, file := range files {
		prefix, name, ok := strings.Cut(strings.TrimSuffix(file, ".up.sql"), "_")
		if !ok {
			continue
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version <= 0 {
			continue
		}
		list = append(list, migration{version: version, name: name, file: file})
	}

	slices.SortFunc(list, func(a, b migration) int { return a.version - b.version })
	for i := 1; i < len(list); i++ {
		if list[i].version == list[i-1].version {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s",
				list[i].version, list[i-1].file, list[i].file)
		}
	}
	return list, nil
}

// upgrade applies every migration newer than the recorded schema version,
// each in its own transaction.
func (s *Store) upgrade(ctx context.Context, fsys fs.FS) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL DEFAULT '',
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	list, err := parseMigrations(fsys)
	if err != nil {
		return err
	}

	for _, m := range list {
		if m.version <= current {
			continue
		}
		script, err := fs.ReadFile(fsys, m.file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", m.file, err)
		}
		err = s.withTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(script)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.version, m.name)
			return err
		})
		if err != nil {
			return fmt.Errorf("applying %s: %w", m.file, err)
		}
	}
	return nil
}

// withTx runs fn in a transaction, committing only when fn succeeds.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
