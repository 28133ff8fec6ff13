package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/lexrag-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
	"github.com/custodia-labs/lexrag-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// the history and processed-document stores through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.lexrag/data/lexrag.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lexrag", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "lexrag.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// HistoryStore returns a HistoryStore interface backed by this store.
func (s *Store) HistoryStore() driven.HistoryStore {
	return &historyStore{store: s}
}

// ProcessedStore returns a ProcessedStore interface backed by this store.
func (s *Store) ProcessedStore() driven.ProcessedStore {
	return &processedStore{store: s}
}

// migrate applies any pending .up.sql migrations in version order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== History Store ====================

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// Record appends one answered query.
func (s *historyStore) Record(ctx context.Context, entry domain.HistoryEntry) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO query_history (id, query, strategy, result_count, asked_at)
		VALUES (?, ?, ?, ?, ?)
	`, entry.ID, entry.Query, string(entry.Strategy), entry.ResultCount, entry.AskedAt.UTC())
	if err != nil {
		return fmt.Errorf("inserting history entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *historyStore) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, query, strategy, result_count, asked_at
		FROM query_history
		ORDER BY asked_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		var strategy string
		var askedAt time.Time
		if err := rows.Scan(&entry.ID, &entry.Query, &strategy, &entry.ResultCount, &askedAt); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		entry.Strategy = domain.SearchStrategy(strategy)
		entry.AskedAt = askedAt
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Clear removes all entries.
func (s *historyStore) Clear(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM query_history"); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// ==================== Processed Store ====================

// processedStore implements driven.ProcessedStore.
type processedStore struct {
	store *Store
}

var _ driven.ProcessedStore = (*processedStore)(nil)

// Has reports whether the document was already indexed with the given
// indexing version.
func (s *processedStore) Has(ctx context.Context, documentID, version string) (bool, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM processed_documents
		WHERE document_id = ? AND indexing_version = ?
	`, documentID, version)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("checking processed document: %w", err)
	}
	return count > 0, nil
}

// Mark records that the document was fully indexed.
func (s *processedStore) Mark(ctx context.Context, documentID, version string, chunks int) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO processed_documents (document_id, indexing_version, chunks)
		VALUES (?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			indexing_version = excluded.indexing_version,
			chunks = excluded.chunks,
			processed_at = CURRENT_TIMESTAMP
	`, documentID, version, chunks)
	if err != nil {
		return fmt.Errorf("marking processed document: %w", err)
	}
	return nil
}
