package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/glox/foundation/core/error"
	"github.com/msto63/glox/pkg/core/logging"
)

// Entry is one evaluated input line
type Entry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Source    string    `json:"source"`
	Output    string    `json:"output,omitempty"`
	ExitCode  int       `json:"exit_code"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists REPL input history
type Store interface {
	// Append records an entry, filling in ID and CreatedAt when empty
	Append(ctx context.Context, entry *Entry) error

	// Recent returns up to limit of the newest entries, oldest first
	Recent(ctx context.Context, limit int) ([]*Entry, error)

	// Search returns up to limit entries whose source contains substr, oldest first
	Search(ctx context.Context, substr string, limit int) ([]*Entry, error)

	// Prune deletes all but the newest keep entries and returns how many were removed
	Prune(ctx context.Context, keep int) (int64, error)

	// Count returns the number of stored entries
	Count(ctx context.Context) (int, error)

	Close() error
}

func prepare(entry *Entry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
}

func dbError(err error, op string) error {
	return mdwerror.Wrap(err, "history "+op+" failed").
		WithCode(mdwerror.CodeDatabaseError).
		WithOperation("history." + op)
}

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *logging.Logger
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// DefaultSQLiteConfig returns default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: filepath.Join(os.Getenv("HOME"), ".local/share/glox/history.db"),
	}
}

// NewSQLiteStore opens (and if needed creates) the history database
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, mdwerror.Wrap(err, "failed to create history directory").
			WithCode(mdwerror.CodeLoxIO).
			WithOperation("history.Open").
			WithDetail("dir", dir)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, dbError(err, "open")
	}

	store := &SQLiteStore{db: db, logger: logging.New("history")}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "schema")
	}

	store.logger.Debug("History store opened", "path", cfg.Path)
	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		session_id TEXT NOT NULL,
		source TEXT NOT NULL,
		output TEXT,
		exit_code INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_session ON history(session_id);
	CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Append records a new entry
func (s *SQLiteStore) Append(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(entry)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (id, session_id, source, output, exit_code, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.SessionID, entry.Source, entry.Output, entry.ExitCode, entry.CreatedAt)
	if err != nil {
		return dbError(err, "append")
	}

	return nil
}

// Recent returns the newest entries in chronological order
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	return s.query(ctx, "recent", `
		SELECT id, session_id, source, output, exit_code, created_at FROM (
			SELECT * FROM history ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC
	`, normalizeLimit(limit))
}

// Search returns entries containing substr in chronological order
func (s *SQLiteStore) Search(ctx context.Context, substr string, limit int) ([]*Entry, error) {
	return s.query(ctx, "search", `
		SELECT id, session_id, source, output, exit_code, created_at FROM (
			SELECT * FROM history WHERE instr(source, ?) > 0 ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC
	`, substr, normalizeLimit(limit))
}

func (s *SQLiteStore) query(ctx context.Context, op, query string, args ...interface{}) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err, op)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		var output sql.NullString
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Source, &output, &e.ExitCode, &e.CreatedAt); err != nil {
			return nil, dbError(err, op)
		}
		e.Output = output.String
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, op)
	}

	return entries, nil
}

// Prune keeps only the newest keep entries
func (s *SQLiteStore) Prune(ctx context.Context, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 0 {
		keep = 0
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM history WHERE seq NOT IN (
			SELECT seq FROM history ORDER BY seq DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, dbError(err, "prune")
	}

	deleted, _ := result.RowsAffected()
	if deleted > 0 {
		s.logger.Debug("History pruned", "deleted", deleted, "kept", keep)
	}
	return deleted, nil
}

// Count returns the number of stored entries
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history`).Scan(&n); err != nil {
		return 0, dbError(err, "count")
	}
	return n, nil
}

// Ping checks that the database is reachable
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return dbError(err, "ping")
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// defaultLimit applies when a caller passes a non-positive limit
const defaultLimit = 100

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return limit
}

// MemoryStore is an in-memory Store used when persistence is disabled
type MemoryStore struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append records an entry
func (m *MemoryStore) Append(_ context.Context, entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prepare(entry)
	copied := *entry
	m.entries = append(m.entries, &copied)
	return nil
}

// Recent returns the newest entries in chronological order
func (m *MemoryStore) Recent(_ context.Context, limit int) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return tail(m.entries, normalizeLimit(limit)), nil
}

// Search returns entries containing substr in chronological order
func (m *MemoryStore) Search(_ context.Context, substr string, limit int) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*Entry
	for _, e := range m.entries {
		if strings.Contains(e.Source, substr) {
			matched = append(matched, e)
		}
	}
	return tail(matched, normalizeLimit(limit)), nil
}

// Prune keeps only the newest keep entries
func (m *MemoryStore) Prune(_ context.Context, keep int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if keep < 0 {
		keep = 0
	}
	if len(m.entries) <= keep {
		return 0, nil
	}
	deleted := len(m.entries) - keep
	m.entries = append([]*Entry(nil), m.entries[deleted:]...)
	return int64(deleted), nil
}

// Count returns the number of stored entries
func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}

func tail(entries []*Entry, n int) []*Entry {
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	out := make([]*Entry, len(entries))
	for i, e := range entries {
		copied := *e
		out[i] = &copied
	}
	return out
}
