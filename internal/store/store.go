// Package store persists generated prompt documents and conversation history
// in SQLite, with optional vector search over task embeddings.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"personagen/internal/embedding"
)

// schemaVersion tracks the on-disk schema. Bump when tables change.
const schemaVersion = 1

// Store is the prompt memory database. Task memory rows carry an optional
// embedding used for similarity search; conversation history hangs off tasks.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	path   string
	engine embedding.Engine
	logger *zap.Logger

	// vectorExt is true when the sqlite-vec extension loaded; without it
	// similarity search falls back to in-process cosine scoring.
	vectorExt bool
}

// Open initializes the database at path. The embedding engine is optional;
// without one, task memory still works but similarity search is disabled.
func Open(path string, engine embedding.Engine, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Debug("failed to set busy_timeout", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logger.Debug("failed to set journal_mode=WAL", zap.Error(err))
	}
	// NORMAL is safe with WAL and much faster than FULL.
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logger.Debug("failed to set synchronous=NORMAL", zap.Error(err))
	}

	s := &Store{db: db, path: path, engine: engine, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.vectorExt = s.detectVecExtension()
	if s.vectorExt {
		logger.Debug("sqlite-vec extension available")
	}
	return s, nil
}

// initialize creates the tables.
func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_info (
		version INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS task_memory (
		id TEXT PRIMARY KEY,
		task TEXT NOT NULL,
		goals TEXT,
		personas TEXT NOT NULL,
		reference_urls TEXT,
		conflict_resolution TEXT,
		instructions TEXT,
		embedding BLOB,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_task_memory_created ON task_memory(created_at);

	CREATE TABLE IF NOT EXISTS conversation_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id TEXT NOT NULL REFERENCES task_memory(id) ON DELETE CASCADE,
		persona_name TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_conversation_task ON conversation_history(task_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_info").Scan(&count); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if count == 0 {
		if _, err := s.db.Exec("INSERT INTO schema_info (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	}
	return nil
}

// detectVecExtension probes for the sqlite-vec extension.
func (s *Store) detectVecExtension() bool {
	var v string
	return s.db.QueryRow("SELECT vec_version()").Scan(&v) == nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
