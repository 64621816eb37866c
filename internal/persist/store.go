package persist

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists answered queries to SQLite so past recommendations can be
// reviewed later.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a new SQLite-backed store at the given path
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := &Store{db: db}

	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

// init creates the necessary tables if they don't exist
func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS exchanges (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			request_id  TEXT NOT NULL,
			query       TEXT NOT NULL,
			answer      TEXT,
			results     TEXT,
			error       TEXT,
			created_at  TEXT NOT NULL,
			UNIQUE(request_id)
		);

		CREATE INDEX IF NOT EXISTS idx_exchanges_created ON exchanges(created_at);
	`)
	return err
}

// SaveExchange records one answered query.
func (s *Store) SaveExchange(ex *Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	result, err := s.db.Exec(`
		INSERT INTO exchanges (request_id, query, answer, results, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ex.RequestID, ex.Query, ex.Answer, toJSON(ex.Results), ex.Error, now.Format(time.RFC3339))
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	ex.ID = id
	ex.CreatedAt = now
	return nil
}

// RecentExchanges returns the newest exchanges, most recent first.
func (s *Store) RecentExchanges(limit int) ([]*Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, request_id, query, answer, results, error, created_at
		FROM exchanges
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exchanges []*Exchange
	for rows.Next() {
		var ex Exchange
		var results sql.NullString
		var createdAt string

		err := rows.Scan(&ex.ID, &ex.RequestID, &ex.Query, &ex.Answer, &results, &ex.Error, &createdAt)
		if err != nil {
			return nil, err
		}

		if results.Valid {
			_ = fromJSON(results.String, &ex.Results)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			ex.CreatedAt = t
		}

		exchanges = append(exchanges, &ex)
	}

	return exchanges, rows.Err()
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
