// package store implements TTL-aware key/value persistence.
//
// Two implementations back the same [Store] contract: a SQLite store for the
// CLI (durable across restarts) and an in-memory store used as a test double.
// A zero TTL marks an entry durable; everything else ages out and reads as
// absent after its deadline.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Store is a key/value store with per-entry TTL.
//
// Durable entries (ttl == 0) survive until explicitly deleted. Expired
// entries are indistinguishable from missing ones.
type Store interface {
	// Get returns the value for key and whether a live entry exists.
	Get(key string) (string, bool, error)

	// Set writes value under key. A zero ttl makes the entry durable.
	Set(key, value string, ttl time.Duration) error

	// Delete removes the entry for key. Deleting a missing key is not an error.
	Delete(key string) error
}

// SQLiteStore implements [Store] over the kv table created by the migrations
// in the shared package.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore creates a SQLiteStore on an open database connection.
//
// The kv table must already exist (run migrations first).
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// Get returns the live value for key.
//
// Expired rows read as absent and are lazily removed.
func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	var expiresAt sql.NullTime

	err := s.db.QueryRow("SELECT value, expires_at FROM kv WHERE key = ?", key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}

	if expiresAt.Valid && !expiresAt.Time.After(s.now()) {
		if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
			return "", false, fmt.Errorf("failed to purge expired key %q: %w", key, err)
		}
		return "", false, nil
	}

	return value, true, nil
}

// Set upserts key with value. Writing refreshes the TTL (sliding expiration).
func (s *SQLiteStore) Set(key, value string, ttl time.Duration) error {
	var expiresAt any
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}

	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, expires_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at, updated_at = excluded.updated_at
	`, key, value, expiresAt, s.now())
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}

	return nil
}

// Delete removes key.
func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// Purge removes every expired row. Called opportunistically by the CLI's
// cache commands; correctness never depends on it running.
func (s *SQLiteStore) Purge() (int64, error) {
	res, err := s.db.Exec("DELETE FROM kv WHERE expires_at IS NOT NULL AND expires_at <= ?", s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired keys: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes every row, durable entries included.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM kv"); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	return nil
}
