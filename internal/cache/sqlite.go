package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const createEntriesTable = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	expires_at INTEGER NOT NULL
);
`

// SQLiteStore implements Store on a local SQLite database. Suitable for
// single-instance deployments that want the cache to survive restarts.
// Expiration is enforced at read time against the stored deadline.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if _, err := db.Exec(createEntriesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get retrieves the value for key. Expired entries are misses and are
// deleted opportunistically.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	var expiresAt int64

	err := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM cache_entries WHERE key = ?`, key,
	).Scan(&value, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	if time.Now().UnixMilli() > expiresAt {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
		return nil, false, nil
	}

	return value, true, nil
}

// Set stores value under key with the given TTL.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl).UnixMilli()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)`,
		key, value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
