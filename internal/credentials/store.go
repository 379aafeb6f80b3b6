package credentials

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// AuthTokenKey is the slot holding the bearer credential.
const AuthTokenKey = "authToken"

// Store is a durable string key/value slot.
type Store interface {
	// Load returns the value for key and whether it was present.
	Load(key string) (string, bool, error)
	// Save stores value under key, replacing any previous value.
	Save(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// SQLiteStore persists values in the credentials table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an open database whose schema has been ensured
// (see database.Open).
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load implements Store
func (s *SQLiteStore) Load(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM credentials WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("loading %s: %w", key, err)
	}
	return value, true, nil
}

// Save implements Store
func (s *SQLiteStore) Save(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO credentials (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now())
	if err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// Delete implements Store
func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM credentials WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Load(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Save(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
