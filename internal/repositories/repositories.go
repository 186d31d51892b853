// package repositories provides persistence layer implementations for client state.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/mvx/internal/shared"
)

// KVStore is a string key-value store.
type KVStore interface {
	// Get returns the value under key. The bool is false when the key is absent.
	Get(key string) (string, bool, error)
	// Set writes value under key, replacing any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

var _ KVStore = (*KVRepository)(nil)

// KVRepository implements [KVStore] over the kv_store table.
type KVRepository struct {
	db *sql.DB
}

// NewKVRepository creates a new [KVRepository] with the given database connection
func NewKVRepository(db *sql.DB) *KVRepository {
	return &KVRepository{db: db}
}

// Get retrieves the value stored under key
func (r *KVRepository) Get(key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}

	var value string
	err := r.db.QueryRow("SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query key %s: %w", key, err)
	}

	return value, true, nil
}

// Set upserts the value stored under key
func (r *KVRepository) Set(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	query := `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}

	return nil
}

// Delete removes the value stored under key
func (r *KVRepository) Delete(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if _, err := r.db.Exec("DELETE FROM kv_store WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}

	return nil
}

// UpdatedAt returns when key was last written. The bool is false when the key is absent.
func (r *KVRepository) UpdatedAt(key string) (time.Time, bool, error) {
	if err := validateKey(key); err != nil {
		return time.Time{}, false, err
	}

	var updatedAt time.Time
	err := r.db.QueryRow("SELECT updated_at FROM kv_store WHERE key = ?", key).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query key %s: %w", key, err)
	}
	return updatedAt, true, nil
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: key is empty", shared.ErrInvalidInput)
	}
	return nil
}
