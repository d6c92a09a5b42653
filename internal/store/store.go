// Package store is the scoped key/value store that holds every tenant's
// records on the device. All tenants share one physical table; each entry's
// key is qualified by its scope so one tenant never sees another's data.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Separator joins a scope and a logical key into the physical key.
const Separator = "|"

var (
	// ErrUnavailable wraps every failure of the storage medium. Callers should
	// treat it as retryable infrastructure failure, not as bad data.
	ErrUnavailable = errors.New("store unavailable")
	// ErrInvalidScope is returned for empty scopes or scopes containing Separator.
	ErrInvalidScope = errors.New("invalid scope")
)

type Store struct {
	db *sql.DB
}

// New wraps a database already migrated with the entries table
// (see database.OpenLocal).
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Entry is a stored value together with its logical key.
type Entry struct {
	Key   string
	Value []byte
}

// Get returns the value stored under key in scope. ok is false when there is none.
func (s *Store) Get(ctx context.Context, collection, key, scope string) ([]byte, bool, error) {
	physical, err := physicalKey(scope, key)
	if err != nil {
		return nil, false, err
	}

	var value []byte

	err = s.db.QueryRowContext(ctx,
		`SELECT value FROM entries WHERE collection = ? AND key = ?`,
		collection, physical,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("getting %s/%s: %w: %w", collection, key, ErrUnavailable, err)
	}

	return value, true, nil
}

// Set stores value under key in scope, replacing any previous value.
func (s *Store) Set(ctx context.Context, collection, key, scope string, value []byte) error {
	physical, err := physicalKey(scope, key)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO entries (collection, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (collection, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, collection, physical, value); err != nil {
		return fmt.Errorf("setting %s/%s: %w: %w", collection, key, ErrUnavailable, err)
	}

	return nil
}

// GetAll returns every entry of collection that belongs to scope, ordered by key.
func (s *Store) GetAll(ctx context.Context, collection, scope string) ([]Entry, error) {
	prefix, err := scopePrefix(scope)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM entries WHERE collection = ? AND substr(key, 1, ?) = ? ORDER BY key`,
		collection, utf8.RuneCountInString(prefix), prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w: %w", collection, ErrUnavailable, err)
	}
	defer rows.Close()

	var entries []Entry

	for rows.Next() {
		var (
			physical string
			value    []byte
		)

		if err := rows.Scan(&physical, &value); err != nil {
			return nil, fmt.Errorf("scanning %s: %w: %w", collection, ErrUnavailable, err)
		}

		// The SQL filter narrows the scan; this check is what guarantees isolation.
		key, ok := strings.CutPrefix(physical, prefix)
		if !ok {
			continue
		}

		entries = append(entries, Entry{Key: key, Value: value})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w: %w", collection, ErrUnavailable, err)
	}

	return entries, nil
}

// Remove deletes key from scope. Removing a missing key is not an error.
func (s *Store) Remove(ctx context.Context, collection, key, scope string) error {
	physical, err := physicalKey(scope, key)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM entries WHERE collection = ? AND key = ?`,
		collection, physical,
	); err != nil {
		return fmt.Errorf("removing %s/%s: %w: %w", collection, key, ErrUnavailable, err)
	}

	return nil
}

// ClearScope deletes every entry of scope across all collections.
func (s *Store) ClearScope(ctx context.Context, scope string) error {
	prefix, err := scopePrefix(scope)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM entries WHERE substr(key, 1, ?) = ?`,
		utf8.RuneCountInString(prefix), prefix,
	); err != nil {
		return fmt.Errorf("clearing scope %s: %w: %w", scope, ErrUnavailable, err)
	}

	return nil
}

// ClearAll deletes every entry of every scope.
func (s *Store) ClearAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clearing store: %w: %w", ErrUnavailable, err)
	}

	return nil
}

func scopePrefix(scope string) (string, error) {
	if scope == "" || strings.Contains(scope, Separator) {
		return "", fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}

	return scope + Separator, nil
}

func physicalKey(scope, key string) (string, error) {
	prefix, err := scopePrefix(scope)
	if err != nil {
		return "", err
	}

	return prefix + key, nil
}
