package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned by GetItem when no value exists for a key.
var ErrNotFound = errors.New("item not found")

// Store defines the durable key-value contract used for per-chat state.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetItem returns the value stored under key, or ErrNotFound.
	GetItem(ctx context.Context, key string) (string, error)

	// SetItem stores value under key, overwriting any existing value.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes the value stored under key. Removing an absent key
	// is not an error.
	RemoveItem(ctx context.Context, key string) error

	// RunMaintenance performs database maintenance tasks like VACUUM.
	RunMaintenance(ctx context.Context) error
}

// sqlxStore implements Store on top of sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store implementation backed by sqlx. It requires a
// connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) GetItem(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key must not be empty")
	}

	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM kv_store WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error reading item", "key", key, "error", err)
		return "", fmt.Errorf("failed to read item %q: %w", key, err)
	}
	return value, nil
}

func (s *sqlxStore) SetItem(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key must not be empty")
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO kv_store (key, value, created_at, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;
    `, key, value, now, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error storing item", "key", key, "error", err)
		return fmt.Errorf("failed to store item %q: %w", key, err)
	}
	return nil
}

func (s *sqlxStore) RemoveItem(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key must not be empty")
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		s.logger.ErrorContext(ctx, "Error removing item", "key", key, "error", err)
		return fmt.Errorf("failed to remove item %q: %w", key, err)
	}
	return nil
}

// RunMaintenance reclaims free space and refreshes the query planner
// statistics. VACUUM cannot run inside a transaction.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `ANALYZE`); err != nil {
		return fmt.Errorf("failed to run ANALYZE: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `VACUUM`); err != nil {
		return fmt.Errorf("failed to run VACUUM: %w", err)
	}
	s.logger.InfoContext(ctx, "Database maintenance completed")
	return nil
}
