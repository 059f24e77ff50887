// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
//
// The database lives in memory for the lifetime of the process; friends do not
// survive a restart.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/eatnsplit/internal/models"
	"github.com/mmynk/eatnsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using an in-memory SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// New opens a fresh in-memory database and runs migrations.
func New() (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is its own database, so pin the pool to one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection, discarding all friends.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AddFriend inserts a new friend at the end of the registry.
func (s *SQLiteStore) AddFriend(ctx context.Context, friend *models.Friend) error {
	if friend.Balance != 0 {
		return storage.ErrNonZeroBalance
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM friends WHERE id = ?", friend.ID).Scan(&exists)
	if err == nil {
		return fmt.Errorf("%w: %s", storage.ErrDuplicateID, friend.ID)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check friend existence: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO friends (id, name, image, balance) VALUES (?, ?, ?, ?)",
		friend.ID, friend.Name, friend.Image, friend.Balance,
	)
	if err != nil {
		return fmt.Errorf("failed to insert friend: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ApplyDelta adds delta to one friend's balance inside a transaction.
func (s *SQLiteStore) ApplyDelta(ctx context.Context, friendID string, delta float64) (*models.Friend, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE friends SET balance = balance + ? WHERE id = ?",
		delta, friendID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, friendID)
	}

	friend, err := scanFriend(tx.QueryRowContext(ctx,
		"SELECT id, name, image, balance FROM friends WHERE id = ?",
		friendID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to get updated friend: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return friend, nil
}

// GetFriend retrieves a friend by ID.
func (s *SQLiteStore) GetFriend(ctx context.Context, friendID string) (*models.Friend, error) {
	friend, err := scanFriend(s.db.QueryRowContext(ctx,
		"SELECT id, name, image, balance FROM friends WHERE id = ?",
		friendID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, friendID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friend: %w", err)
	}
	return friend, nil
}

// ListFriends returns all friends ordered by insertion.
func (s *SQLiteStore) ListFriends(ctx context.Context) ([]*models.Friend, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, image, balance FROM friends ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	friends := []*models.Friend{}
	for rows.Next() {
		friend, err := scanFriend(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, friend)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}
	return friends, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFriend(row rowScanner) (*models.Friend, error) {
	friend := &models.Friend{}
	if err := row.Scan(&friend.ID, &friend.Name, &friend.Image, &friend.Balance); err != nil {
		return nil, err
	}
	return friend, nil
}
