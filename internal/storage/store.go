// Package storage provides the friend registry abstraction.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/eatnsplit/internal/models"
)

var (
	// ErrNotFound is returned when no friend has the requested ID.
	ErrNotFound = errors.New("friend not found")
	// ErrDuplicateID is returned when a friend is added with an ID already in use.
	ErrDuplicateID = errors.New("friend id already exists")
	// ErrNonZeroBalance is returned when a new friend does not start settled.
	ErrNonZeroBalance = errors.New("new friend must start with a zero balance")
)

// Store defines the friend registry operations.
// This abstraction allows swapping backends (in-memory slice, in-memory SQLite)
// without changing the ledger.
//
// Implementations keep insertion order and return copies, never their own records.
type Store interface {
	// AddFriend appends a friend to the end of the registry.
	// The friend must have a unique ID and a zero balance.
	AddFriend(ctx context.Context, friend *models.Friend) error

	// ApplyDelta adds delta to one friend's balance and returns the updated record.
	// Returns ErrNotFound if the ID is absent; nothing changes in that case.
	ApplyDelta(ctx context.Context, friendID string, delta float64) (*models.Friend, error)

	// GetFriend retrieves a friend by ID.
	// Returns ErrNotFound if the ID is absent.
	GetFriend(ctx context.Context, friendID string) (*models.Friend, error)

	// ListFriends returns all friends in insertion order.
	ListFriends(ctx context.Context) ([]*models.Friend, error)

	// Close releases any resources held by the store.
	Close() error
}
