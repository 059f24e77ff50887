// Package memory provides a slice-backed implementation of storage.Store.
package memory

import (
	"context"
	"fmt"

	"github.com/mmynk/eatnsplit/internal/models"
	"github.com/mmynk/eatnsplit/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps friends in insertion order with an index for lookups.
// It is not safe for concurrent use; the ledger serializes access.
type Store struct {
	friends []models.Friend
	index   map[string]int
}

// New creates an empty registry.
func New() *Store {
	return &Store{index: make(map[string]int)}
}

// AddFriend appends a friend to the registry.
func (s *Store) AddFriend(_ context.Context, friend *models.Friend) error {
	if friend.Balance != 0 {
		return storage.ErrNonZeroBalance
	}
	if _, exists := s.index[friend.ID]; exists {
		return fmt.Errorf("%w: %s", storage.ErrDuplicateID, friend.ID)
	}

	s.index[friend.ID] = len(s.friends)
	s.friends = append(s.friends, *friend)
	return nil
}

// ApplyDelta replaces one friend's balance with balance + delta.
func (s *Store) ApplyDelta(_ context.Context, friendID string, delta float64) (*models.Friend, error) {
	i, ok := s.index[friendID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, friendID)
	}

	s.friends[i].Balance += delta
	return s.friends[i].Clone(), nil
}

// GetFriend retrieves a friend by ID.
func (s *Store) GetFriend(_ context.Context, friendID string) (*models.Friend, error) {
	i, ok := s.index[friendID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, friendID)
	}
	return s.friends[i].Clone(), nil
}

// ListFriends returns copies of all friends in insertion order.
func (s *Store) ListFriends(_ context.Context) ([]*models.Friend, error) {
	out := make([]*models.Friend, len(s.friends))
	for i := range s.friends {
		out[i] = s.friends[i].Clone()
	}
	return out, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
