// Package ledger coordinates the friend registry, the selection tracker and
// the split calculator. It is the only place where a split meets a friend.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/mmynk/eatnsplit/internal/calculator"
	"github.com/mmynk/eatnsplit/internal/models"
	"github.com/mmynk/eatnsplit/internal/selection"
	"github.com/mmynk/eatnsplit/internal/storage"
)

var (
	// ErrNoSelection is returned when a split is submitted with no friend selected.
	ErrNoSelection = errors.New("no friend selected")
	// ErrSelectionMismatch is returned when a split names a friend other than the selected one.
	ErrSelectionMismatch = errors.New("friend is not the selected friend")
	// ErrFriendIncomplete is returned when a new friend has no name or no image.
	ErrFriendIncomplete = errors.New("friend name and image are required")
)

// Coordinator owns the ledger state and applies the cross-component rules:
// a split only ever lands on the selected friend, and a successful split
// always clears the selection.
//
// Every operation holds the coordinator's lock for its whole duration, so
// callers on different goroutines are dispatched one at a time.
type Coordinator struct {
	mu        sync.Mutex
	store     storage.Store
	selection *selection.Tracker
	ids       IDGenerator
}

// New creates a Coordinator over store. A nil ids falls back to UUIDGenerator.
func New(store storage.Store, ids IDGenerator) *Coordinator {
	if ids == nil {
		ids = UUIDGenerator
	}
	return &Coordinator{
		store:     store,
		selection: selection.New(),
		ids:       ids,
	}
}

// Snapshot is everything a presentation layer needs to render the ledger.
type Snapshot struct {
	Friends   []*models.Friend
	Selection selection.State
	Summary   calculator.Summary
}

// AddFriend registers a new friend with a zero balance and returns it.
func (c *Coordinator) AddFriend(ctx context.Context, name, imageRef string) (*models.Friend, error) {
	name = strings.TrimSpace(name)
	imageRef = strings.TrimSpace(imageRef)
	if name == "" || imageRef == "" {
		return nil, ErrFriendIncomplete
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.ids.NewID()
	friend := &models.Friend{
		ID:      id,
		Name:    name,
		Image:   avatarFor(imageRef, id),
		Balance: 0,
	}
	if err := c.store.AddFriend(ctx, friend); err != nil {
		return nil, fmt.Errorf("failed to add friend: %w", err)
	}

	slog.Debug("Friend added", "friend_id", id, "name", name)
	return friend.Clone(), nil
}

// SelectFriend toggles the selection for friendID.
// Unknown IDs return storage.ErrNotFound and leave the selection untouched.
func (c *Coordinator) SelectFriend(ctx context.Context, friendID string) (selection.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.store.GetFriend(ctx, friendID); err != nil {
		return c.selection.State(), err
	}
	return c.selection.Toggle(friendID), nil
}

// ClearSelection deselects whatever friend is selected.
func (c *Coordinator) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.Clear()
}

// SubmitSplit applies a bill split to the selected friend and clears the selection.
// It returns the updated friend and the delta applied to their balance.
//
// Errors leave every entity as it was: ErrNoSelection without a selection,
// calculator validation errors for bad input, and a wrapped
// storage.ErrNotFound if the selected friend vanished from the registry.
func (c *Coordinator) SubmitSplit(ctx context.Context, in models.SplitInput) (*models.Friend, float64, error) {
	return c.SubmitSplitFor(ctx, "", in)
}

// SubmitSplitFor is SubmitSplit with the caller's idea of the target friend.
// A non-empty friendID must match the current selection, otherwise
// ErrSelectionMismatch is returned and nothing changes.
func (c *Coordinator) SubmitSplitFor(ctx context.Context, friendID string, in models.SplitInput) (*models.Friend, float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	selected, ok := c.selection.Current()
	if !ok {
		return nil, 0, ErrNoSelection
	}
	if friendID != "" && friendID != selected {
		return nil, 0, fmt.Errorf("%w: %s", ErrSelectionMismatch, friendID)
	}

	billTotal, userExpense, err := calculator.Validate(in)
	if err != nil {
		return nil, 0, err
	}

	delta := calculator.ComputeDelta(billTotal, userExpense, in.Payer)
	current, err := c.store.GetFriend(ctx, selected)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to apply split: %w", err)
	}
	if _, err := calculator.BalanceAfter(current.Balance, delta); err != nil {
		return nil, 0, err
	}

	friend, err := c.store.ApplyDelta(ctx, selected, delta)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to apply split: %w", err)
	}
	c.selection.Clear()

	slog.Debug("Split applied",
		"friend_id", friend.ID,
		"bill_total", billTotal,
		"user_expense", userExpense,
		"payer", in.Payer,
		"delta", delta,
		"balance", friend.Balance,
	)
	return friend, delta, nil
}

// ListFriends returns all friends in the order they were added.
func (c *Coordinator) ListFriends(ctx context.Context) ([]*models.Friend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.ListFriends(ctx)
}

// Current returns the selection state.
func (c *Coordinator) Current() selection.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.State()
}

// Snapshot returns friends, selection and totals read under one lock.
func (c *Coordinator) Snapshot(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	friends, err := c.store.ListFriends(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to list friends: %w", err)
	}
	return Snapshot{
		Friends:   friends,
		Selection: c.selection.State(),
		Summary:   calculator.Summarize(friends),
	}, nil
}

// avatarFor ties an avatar URL to a friend so avatar services return a
// stable, distinct picture per friend.
func avatarFor(imageRef, id string) string {
	u, err := url.Parse(imageRef)
	if err != nil || u.Scheme == "" {
		return imageRef
	}
	q := u.Query()
	q.Set("u", id)
	u.RawQuery = q.Encode()
	return u.String()
}
