// Package storagetest holds behavior tests shared by every storage.Store backend.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mmynk/eatnsplit/internal/models"
	"github.com/mmynk/eatnsplit/internal/storage"
)

// RunStoreTests exercises a backend through the storage.Store interface.
// newStore must return an empty store; it is called once per subtest.
func RunStoreTests(t *testing.T, newStore func(t *testing.T) storage.Store) {
	ctx := context.Background()

	t.Run("AddFriend appends in insertion order", func(t *testing.T) {
		store := newStore(t)
		names := []string{"Clark", "Sarah", "Anthony", "Dana"}
		for i, name := range names {
			if err := store.AddFriend(ctx, &models.Friend{ID: fmt.Sprintf("id-%d", i), Name: name, Image: "img"}); err != nil {
				t.Fatalf("AddFriend(%s) failed: %v", name, err)
			}
		}

		friends, err := store.ListFriends(ctx)
		if err != nil {
			t.Fatalf("ListFriends failed: %v", err)
		}
		if len(friends) != len(names) {
			t.Fatalf("expected %d friends, got %d", len(names), len(friends))
		}
		for i, f := range friends {
			if f.Name != names[i] {
				t.Errorf("position %d: got %s, want %s", i, f.Name, names[i])
			}
			if f.Balance != 0 {
				t.Errorf("%s: expected zero balance, got %v", f.Name, f.Balance)
			}
		}
	})

	t.Run("ListFriends on empty store", func(t *testing.T) {
		store := newStore(t)
		friends, err := store.ListFriends(ctx)
		if err != nil {
			t.Fatalf("ListFriends failed: %v", err)
		}
		if len(friends) != 0 {
			t.Errorf("expected 0 friends, got %d", len(friends))
		}
	})

	t.Run("AddFriend rejects duplicate ID", func(t *testing.T) {
		store := newStore(t)
		if err := store.AddFriend(ctx, &models.Friend{ID: "dup", Name: "A", Image: "img"}); err != nil {
			t.Fatalf("AddFriend failed: %v", err)
		}
		err := store.AddFriend(ctx, &models.Friend{ID: "dup", Name: "B", Image: "img"})
		if !errors.Is(err, storage.ErrDuplicateID) {
			t.Fatalf("expected ErrDuplicateID, got %v", err)
		}
		friends, _ := store.ListFriends(ctx)
		if len(friends) != 1 {
			t.Errorf("expected 1 friend after rejected duplicate, got %d", len(friends))
		}
	})

	t.Run("AddFriend rejects non-zero balance", func(t *testing.T) {
		store := newStore(t)
		err := store.AddFriend(ctx, &models.Friend{ID: "x", Name: "A", Image: "img", Balance: 5})
		if !errors.Is(err, storage.ErrNonZeroBalance) {
			t.Fatalf("expected ErrNonZeroBalance, got %v", err)
		}
	})

	t.Run("ApplyDelta changes only the target", func(t *testing.T) {
		store := newStore(t)
		for _, id := range []string{"a", "b", "c"} {
			if err := store.AddFriend(ctx, &models.Friend{ID: id, Name: id, Image: "img"}); err != nil {
				t.Fatalf("AddFriend failed: %v", err)
			}
		}

		updated, err := store.ApplyDelta(ctx, "b", 60)
		if err != nil {
			t.Fatalf("ApplyDelta failed: %v", err)
		}
		if updated.ID != "b" || updated.Balance != 60 {
			t.Errorf("updated = %+v, want b with balance 60", updated)
		}

		updated, err = store.ApplyDelta(ctx, "b", -12.5)
		if err != nil {
			t.Fatalf("ApplyDelta failed: %v", err)
		}
		if updated.Balance != 47.5 {
			t.Errorf("balance = %v, want 47.5", updated.Balance)
		}

		friends, _ := store.ListFriends(ctx)
		want := []struct {
			id      string
			balance float64
		}{{"a", 0}, {"b", 47.5}, {"c", 0}}
		for i, w := range want {
			if friends[i].ID != w.id || friends[i].Balance != w.balance {
				t.Errorf("position %d = (%s, %v), want (%s, %v)", i, friends[i].ID, friends[i].Balance, w.id, w.balance)
			}
		}
	})

	t.Run("ApplyDelta on unknown ID", func(t *testing.T) {
		store := newStore(t)
		if err := store.AddFriend(ctx, &models.Friend{ID: "a", Name: "a", Image: "img"}); err != nil {
			t.Fatalf("AddFriend failed: %v", err)
		}

		_, err := store.ApplyDelta(ctx, "missing", 10)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		f, _ := store.GetFriend(ctx, "a")
		if f.Balance != 0 {
			t.Errorf("unrelated friend balance changed to %v", f.Balance)
		}
	})

	t.Run("GetFriend", func(t *testing.T) {
		store := newStore(t)
		orig := &models.Friend{ID: "s", Name: "Sarah", Image: "https://i.pravatar.cc/48?u=s"}
		if err := store.AddFriend(ctx, orig); err != nil {
			t.Fatalf("AddFriend failed: %v", err)
		}

		got, err := store.GetFriend(ctx, "s")
		if err != nil {
			t.Fatalf("GetFriend failed: %v", err)
		}
		if *got != *orig {
			t.Errorf("GetFriend = %+v, want %+v", got, orig)
		}

		if _, err := store.GetFriend(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("returned records are copies", func(t *testing.T) {
		store := newStore(t)
		if err := store.AddFriend(ctx, &models.Friend{ID: "a", Name: "a", Image: "img"}); err != nil {
			t.Fatalf("AddFriend failed: %v", err)
		}

		friends, _ := store.ListFriends(ctx)
		friends[0].Balance = 1000
		got, _ := store.GetFriend(ctx, "a")
		if got.Balance != 0 {
			t.Errorf("mutating a listed friend leaked into the store: balance %v", got.Balance)
		}
	})
}
