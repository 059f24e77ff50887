package ledger

import (
	"context"
	"fmt"
)

// DefaultImage is the avatar service used when the user does not pick an image.
const DefaultImage = "https://i.pravatar.cc/48"

// SeedFriend describes a friend to preload, with an opening balance.
type SeedFriend struct {
	Name    string
	Image   string
	Balance float64
}

// DemoFriends is the starter roster shown on first launch.
var DemoFriends = []SeedFriend{
	{Name: "Clark", Image: DefaultImage, Balance: -7},
	{Name: "Sarah", Image: DefaultImage, Balance: 20},
	{Name: "Anthony", Image: DefaultImage, Balance: 0},
}

// Seed adds each friend and then applies its opening balance as a delta,
// so every friend still starts at zero in the registry.
// The selection is not touched.
func (c *Coordinator) Seed(ctx context.Context, seeds []SeedFriend) error {
	for _, s := range seeds {
		friend, err := c.AddFriend(ctx, s.Name, s.Image)
		if err != nil {
			return fmt.Errorf("failed to seed %s: %w", s.Name, err)
		}
		if s.Balance == 0 {
			continue
		}

		c.mu.Lock()
		_, err = c.store.ApplyDelta(ctx, friend.ID, s.Balance)
		c.mu.Unlock()
		if err != nil {
			return fmt.Errorf("failed to seed balance for %s: %w", s.Name, err)
		}
	}
	return nil
}

// DemoRoster returns DemoFriends with image as every friend's avatar.
func DemoRoster(image string) []SeedFriend {
	roster := make([]SeedFriend, len(DemoFriends))
	for i, f := range DemoFriends {
		f.Image = image
		roster[i] = f
	}
	return roster
}
