package events

import (
	"encoding/json"
	"time"

	"github.com/mmynk/eatnsplit/internal/models"
)

// Routing keys for ledger events.
const (
	TypeFriendAdded  = "friend.added"
	TypeSplitApplied = "split.applied"
)

// Event is a message published after a ledger operation succeeds.
type Event interface {
	// RoutingKey names the event type on the exchange.
	RoutingKey() string
}

// FriendAdded is published when a friend joins the registry.
type FriendAdded struct {
	FriendID  string    `json:"friend_id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// RoutingKey implements Event.
func (FriendAdded) RoutingKey() string { return TypeFriendAdded }

// SplitApplied is published when a split changes a friend's balance.
type SplitApplied struct {
	FriendID  string       `json:"friend_id"`
	Delta     float64      `json:"delta"`
	Balance   float64      `json:"balance"`
	Payer     models.Payer `json:"payer"`
	Timestamp time.Time    `json:"timestamp"`
}

// RoutingKey implements Event.
func (SplitApplied) RoutingKey() string { return TypeSplitApplied }

// NewFriendAdded builds a FriendAdded event stamped with the current time.
func NewFriendAdded(f *models.Friend) FriendAdded {
	return FriendAdded{FriendID: f.ID, Name: f.Name, Timestamp: time.Now().UTC()}
}

// NewSplitApplied builds a SplitApplied event stamped with the current time.
func NewSplitApplied(f *models.Friend, delta float64, payer models.Payer) SplitApplied {
	return SplitApplied{
		FriendID:  f.ID,
		Delta:     delta,
		Balance:   f.Balance,
		Payer:     payer,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts an event to JSON bytes.
func ToJSON(e Event) ([]byte, error) {
	return json.Marshal(e)
}
