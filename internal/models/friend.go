package models

// Friend is one entry of the friend registry.
type Friend struct {
	// ID is the unique identifier for the friend (UUID format).
	// It never changes and is never reused.
	ID string `json:"id"`

	// Name is the display name of the friend.
	Name string `json:"name"`

	// Image is the avatar reference (URL) shown next to the friend.
	Image string `json:"image"`

	// Balance is the net amount owed between the user and this friend.
	// Positive = the friend owes the user, negative = the user owes the friend,
	// zero = settled. New friends always start at zero.
	Balance float64 `json:"balance"`
}

// Clone returns a copy that callers can hand out without exposing registry state.
func (f *Friend) Clone() *Friend {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}
