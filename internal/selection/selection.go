// Package selection tracks which friend, if any, a pending split targets.
package selection

// State is the tracker's state: either no friend (FriendID == "") or exactly one.
type State struct {
	FriendID string `json:"selected_id,omitempty"`
}

// Selected reports whether a friend is selected.
func (s State) Selected() bool {
	return s.FriendID != ""
}

// Tracker holds at most one selected friend ID.
//
// Transitions:
//
//	NONE        --Toggle(x)--> SELECTED(x)
//	SELECTED(x) --Toggle(x)--> NONE
//	SELECTED(x) --Toggle(y)--> SELECTED(y)
//	any         --Clear-----> NONE
//
// The zero value is a tracker with nothing selected.
type Tracker struct {
	current string
}

// New returns a tracker in the NONE state.
func New() *Tracker {
	return &Tracker{}
}

// Toggle selects id, or deselects it if it is already selected.
// Selecting a different friend replaces the previous selection.
func (t *Tracker) Toggle(id string) State {
	if t.current == id {
		t.current = ""
	} else {
		t.current = id
	}
	return t.State()
}

// Clear deselects whatever is selected.
func (t *Tracker) Clear() {
	t.current = ""
}

// Current returns the selected friend ID and whether one is selected.
func (t *Tracker) Current() (string, bool) {
	return t.current, t.current != ""
}

// State returns a snapshot of the tracker.
func (t *Tracker) State() State {
	return State{FriendID: t.current}
}
