package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/eatnsplit/internal/models"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		friend    models.Friend
		wantState BalanceState
		wantText  string
	}{
		{models.Friend{Name: "Clark", Balance: -7}, UserOwes, "You owe Clark 7"},
		{models.Friend{Name: "Sarah", Balance: 20}, FriendOwes, "Sarah owes you 20"},
		{models.Friend{Name: "Anthony"}, Even, "Anthony and you are even"},
		{models.Friend{Name: "Dana", Balance: 12.5}, FriendOwes, "Dana owes you 12.50"},
	}

	for _, tt := range tests {
		t.Run(tt.wantText, func(t *testing.T) {
			state, text := Status(tt.friend)
			if state != tt.wantState {
				t.Errorf("state = %v, want %v", state, tt.wantState)
			}
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	friends := []*models.Friend{
		{Name: "Clark", Balance: -7},
		{Name: "Sarah", Balance: 20},
		{Name: "Anthony", Balance: 0},
		{Name: "Dana", Balance: 5.5},
		nil,
	}

	s := Summarize(friends)

	if math.Abs(s.TotalOwed-25.5) > 0.01 {
		t.Errorf("TotalOwed = %v, want 25.5", s.TotalOwed)
	}
	if math.Abs(s.TotalOwing-7) > 0.01 {
		t.Errorf("TotalOwing = %v, want 7", s.TotalOwing)
	}
	if math.Abs(s.Net-18.5) > 0.01 {
		t.Errorf("Net = %v, want 18.5", s.Net)
	}
	if s.Settled != 1 {
		t.Errorf("Settled = %d, want 1", s.Settled)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v, want zero summary", s)
	}
}
