package calculator

import (
	"fmt"
	"math"

	"github.com/mmynk/eatnsplit/internal/models"
)

// BalanceState classifies a single friend's balance.
type BalanceState int

const (
	// Even means nobody owes anything.
	Even BalanceState = iota
	// FriendOwes means the friend owes the user (positive balance).
	FriendOwes
	// UserOwes means the user owes the friend (negative balance).
	UserOwes
)

// Summary aggregates the registry into totals for display.
type Summary struct {
	TotalOwed  float64 `json:"total_owed"`  // Sum of positive balances: friends owe the user
	TotalOwing float64 `json:"total_owing"` // Sum of negative balances, as a positive amount
	Net        float64 `json:"net"`         // TotalOwed - TotalOwing
	Settled    int     `json:"settled"`     // Friends with a zero balance
}

// Status classifies a friend's balance and renders the line shown under their name.
func Status(f models.Friend) (BalanceState, string) {
	switch {
	case f.Balance < 0:
		return UserOwes, fmt.Sprintf("You owe %s %s", f.Name, FormatAmount(math.Abs(f.Balance)))
	case f.Balance > 0:
		return FriendOwes, fmt.Sprintf("%s owes you %s", f.Name, FormatAmount(f.Balance))
	default:
		return Even, fmt.Sprintf("%s and you are even", f.Name)
	}
}

// Summarize computes totals across all friends.
//
// Algorithm:
// - positive balance: added to total_owed
// - negative balance: absolute value added to total_owing
// - zero balance: counted as settled
// - net = total_owed - total_owing
func Summarize(friends []*models.Friend) Summary {
	var s Summary
	for _, f := range friends {
		if f == nil {
			continue
		}
		switch {
		case f.Balance > 0:
			s.TotalOwed += f.Balance
		case f.Balance < 0:
			s.TotalOwing += -f.Balance
		default:
			s.Settled++
		}
	}
	s.Net = s.TotalOwed - s.TotalOwing
	return s
}

// FormatAmount prints whole amounts without decimals and everything else with two.
func FormatAmount(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
