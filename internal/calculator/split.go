package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/mmynk/eatnsplit/internal/models"
)

var (
	// ErrValidationIncomplete is returned when the bill total or the user's
	// expense is missing. Nothing is computed and no state changes.
	ErrValidationIncomplete = errors.New("bill total and your expense are required")
	// ErrInvalidAmount is returned for negative or non-finite amounts, and for
	// a split that would push a balance out of range.
	ErrInvalidAmount = errors.New("amounts must be finite and not negative")
	// ErrExpenseExceedsBill is returned when the user's expense is larger than the bill.
	ErrExpenseExceedsBill = errors.New("your expense cannot exceed the bill total")
	// ErrInvalidPayer is returned for a payer other than user or friend.
	ErrInvalidPayer = errors.New("payer must be user or friend")
)

// FriendExpense is the friend's part of the bill: whatever the user did not consume.
// It is always derived from the raw inputs and never stored.
func FriendExpense(billTotal, userExpense float64) float64 {
	return billTotal - userExpense
}

// ComputeDelta returns the change to apply to the selected friend's balance.
//
// Algorithm:
// - friend_expense = bill_total - user_expense
// - user paid: the friend owes the user their expense, delta = +friend_expense
// - friend paid: the user owes the friend their expense, delta = -friend_expense
//
// Inputs are expected to have passed Validate.
func ComputeDelta(billTotal, userExpense float64, payer models.Payer) float64 {
	friendExpense := FriendExpense(billTotal, userExpense)
	if payer == models.PayerFriend {
		return -friendExpense
	}
	return friendExpense
}

// Validate checks a split before anything is computed and returns the
// resolved amounts.
func Validate(in models.SplitInput) (billTotal, userExpense float64, err error) {
	if in.BillTotal == nil || in.UserExpense == nil {
		return 0, 0, ErrValidationIncomplete
	}
	billTotal, userExpense = *in.BillTotal, *in.UserExpense

	if !isFinite(billTotal) || !isFinite(userExpense) {
		return 0, 0, fmt.Errorf("%w: amounts must be finite", ErrInvalidAmount)
	}
	if billTotal < 0 || userExpense < 0 {
		return 0, 0, ErrInvalidAmount
	}
	if userExpense > billTotal {
		return 0, 0, fmt.Errorf("%w: %.2f > %.2f", ErrExpenseExceedsBill, userExpense, billTotal)
	}
	if !in.Payer.Valid() {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidPayer, in.Payer)
	}
	return billTotal, userExpense, nil
}

// ClampExpense applies the split form's rule for the "your expense" field:
// a value larger than the bill is ignored and the previous value is kept.
// No error is surfaced; the field simply refuses the overshoot.
// accepted reports whether attempted was taken, which is not the same as the
// returned value matching it when previous already exceeds the bill.
func ClampExpense(previous, attempted, billTotal float64) (value float64, accepted bool) {
	if attempted > billTotal {
		return previous, false
	}
	return attempted, true
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// BalanceAfter returns balance+delta, or ErrInvalidAmount if the result
// is not a finite number.
func BalanceAfter(balance, delta float64) (float64, error) {
	next := balance + delta
	if !isFinite(next) {
		return 0, fmt.Errorf("%w: balance %v%+v is out of range", ErrInvalidAmount, balance, delta)
	}
	return next, nil
}
