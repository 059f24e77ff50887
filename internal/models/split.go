package models

import "fmt"

// Payer identifies who fronted the whole bill.
type Payer string

const (
	// PayerUser means the user paid the bill; the friend now owes their share.
	PayerUser Payer = "user"
	// PayerFriend means the selected friend paid; the user now owes their share.
	PayerFriend Payer = "friend"
)

// ParsePayer converts a wire value into a Payer.
// An empty string defaults to PayerUser, matching the split form's default.
func ParsePayer(s string) (Payer, error) {
	switch Payer(s) {
	case "", PayerUser:
		return PayerUser, nil
	case PayerFriend:
		return PayerFriend, nil
	default:
		return "", fmt.Errorf("unknown payer %q", s)
	}
}

// Valid reports whether p is one of the known payers.
func (p Payer) Valid() bool {
	return p == PayerUser || p == PayerFriend
}

// SplitInput is one bill to divide between the user and the selected friend.
// It is transient: built by the presentation layer and consumed by a single
// SubmitSplit call.
type SplitInput struct {
	// BillTotal is the whole bill. Nil means the field was left empty.
	BillTotal *float64

	// UserExpense is the user's own share of the bill. Nil means the field was
	// left empty. It must never exceed BillTotal.
	UserExpense *float64

	// Payer is who paid the bill up front.
	Payer Payer
}

// NewSplitInput builds a SplitInput with both amounts present.
func NewSplitInput(billTotal, userExpense float64, payer Payer) SplitInput {
	return SplitInput{
		BillTotal:   &billTotal,
		UserExpense: &userExpense,
		Payer:       payer,
	}
}
