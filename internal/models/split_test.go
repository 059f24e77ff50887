package models

import "testing"

func TestParsePayer(t *testing.T) {
	tests := []struct {
		in      string
		want    Payer
		wantErr bool
	}{
		{"", PayerUser, false},
		{"user", PayerUser, false},
		{"friend", PayerFriend, false},
		{"FRIEND", "", true},
		{"bob", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePayer(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePayer(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePayer(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFriendClone(t *testing.T) {
	f := &Friend{ID: "1", Name: "Sarah", Balance: 20}
	c := f.Clone()
	c.Balance = 99

	if f.Balance != 20 {
		t.Errorf("original balance changed to %v", f.Balance)
	}

	var nilFriend *Friend
	if nilFriend.Clone() != nil {
		t.Error("Clone of nil friend should be nil")
	}
}
