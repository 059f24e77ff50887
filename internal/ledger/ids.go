package ledger

import "github.com/google/uuid"

// IDGenerator hands out fresh friend IDs. IDs must never repeat.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() string

// NewID calls f.
func (f IDGeneratorFunc) NewID() string {
	return f()
}

// UUIDGenerator generates random (v4) UUIDs.
var UUIDGenerator IDGenerator = IDGeneratorFunc(func() string {
	return uuid.New().String()
})
