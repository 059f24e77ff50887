// Package models defines the core domain models for eatnsplit.
//
// # Models
//
//   - Friend: a tracked party with a running balance relative to the user
//   - SplitInput: one bill to split between the user and the selected friend
//   - Payer: which party fronted the bill
//
// # Design Principles
//
// 1. **Plain data**: models carry no behavior beyond small helpers; the ledger
// rules live in the calculator and ledger packages
// 2. **IDs, not pointers**: the selection refers to a friend by ID so it never
// holds a stale copy of a balance
// 3. **Sign convention**: a positive balance means the friend owes the user, a
// negative balance means the user owes the friend
package models
