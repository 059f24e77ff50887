// Package tui implements the eat-'n-split terminal user interface.
//
// Component architecture:
//
//	model.go   - root model, message routing, Init/Update
//	keys.go    - key bindings
//	theme.go   - centralized color and style definitions
//	view.go    - friend list, add form, split form, footer
//	filter.go  - fuzzy friend filter
//	ledger.go  - Ledger backends (in-process coordinator or remote server)
package tui
