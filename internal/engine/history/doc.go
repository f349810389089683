// Package history provides undo/redo for the text engine.
//
// Edits are encapsulated as Commands with Execute and Undo. EditCommand
// applies a reverse-ordered batch of buffer edits, AppliedEdit records an
// edit made directly on the buffer, and CompoundCommand bundles several
// commands as one undo unit.
//
// Grouping:
//
//	h.BeginGroup("Delete logs")
//	// ... push commands ...
//	h.EndGroup() // one undo entry
//
// Transaction wraps a function in a group and rolls the group back when
// the function returns an error, giving all-or-nothing multi-step edits.
package history
