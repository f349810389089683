// Package cursor provides selections and multi-caret sets.
//
// Selections use an anchor/head model: the anchor is where the selection
// started and the head is where typing occurs. A CursorSet keeps its
// selections sorted and merges overlapping ones; the first entry is the
// primary caret.
//
// Selections are value types. CursorSet is not safe for concurrent use and
// is guarded by the engine that owns it.
package cursor
