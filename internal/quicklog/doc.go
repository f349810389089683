// Package quicklog implements the two editor actions of QuickLog:
// inserting a formatted log statement next to the caret, and removing
// every previously inserted statement from a buffer.
//
// The host editor is reached through small ports (TextBuffer,
// CaretSession, Transactor, InteractiveEditSession, Prompter) so the
// same actions run against the in-memory engine, the terminal host and
// the Lua API.
package quicklog
