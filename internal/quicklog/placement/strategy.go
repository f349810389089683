package placement

import (
	"fmt"
	"strings"
)

// InsertionStrategy selects where the statement block goes.
type InsertionStrategy uint8

const (
	// InsertLineEnd appends "\n"+statement at the end of the caret line.
	InsertLineEnd InsertionStrategy = iota
	// InsertNextLine inserts statement+"\n" at the start of the following
	// line. On the last line it behaves like InsertLineEnd.
	InsertNextLine
)

// String returns the settings name of the strategy.
func (s InsertionStrategy) String() string {
	if s == InsertNextLine {
		return "next-line"
	}
	return "line-end"
}

// ParseInsertion parses a settings value into an InsertionStrategy.
func ParseInsertion(s string) (InsertionStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "line-end":
		return InsertLineEnd, nil
	case "next-line":
		return InsertNextLine, nil
	default:
		return InsertLineEnd, fmt.Errorf("unknown insertion strategy %q", s)
	}
}

// NoSelectionStrategy selects how a statement is placed when there is no
// selection to log. Exactly one is active per configuration.
type NoSelectionStrategy uint8

const (
	// NoSelectionTemplate starts an interactive tab-stop session.
	NoSelectionTemplate NoSelectionStrategy = iota
	// NoSelectionMulticaret places two carets at the fill-in positions.
	NoSelectionMulticaret
	// NoSelectionPlaceholder inserts Placeholder and selects it.
	NoSelectionPlaceholder
)

// String returns the settings name of the strategy.
func (s NoSelectionStrategy) String() string {
	switch s {
	case NoSelectionMulticaret:
		return "multicaret"
	case NoSelectionPlaceholder:
		return "placeholder"
	default:
		return "template"
	}
}

// ParseNoSelection parses a settings value into a NoSelectionStrategy.
func ParseNoSelection(s string) (NoSelectionStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "template":
		return NoSelectionTemplate, nil
	case "multicaret":
		return NoSelectionMulticaret, nil
	case "placeholder":
		return NoSelectionPlaceholder, nil
	default:
		return NoSelectionTemplate, fmt.Errorf("unknown no-selection strategy %q", s)
	}
}
