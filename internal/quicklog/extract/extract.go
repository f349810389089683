// Package extract derives the editor context a log statement is built from:
// the file name, the caret line, the indentation before the caret and the
// selected or inferred text.
package extract

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dshills/quicklog/internal/engine/buffer"
)

// UnknownFile is the file name used when the host has none.
const UnknownFile = "unknown"

// Mode selects how the selection is resolved when nothing is selected.
type Mode uint8

const (
	// ModeSmart infers the word touching the caret.
	ModeSmart Mode = iota
	// ModeStrict never infers; no selection means no variable.
	ModeStrict
)

// String returns the settings name of the mode.
func (m Mode) String() string {
	if m == ModeStrict {
		return "strict"
	}
	return "smart"
}

// ParseMode parses a settings value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "smart":
		return ModeSmart, nil
	case "strict":
		return ModeStrict, nil
	default:
		return ModeSmart, fmt.Errorf("unknown selection mode %q", s)
	}
}

// Reader is the read side of a text buffer needed for extraction.
type Reader interface {
	Len() buffer.ByteOffset
	OffsetToPoint(offset buffer.ByteOffset) buffer.Point
	LineStartOffset(line uint32) buffer.ByteOffset
	TextRange(start, end buffer.ByteOffset) string
	RuneAt(offset buffer.ByteOffset) (rune, int)
	RuneBefore(offset buffer.ByteOffset) (rune, int)
}

// EditorContext is captured fresh for every action invocation.
type EditorContext struct {
	FileName    string
	LineNumber  int // 1-based line containing the caret
	Indentation string
	Selection   *string // nil when nothing is selected or inferred
}

// HasSelection reports whether a selection or inferred word is present.
func (c EditorContext) HasSelection() bool {
	return c.Selection != nil
}

// SelectionText returns the selection, or "" when there is none.
func (c EditorContext) SelectionText() string {
	if c.Selection == nil {
		return ""
	}
	return *c.Selection
}

// Extract builds the EditorContext for a caret and an optional selection.
// An empty sel means no selection. Offsets outside the buffer are clamped.
func Extract(buf Reader, caret buffer.ByteOffset, sel buffer.Range, mode Mode, fileName string) EditorContext {
	n := buf.Len()
	caret = clamp(caret, n)

	line := buf.OffsetToPoint(caret).Line
	lineStart := buf.LineStartOffset(line)

	ctx := EditorContext{
		FileName:    fileName,
		LineNumber:  int(line) + 1,
		Indentation: leadingWhitespace(buf.TextRange(lineStart, caret)),
	}
	if ctx.FileName == "" {
		ctx.FileName = UnknownFile
	}

	start, end := clamp(sel.Start, n), clamp(sel.End, n)
	if start > end {
		start, end = end, start
	}
	if start < end {
		text := buf.TextRange(start, end)
		ctx.Selection = &text
		return ctx
	}

	if mode == ModeSmart {
		if word, ok := WordAt(buf, caret); ok {
			ctx.Selection = &word
		}
	}
	return ctx
}

// WordAt returns the run of word characters touching offset. A caret
// between two non-word characters has no word.
func WordAt(buf Reader, offset buffer.ByteOffset) (string, bool) {
	offset = clamp(offset, buf.Len())

	start := offset
	for start > 0 {
		r, size := buf.RuneBefore(start)
		if size == 0 || !IsWordRune(r) {
			break
		}
		start -= buffer.ByteOffset(size)
	}

	end := offset
	for end < buf.Len() {
		r, size := buf.RuneAt(end)
		if size == 0 || !IsWordRune(r) {
			break
		}
		end += buffer.ByteOffset(size)
	}

	if start == end {
		return "", false
	}
	return buf.TextRange(start, end), true
}

// IsWordRune reports whether r belongs to an identifier-like word.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
}

func leadingWhitespace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[:i]
}

func clamp(offset, n buffer.ByteOffset) buffer.ByteOffset {
	if offset < 0 {
		return 0
	}
	if offset > n {
		return n
	}
	return offset
}
