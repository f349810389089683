package buffer

import (
	"sort"
	"unicode/utf8"
)

// Snapshot is a read-only view of a buffer at one revision.
// It never changes after creation and may be shared between goroutines.
type Snapshot struct {
	text       string
	lineStarts []ByteOffset
	revisionID RevisionID
	lineEnding LineEnding
	tabWidth   int
}

// Text returns the full snapshot content.
func (s *Snapshot) Text() string {
	return s.text
}

// TextRange returns text in the given byte range, clamped to the snapshot.
func (s *Snapshot) TextRange(start, end ByteOffset) string {
	start, end = s.clamp(start), s.clamp(end)
	if start >= end {
		return ""
	}
	return s.text[start:end]
}

// Len returns the total byte length of the snapshot.
func (s *Snapshot) Len() ByteOffset {
	return ByteOffset(len(s.text))
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() uint32 {
	return uint32(len(s.lineStarts))
}

// LineText returns the text of a specific line (without newline).
func (s *Snapshot) LineText(line uint32) string {
	if int(line) >= len(s.lineStarts) {
		return ""
	}
	return s.text[s.lineStarts[line]:s.LineEndOffset(line)]
}

// LineStartOffset returns the byte offset of the start of a line.
func (s *Snapshot) LineStartOffset(line uint32) ByteOffset {
	if int(line) >= len(s.lineStarts) {
		return ByteOffset(len(s.text))
	}
	return s.lineStarts[line]
}

// LineEndOffset returns the byte offset of the end of a line (before newline).
func (s *Snapshot) LineEndOffset(line uint32) ByteOffset {
	if int(line)+1 >= len(s.lineStarts) {
		return ByteOffset(len(s.text))
	}
	end := s.lineStarts[line+1] - 1
	if s.lineEnding == LineEndingCRLF && end > s.lineStarts[line] && s.text[end-1] == '\r' {
		end--
	}
	return end
}

// RuneAt returns the rune at the given byte offset.
// Returns utf8.RuneError and size 0 if offset is out of range.
func (s *Snapshot) RuneAt(offset ByteOffset) (rune, int) {
	if offset < 0 || offset >= ByteOffset(len(s.text)) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(s.text[offset:])
}

// RuneBefore returns the rune ending at the given byte offset.
func (s *Snapshot) RuneBefore(offset ByteOffset) (rune, int) {
	if offset <= 0 || offset > ByteOffset(len(s.text)) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeLastRuneInString(s.text[:offset])
}

// LineAt returns the zero-based line containing offset.
func (s *Snapshot) LineAt(offset ByteOffset) uint32 {
	offset = s.clamp(offset)
	i := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > offset
	})
	return uint32(i - 1)
}

// OffsetToPoint converts a byte offset to line/column.
func (s *Snapshot) OffsetToPoint(offset ByteOffset) Point {
	offset = s.clamp(offset)
	line := s.LineAt(offset)
	return Point{Line: line, Column: uint32(offset - s.lineStarts[line])}
}

// RevisionID returns the snapshot's revision ID.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// TabWidth returns the tab width of the buffer at snapshot time.
func (s *Snapshot) TabWidth() int {
	return s.tabWidth
}

func (s *Snapshot) clamp(offset ByteOffset) ByteOffset {
	if offset < 0 {
		return 0
	}
	if n := ByteOffset(len(s.text)); offset > n {
		return n
	}
	return offset
}
