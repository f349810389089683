// Package cleanup finds and removes generated log statements.
//
// Recognition is lexical: a line matches when it contains the call name,
// an opening parenthesis and a single-quoted string with ":<digits>" then
// optional whitespace then "|". Matches inside comments or strings count
// too.
package cleanup

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dshills/quicklog/internal/engine/buffer"
)

// DefaultCallName is the logging call generated by the default template.
const DefaultCallName = "console.log"

// ErrLineOutOfRange is returned when a DeletionSet names a missing line.
var ErrLineOutOfRange = errors.New("deletion line out of range")

// Reader is the read side of a buffer needed for scanning.
type Reader interface {
	LineCount() uint32
	LineText(line uint32) string
}

// Editor is the buffer surface needed to delete lines.
type Editor interface {
	LineCount() uint32
	LineStartOffset(line uint32) buffer.ByteOffset
	LineEndOffset(line uint32) buffer.ByteOffset
	Delete(start, end buffer.ByteOffset) error
}

// DeletionSet holds zero-based line indices in ascending order.
type DeletionSet []int

// Len returns the number of lines in the set.
func (d DeletionSet) Len() int { return len(d) }

// IsEmpty reports whether there is nothing to delete.
func (d DeletionSet) IsEmpty() bool { return len(d) == 0 }

// Descending returns the lines highest first, the order deletions are
// applied in.
func (d DeletionSet) Descending() []int {
	out := make([]int, len(d))
	for i, line := range d {
		out[len(d)-1-i] = line
	}
	return out
}

// OneBased returns the lines as 1-based line numbers.
func (d DeletionSet) OneBased() []int {
	out := make([]int, len(d))
	for i, line := range d {
		out[i] = line + 1
	}
	return out
}

// Scanner matches generated log statements.
type Scanner struct {
	callName string
	re       *regexp.Regexp
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithCallName matches a logging call other than console.log.
func WithCallName(name string) Option {
	return func(s *Scanner) {
		if name != "" {
			s.callName = name
		}
	}
}

// NewScanner creates a Scanner.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{callName: DefaultCallName}
	for _, opt := range opts {
		opt(s)
	}
	s.re = regexp.MustCompile(regexp.QuoteMeta(s.callName) + `\('[^']*:\d+\s*\|`)
	return s
}

// Pattern returns the regular expression source.
func (s *Scanner) Pattern() string {
	return s.re.String()
}

// Matches reports whether line carries the generated-log signature.
func (s *Scanner) Matches(line string) bool {
	return s.re.MatchString(line)
}

// Scan returns the matching lines of buf in ascending order.
func (s *Scanner) Scan(buf Reader) DeletionSet {
	var set DeletionSet
	n := buf.LineCount()
	for i := uint32(0); i < n; i++ {
		if s.Matches(buf.LineText(i)) {
			set = append(set, int(i))
		}
	}
	return set
}

// ScanText scans a plain string.
func (s *Scanner) ScanText(text string) DeletionSet {
	var set DeletionSet
	for i, line := range strings.Split(text, "\n") {
		if s.Matches(strings.TrimSuffix(line, "\r")) {
			set = append(set, i)
		}
	}
	return set
}

var defaultScanner = NewScanner()

// Scan scans buf with the default scanner.
func Scan(buf Reader) DeletionSet {
	return defaultScanner.Scan(buf)
}

// LineRange returns the byte range removed when deleting line: the line
// and its trailing break, or for the final line the previous line's break
// and the line itself.
func LineRange(buf Editor, line uint32) buffer.Range {
	last := buf.LineCount() - 1
	if line < last {
		return buffer.NewRange(buf.LineStartOffset(line), buf.LineStartOffset(line+1))
	}
	if line > 0 {
		return buffer.NewRange(buf.LineEndOffset(line-1), buf.LineEndOffset(line))
	}
	return buffer.NewRange(buf.LineStartOffset(line), buf.LineEndOffset(line))
}

// Apply deletes every line in set, highest first. The set is validated
// before anything is deleted.
func Apply(buf Editor, set DeletionSet) error {
	if set.IsEmpty() {
		return nil
	}
	if !sort.IntsAreSorted(set) {
		sorted := append(DeletionSet(nil), set...)
		sort.Ints(sorted)
		set = sorted
	}
	n := int(buf.LineCount())
	if set[0] < 0 || set[len(set)-1] >= n {
		return fmt.Errorf("%w: %v of %d lines", ErrLineOutOfRange, set, n)
	}

	for _, line := range set.Descending() {
		r := LineRange(buf, uint32(line))
		if err := buf.Delete(r.Start, r.End); err != nil {
			return fmt.Errorf("delete line %d: %w", line+1, err)
		}
	}
	return nil
}

// Preview returns text as it would read after deleting set.
func Preview(text string, set DeletionSet) (string, error) {
	buf := buffer.NewBufferFromString(text, buffer.WithDetectedLineEnding(text))
	if err := Apply(buf, set); err != nil {
		return "", err
	}
	return buf.Text(), nil
}
