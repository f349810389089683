package quicklog

import (
	"github.com/dshills/quicklog/internal/engine/buffer"
	"github.com/dshills/quicklog/internal/engine/cursor"
	"github.com/dshills/quicklog/internal/quicklog/placement"
)

// TextBuffer is the document an action reads and edits.
type TextBuffer interface {
	Len() buffer.ByteOffset
	LineCount() uint32
	LineText(line uint32) string
	LineStartOffset(line uint32) buffer.ByteOffset
	LineEndOffset(line uint32) buffer.ByteOffset
	OffsetToPoint(offset buffer.ByteOffset) buffer.Point
	TextRange(start, end buffer.ByteOffset) string
	RuneAt(offset buffer.ByteOffset) (rune, int)
	RuneBefore(offset buffer.ByteOffset) (rune, int)

	Insert(offset buffer.ByteOffset, text string) (buffer.ByteOffset, error)
	Delete(start, end buffer.ByteOffset) error
}

// CaretSession exposes the primary caret and selection.
type CaretSession interface {
	PrimarySelection() cursor.Selection
	SetPrimaryCursor(offset buffer.ByteOffset)
	SetPrimarySelection(sel cursor.Selection)
}

// MultiCaretSession is implemented by hosts that support several carets.
// Hosts without it receive a single collapsed caret.
type MultiCaretSession interface {
	SetCarets(offsets []buffer.ByteOffset)
}

// Transactor runs fn as one undoable step. When fn fails every edit it
// made is rolled back.
type Transactor interface {
	Transaction(name string, fn func() error) error
}

// InteractiveEditSession starts a tab-stop session over a plan that is
// already inserted into the buffer.
type InteractiveEditSession interface {
	Begin(plan placement.AnchoredPlan) error
}

// Prompter shows notices and yes/no questions.
type Prompter interface {
	Notify(title, message string)
	Confirm(title, message string) bool
}

// Editor bundles the ports of one editor. Buffer and Carets are required.
// Tx defaults to running fn directly; Session is optional and without it
// tab-stop plans leave the caret on the primary slot.
type Editor struct {
	FileName string
	Buffer   TextBuffer
	Carets   CaretSession
	Tx       Transactor
	Session  InteractiveEditSession
}

func (e Editor) valid() bool {
	return e.Buffer != nil && e.Carets != nil
}

func (e Editor) transaction(name string, fn func() error) error {
	if e.Tx == nil {
		return fn()
	}
	return e.Tx.Transaction(name, fn)
}

// Logger is the logging surface the actions use.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
