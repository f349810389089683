package engine

import (
	"fmt"
	"io"
	"sync"

	"github.com/dshills/quicklog/internal/engine/buffer"
	"github.com/dshills/quicklog/internal/engine/cursor"
	"github.com/dshills/quicklog/internal/engine/history"
)

// Re-export commonly used types for convenience.
type (
	ByteOffset = buffer.ByteOffset
	Point      = buffer.Point
	Range      = buffer.Range
	Edit       = buffer.Edit
	EditResult = buffer.EditResult
	Selection  = cursor.Selection
	LineEnding = buffer.LineEnding
	RevisionID = buffer.RevisionID
	Command    = history.Command
)

// Re-export constants.
const (
	LineEndingLF   = buffer.LineEndingLF
	LineEndingCRLF = buffer.LineEndingCRLF
)

// Engine combines a buffer, a cursor set and undo history behind one
// thread-safe API.
type Engine struct {
	mu sync.RWMutex

	buf     *buffer.Buffer
	cursors *cursor.CursorSet
	history *history.History

	tabWidth       int
	lineEnding     buffer.LineEnding
	maxUndoEntries int
	readOnly       bool

	initContent string
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		tabWidth:       DefaultTabWidth,
		lineEnding:     buffer.LineEndingLF,
		maxUndoEntries: DefaultMaxUndoEntries,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) bufferOptions() []buffer.Option {
	return []buffer.Option{
		buffer.WithTabWidth(e.tabWidth),
		buffer.WithLineEnding(e.lineEnding),
	}
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := newEngine(opts)
	e.buf = buffer.NewBufferFromString(e.initContent, e.bufferOptions()...)
	e.cursors = cursor.NewCursorSetAt(0)
	e.history = history.NewHistory(e.maxUndoEntries)
	return e
}

// NewFromReader creates an Engine from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	e := newEngine(opts)
	buf, err := buffer.NewBufferFromReader(r, e.bufferOptions()...)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	e.buf = buf
	e.cursors = cursor.NewCursorSetAt(0)
	e.history = history.NewHistory(e.maxUndoEntries)
	return e, nil
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full buffer content.
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Text()
}

// TextRange returns text in the given byte range.
func (e *Engine) TextRange(start, end ByteOffset) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.TextRange(start, end)
}

// Len returns the total byte length.
func (e *Engine) Len() ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Len()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() uint32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineCount()
}

// LineText returns the text of a specific line (without newline).
func (e *Engine) LineText(line uint32) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineText(line)
}

// RuneAt returns the rune starting at offset.
func (e *Engine) RuneAt(offset ByteOffset) (rune, int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.RuneAt(offset)
}

// RuneBefore returns the rune ending at offset.
func (e *Engine) RuneBefore(offset ByteOffset) (rune, int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.RuneBefore(offset)
}

// OffsetToPoint converts a byte offset to line/column.
func (e *Engine) OffsetToPoint(offset ByteOffset) Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.OffsetToPoint(offset)
}

// PointToOffset converts line/column to a byte offset.
func (e *Engine) PointToOffset(point Point) ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.PointToOffset(point)
}

// LineStartOffset returns the offset of the start of a line.
func (e *Engine) LineStartOffset(line uint32) ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineStartOffset(line)
}

// LineEndOffset returns the offset of the end of a line (before newline).
func (e *Engine) LineEndOffset(line uint32) ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineEndOffset(line)
}

// TabWidth returns the configured tab width.
func (e *Engine) TabWidth() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.TabWidth()
}

// LineEnding returns the buffer's line ending style.
func (e *Engine) LineEnding() LineEnding {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineEnding()
}

// RevisionID returns the current buffer revision.
func (e *Engine) RevisionID() RevisionID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.RevisionID()
}

// Snapshot returns an immutable view of the buffer.
func (e *Engine) Snapshot() *buffer.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Snapshot()
}

// ============================================================================
// Write Operations
// ============================================================================

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (e *Engine) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	res, err := e.ApplyEdit(buffer.NewInsert(offset, text))
	if err != nil {
		return 0, err
	}
	return res.NewRange.End, nil
}

// Delete removes text in the given range.
func (e *Engine) Delete(start, end ByteOffset) error {
	_, err := e.ApplyEdit(buffer.NewDelete(start, end))
	return err
}

// Replace replaces text in the given range.
// Returns the end position of the replacement text.
func (e *Engine) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	res, err := e.ApplyEdit(buffer.NewEdit(buffer.NewRange(start, end), text))
	if err != nil {
		return 0, err
	}
	return res.NewRange.End, nil
}

// ApplyEdit applies one edit, transforms cursors and records it for undo.
func (e *Engine) ApplyEdit(edit Edit) (EditResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return EditResult{}, ErrReadOnly
	}

	cursorsBefore := e.cursors.All()
	res, err := e.buf.ApplyEdit(edit)
	if err != nil {
		return EditResult{}, err
	}
	cursor.TransformCursorSet(e.cursors, edit)

	e.history.Push(&history.AppliedEdit{
		Result:        res,
		NewText:       e.buf.TextRange(res.NewRange.Start, res.NewRange.End),
		CursorsBefore: cursorsBefore,
		CursorsAfter:  e.cursors.All(),
	})
	return res, nil
}

// ApplyEdits applies a batch of edits, highest offset first, as one undo
// entry.
func (e *Engine) ApplyEdits(name string, edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	return e.history.Execute(history.NewEditCommand(name, edits...), e.buf, e.cursors)
}

// ============================================================================
// Undo/Redo Operations
// ============================================================================

// Undo undoes the last operation.
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	return e.history.Undo(e.buf, e.cursors)
}

// Redo redoes the last undone operation.
func (e *Engine) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	return e.history.Redo(e.buf, e.cursors)
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// UndoCount returns the number of undo entries.
func (e *Engine) UndoCount() int {
	return e.history.UndoCount()
}

// Transaction runs fn as one undo unit. Edits made through the engine
// inside fn are rolled back if fn returns an error.
func (e *Engine) Transaction(name string, fn func() error) error {
	if e.readOnly {
		return ErrReadOnly
	}

	e.history.BeginGroup(name)
	if err := fn(); err != nil {
		e.mu.Lock()
		rbErr := e.history.RollbackGroup(e.buf, e.cursors)
		e.mu.Unlock()
		if rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	e.history.EndGroup()
	return nil
}

// ClearHistory removes all undo/redo history.
func (e *Engine) ClearHistory() {
	e.history.Clear()
}

// ============================================================================
// Cursor Operations
// ============================================================================

// Selections returns a copy of all selections.
func (e *Engine) Selections() []Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.All()
}

// PrimaryCursor returns the head of the primary selection.
func (e *Engine) PrimaryCursor() ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.PrimaryCursor()
}

// PrimarySelection returns the primary selection.
func (e *Engine) PrimarySelection() Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.Primary()
}

// SetPrimaryCursor collapses the cursors to a single caret.
func (e *Engine) SetPrimaryCursor(offset ByteOffset) {
	e.SetPrimarySelection(cursor.NewCursorSelection(offset))
}

// SetPrimarySelection replaces the cursors with a single selection.
func (e *Engine) SetPrimarySelection(sel Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursors.Set(sel.Clamp(e.buf.Len()))
}

// SetCarets replaces the cursors with one caret per offset.
func (e *Engine) SetCarets(offsets []ByteOffset) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sels := make([]Selection, len(offsets))
	for i, off := range offsets {
		sels[i] = cursor.NewCursorSelection(off)
	}
	e.cursors.SetAll(sels)
	e.cursors.Clamp(e.buf.Len())
}

// CursorCount returns the number of cursors.
func (e *Engine) CursorCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.Count()
}

// ClearSecondary removes all cursors except the primary.
func (e *Engine) ClearSecondary() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursors.Clear()
}
