package history

import (
	"fmt"

	"github.com/dshills/quicklog/internal/engine/buffer"
	"github.com/dshills/quicklog/internal/engine/cursor"
)

// Type aliases for convenience.
type (
	ByteOffset = buffer.ByteOffset
	Range      = buffer.Range
	Selection  = cursor.Selection
)

// Command represents a composable edit action that can be executed and undone.
type Command interface {
	// Execute performs the command and returns an error if it fails.
	Execute(buf *buffer.Buffer, cursors *cursor.CursorSet) error

	// Undo reverses the command and returns an error if it fails.
	Undo(buf *buffer.Buffer, cursors *cursor.CursorSet) error

	// Description returns a human-readable description of the command.
	Description() string
}

// EditCommand applies one or more edits, highest offset first.
// Cursors are transformed across the edits unless CursorsAfter is set.
type EditCommand struct {
	Name         string
	Edits        []buffer.Edit
	CursorsAfter []Selection

	results       []buffer.EditResult
	cursorsBefore []Selection
	cursorsAfter  []Selection
}

// NewEditCommand creates an edit command. Edits must not overlap and
// must be ordered from the highest offset to the lowest.
func NewEditCommand(name string, edits ...buffer.Edit) *EditCommand {
	return &EditCommand{Name: name, Edits: edits}
}

// Execute applies the edits in order.
// On failure the edits already applied are reverted.
func (c *EditCommand) Execute(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	for i := 1; i < len(c.Edits); i++ {
		if c.Edits[i].Range.End > c.Edits[i-1].Range.Start {
			return buffer.ErrEditsOverlap
		}
	}

	c.cursorsBefore = cursors.All()
	c.results = c.results[:0]

	for _, edit := range c.Edits {
		res, err := buf.ApplyEdit(edit)
		if err != nil {
			c.revert(buf)
			return fmt.Errorf("%s at %s: %w", c.Description(), edit.Range, err)
		}
		c.results = append(c.results, res)
	}

	if c.CursorsAfter != nil {
		cursors.SetAll(c.CursorsAfter)
	} else {
		for _, edit := range c.Edits {
			cursor.TransformCursorSet(cursors, edit)
		}
	}
	c.cursorsAfter = cursors.All()
	return nil
}

// Undo restores the replaced text and the cursors seen before Execute.
func (c *EditCommand) Undo(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	if err := c.revert(buf); err != nil {
		return fmt.Errorf("undo %s: %w", c.Description(), err)
	}
	cursors.SetAll(c.cursorsBefore)
	return nil
}

// revert applies inverse edits lowest offset first, which is the reverse
// of application order.
func (c *EditCommand) revert(buf *buffer.Buffer) error {
	for i := len(c.results) - 1; i >= 0; i-- {
		if _, err := buf.ApplyEdit(c.results[i].Inverse()); err != nil {
			return err
		}
	}
	c.results = c.results[:0]
	return nil
}

// Description returns a human-readable description.
func (c *EditCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Edits) == 1 {
		return c.Edits[0].String()
	}
	return fmt.Sprintf("%d edits", len(c.Edits))
}

// AppliedEdit records an edit that was already applied to the buffer,
// for hosts that mutate first and record afterwards.
type AppliedEdit struct {
	Result        buffer.EditResult
	NewText       string
	CursorsBefore []Selection
	CursorsAfter  []Selection
}

// Execute re-applies the edit (used for redo).
func (c *AppliedEdit) Execute(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	if _, err := buf.Replace(c.Result.OldRange.Start, c.Result.OldRange.End, c.NewText); err != nil {
		return err
	}
	cursors.SetAll(c.CursorsAfter)
	return nil
}

// Undo reverses the edit.
func (c *AppliedEdit) Undo(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	if _, err := buf.ApplyEdit(c.Result.Inverse()); err != nil {
		return err
	}
	cursors.SetAll(c.CursorsBefore)
	return nil
}

// Description returns a human-readable description.
func (c *AppliedEdit) Description() string {
	switch {
	case c.Result.OldRange.IsEmpty():
		return "Insert"
	case c.NewText == "":
		return "Delete"
	default:
		return "Replace"
	}
}

// CompoundCommand groups multiple commands as one undo unit.
type CompoundCommand struct {
	Name     string
	Commands []Command
}

// NewCompoundCommand creates a new compound command.
func NewCompoundCommand(name string, commands ...Command) *CompoundCommand {
	return &CompoundCommand{Name: name, Commands: commands}
}

// Execute runs all commands in order.
func (c *CompoundCommand) Execute(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	for i, cmd := range c.Commands {
		if err := cmd.Execute(buf, cursors); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.Commands[j].Undo(buf, cursors)
			}
			return fmt.Errorf("compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Undo reverses all commands in reverse order.
func (c *CompoundCommand) Undo(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(buf, cursors); err != nil {
			return fmt.Errorf("undo compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Description returns the compound command's name.
func (c *CompoundCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Commands))
}
