package history

import (
	"fmt"

	"github.com/dshills/quicklog/internal/engine/buffer"
	"github.com/dshills/quicklog/internal/engine/cursor"
)

// GroupScope provides a convenient way to group commands using defer.
//
//	defer h.GroupScope("Insert log").End()
type GroupScope struct {
	history *History
	active  bool
}

// GroupScope starts a new group scope.
func (h *History) GroupScope(name string) *GroupScope {
	h.BeginGroup(name)
	return &GroupScope{history: h, active: true}
}

// End ends the group scope. Only the first call has effect.
func (g *GroupScope) End() {
	if g.active {
		g.history.EndGroup()
		g.active = false
	}
}

// Transaction runs fn inside a group. If fn fails, every command pushed
// during fn is undone, so the buffer is left as it was before the call.
func (h *History) Transaction(name string, buf *buffer.Buffer, cursors *cursor.CursorSet, fn func() error) error {
	h.BeginGroup(name)

	if err := fn(); err != nil {
		if rbErr := h.RollbackGroup(buf, cursors); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	h.EndGroup()
	return nil
}
