package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quicklog/internal/engine/buffer"
	"github.com/dshills/quicklog/internal/engine/cursor"
	plua "github.com/dshills/quicklog/internal/plugin/lua"
)

// CursorModule implements the ks.cursor API module.
type CursorModule struct {
	ctx *Context
}

// NewCursorModule creates a new cursor module.
func NewCursorModule(ctx *Context) *CursorModule {
	return &CursorModule{ctx: ctx}
}

// Name returns the module name.
func (m *CursorModule) Name() string {
	return "cursor"
}

// RequiredCapability returns the capability required for this module.
func (m *CursorModule) RequiredCapability() plua.Capability {
	return ""
}

// Register registers the module into the Lua state.
func (m *CursorModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "get", L.NewFunction(m.get))
	L.SetField(mod, "set", L.NewFunction(m.set))
	L.SetField(mod, "select", L.NewFunction(m.selectRange))
	L.SetField(mod, "selection", L.NewFunction(m.selection))
	L.SetField(mod, "line", L.NewFunction(m.line))
	L.SetField(mod, "column", L.NewFunction(m.column))
	L.SetField(mod, "move_to_line", L.NewFunction(m.moveToLine))

	L.SetGlobal("_ks_cursor", mod)
	return nil
}

func (m *CursorModule) checkOffset(L *lua.LState, n int) buffer.ByteOffset {
	off := buffer.ByteOffset(L.CheckInt(n))
	if off < 0 || (m.ctx.Buffer != nil && off > m.ctx.Buffer.Len()) {
		L.ArgError(n, "offset out of range")
	}
	return off
}

// get() -> offset
// Returns the primary caret offset.
func (m *CursorModule) get(L *lua.LState) int {
	if m.ctx.Cursor == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(m.ctx.Cursor.PrimarySelection().Head))
	return 1
}

// set(offset)
// Moves the primary caret and clears its selection.
func (m *CursorModule) set(L *lua.LState) int {
	off := m.checkOffset(L, 1)
	if m.ctx.Cursor == nil {
		L.RaiseError("set: no cursor available")
		return 0
	}
	m.ctx.Cursor.SetPrimaryCursor(off)
	return 0
}

// select(anchor, head)
func (m *CursorModule) selectRange(L *lua.LState) int {
	anchor := m.checkOffset(L, 1)
	head := m.checkOffset(L, 2)
	if m.ctx.Cursor == nil {
		L.RaiseError("select: no cursor available")
		return 0
	}
	m.ctx.Cursor.SetPrimarySelection(cursor.NewSelection(anchor, head))
	return 0
}

// selection() -> start, end | nil
func (m *CursorModule) selection(L *lua.LState) int {
	if m.ctx.Cursor == nil {
		L.Push(lua.LNil)
		return 1
	}
	sel := m.ctx.Cursor.PrimarySelection()
	if sel.IsEmpty() {
		L.Push(lua.LNil)
		return 1
	}
	r := sel.Range()
	L.Push(lua.LNumber(r.Start))
	L.Push(lua.LNumber(r.End))
	return 2
}

func (m *CursorModule) point() (buffer.Point, bool) {
	if m.ctx.Cursor == nil || m.ctx.Buffer == nil {
		return buffer.Point{}, false
	}
	return m.ctx.Buffer.OffsetToPoint(m.ctx.Cursor.PrimarySelection().Head), true
}

// line() -> number (1-indexed)
func (m *CursorModule) line(L *lua.LState) int {
	p, ok := m.point()
	if !ok {
		L.Push(lua.LNumber(1))
		return 1
	}
	L.Push(lua.LNumber(p.Line + 1))
	return 1
}

// column() -> number (1-indexed byte column)
func (m *CursorModule) column(L *lua.LState) int {
	p, ok := m.point()
	if !ok {
		L.Push(lua.LNumber(1))
		return 1
	}
	L.Push(lua.LNumber(p.Column + 1))
	return 1
}

// move_to_line(n)
// Moves the caret to the start of line n (1-indexed).
func (m *CursorModule) moveToLine(L *lua.LState) int {
	n := L.CheckInt(1)
	if m.ctx.Cursor == nil || m.ctx.Buffer == nil {
		L.RaiseError("move_to_line: no buffer available")
		return 0
	}
	if n < 1 || n > int(m.ctx.Buffer.LineCount()) {
		L.ArgError(1, "line number out of range")
		return 0
	}
	m.ctx.Cursor.SetPrimaryCursor(m.ctx.Buffer.LineStartOffset(uint32(n - 1)))
	return 0
}
