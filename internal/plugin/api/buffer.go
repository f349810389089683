package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quicklog/internal/engine/buffer"
	plua "github.com/dshills/quicklog/internal/plugin/lua"
)

// BufferModule implements the ks.buf API module.
type BufferModule struct {
	ctx *Context
}

// NewBufferModule creates a new buffer module.
func NewBufferModule(ctx *Context) *BufferModule {
	return &BufferModule{ctx: ctx}
}

// Name returns the module name.
func (m *BufferModule) Name() string {
	return "buf"
}

// RequiredCapability returns the capability required for this module.
func (m *BufferModule) RequiredCapability() plua.Capability {
	return ""
}

// Register registers the module into the Lua state.
func (m *BufferModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "text", L.NewFunction(m.text))
	L.SetField(mod, "text_range", L.NewFunction(m.textRange))
	L.SetField(mod, "line", L.NewFunction(m.line))
	L.SetField(mod, "line_count", L.NewFunction(m.lineCount))
	L.SetField(mod, "len", L.NewFunction(m.bufLen))
	L.SetField(mod, "insert", L.NewFunction(m.insert))
	L.SetField(mod, "delete", L.NewFunction(m.delete))
	L.SetField(mod, "replace", L.NewFunction(m.replace))
	L.SetField(mod, "undo", L.NewFunction(m.undo))
	L.SetField(mod, "redo", L.NewFunction(m.redo))
	L.SetField(mod, "path", L.NewFunction(m.path))

	L.SetGlobal("_ks_buf", mod)
	return nil
}

// checkRange reads (start, end) arguments and validates them against the
// buffer length.
func (m *BufferModule) checkRange(L *lua.LState, first int) (buffer.ByteOffset, buffer.ByteOffset) {
	start := buffer.ByteOffset(L.CheckInt(first))
	end := buffer.ByteOffset(L.CheckInt(first + 1))
	if start < 0 {
		L.ArgError(first, "start must be non-negative")
	}
	if end < start {
		L.ArgError(first+1, "end must be >= start")
	}
	if end > m.ctx.Buffer.Len() {
		L.ArgError(first+1, "end is past the end of the buffer")
	}
	return start, end
}

func (m *BufferModule) requireBuffer(L *lua.LState, fn string) bool {
	if m.ctx.Buffer == nil {
		L.RaiseError("%s: no buffer available", fn)
		return false
	}
	return true
}

// text() -> string
func (m *BufferModule) text(L *lua.LState) int {
	if m.ctx.Buffer == nil {
		L.Push(lua.LString(""))
		return 1
	}
	L.Push(lua.LString(m.ctx.Buffer.Text()))
	return 1
}

// text_range(start, end) -> string
func (m *BufferModule) textRange(L *lua.LState) int {
	if !m.requireBuffer(L, "text_range") {
		return 0
	}
	start, end := m.checkRange(L, 1)
	L.Push(lua.LString(m.ctx.Buffer.TextRange(start, end)))
	return 1
}

// line(n) -> string
// Returns the text of line n (1-indexed) without its line ending.
func (m *BufferModule) line(L *lua.LState) int {
	n := L.CheckInt(1)
	if !m.requireBuffer(L, "line") {
		return 0
	}
	if n < 1 || n > int(m.ctx.Buffer.LineCount()) {
		L.ArgError(1, "line number out of range")
		return 0
	}
	L.Push(lua.LString(m.ctx.Buffer.LineText(uint32(n - 1))))
	return 1
}

// line_count() -> number
func (m *BufferModule) lineCount(L *lua.LState) int {
	if m.ctx.Buffer == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(m.ctx.Buffer.LineCount()))
	return 1
}

// len() -> number
func (m *BufferModule) bufLen(L *lua.LState) int {
	if m.ctx.Buffer == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(m.ctx.Buffer.Len()))
	return 1
}

// insert(offset, text) -> end_offset
func (m *BufferModule) insert(L *lua.LState) int {
	offset := buffer.ByteOffset(L.CheckInt(1))
	text := L.CheckString(2)
	if !m.requireBuffer(L, "insert") {
		return 0
	}
	if offset < 0 || offset > m.ctx.Buffer.Len() {
		L.ArgError(1, "offset out of range")
		return 0
	}

	end, err := m.ctx.Buffer.Insert(offset, text)
	if err != nil {
		L.RaiseError("insert: %v", err)
		return 0
	}
	L.Push(lua.LNumber(end))
	return 1
}

// delete(start, end)
func (m *BufferModule) delete(L *lua.LState) int {
	if !m.requireBuffer(L, "delete") {
		return 0
	}
	start, end := m.checkRange(L, 1)
	if err := m.ctx.Buffer.Delete(start, end); err != nil {
		L.RaiseError("delete: %v", err)
	}
	return 0
}

// replace(start, end, text) -> end_offset
func (m *BufferModule) replace(L *lua.LState) int {
	text := L.CheckString(3)
	if !m.requireBuffer(L, "replace") {
		return 0
	}
	start, end := m.checkRange(L, 1)

	newEnd, err := m.ctx.Buffer.Replace(start, end, text)
	if err != nil {
		L.RaiseError("replace: %v", err)
		return 0
	}
	L.Push(lua.LNumber(newEnd))
	return 1
}

// undo() -> bool
func (m *BufferModule) undo(L *lua.LState) int {
	L.Push(lua.LBool(m.ctx.Buffer != nil && m.ctx.Buffer.Undo() == nil))
	return 1
}

// redo() -> bool
func (m *BufferModule) redo(L *lua.LState) int {
	L.Push(lua.LBool(m.ctx.Buffer != nil && m.ctx.Buffer.Redo() == nil))
	return 1
}

// path() -> string
func (m *BufferModule) path(L *lua.LState) int {
	L.Push(lua.LString(m.ctx.FileName))
	return 1
}
