package api

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	plua "github.com/dshills/quicklog/internal/plugin/lua"
	"github.com/dshills/quicklog/internal/quicklog/template"
)

// QuickLogModule implements the ks.quicklog API module.
type QuickLogModule struct {
	ctx *Context
}

// NewQuickLogModule creates a new quicklog module.
func NewQuickLogModule(ctx *Context) *QuickLogModule {
	return &QuickLogModule{ctx: ctx}
}

// Name returns the module name.
func (m *QuickLogModule) Name() string {
	return "quicklog"
}

// RequiredCapability returns the capability required for this module.
func (m *QuickLogModule) RequiredCapability() plua.Capability {
	return ""
}

// Register registers the module into the Lua state.
func (m *QuickLogModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "insert", L.NewFunction(m.insert))
	L.SetField(mod, "scan", L.NewFunction(m.scan))
	L.SetField(mod, "clean", L.NewFunction(m.clean))
	L.SetField(mod, "expand", L.NewFunction(m.expand))
	L.SetField(mod, "template", L.NewFunction(m.template))
	L.SetField(mod, "preview", L.NewFunction(m.preview))

	L.SetGlobal("_ks_quicklog", mod)
	return nil
}

func (m *QuickLogModule) requireService(L *lua.LState, fn string) bool {
	if m.ctx.Service == nil {
		L.RaiseError("%s: quicklog service unavailable", fn)
		return false
	}
	return true
}

// insert([var]) -> text, line | nil
// Inserts a log statement at the caret. var replaces the selection.
// Returns nil when there is no editor context.
func (m *QuickLogModule) insert(L *lua.LState) int {
	if !m.requireService(L, "insert") {
		return 0
	}
	ed := m.ctx.Editor()

	ctx, err := m.ctx.Service.Context(ed)
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	if L.GetTop() >= 1 && L.Get(1) != lua.LNil {
		v := L.CheckString(1)
		ctx.Selection = &v
	}

	res, err := m.ctx.Service.InsertContext(ed, ctx)
	if err != nil {
		L.RaiseError("insert: %v", err)
		return 0
	}
	L.Push(lua.LString(strings.Trim(res.Insertion.Text, "\r\n")))
	L.Push(lua.LNumber(template.ReportedLine(res.Context)))
	return 2
}

// scan() -> {line, ...}
// Returns the 1-based lines holding generated log statements.
func (m *QuickLogModule) scan(L *lua.LState) int {
	if !m.requireService(L, "scan") {
		return 0
	}
	tbl := L.NewTable()
	if m.ctx.Buffer != nil {
		for i, line := range m.ctx.Service.Scanner().Scan(m.ctx.Buffer).OneBased() {
			tbl.RawSetInt(i+1, lua.LNumber(line))
		}
	}
	L.Push(tbl)
	return 1
}

// clean() -> count
// Deletes every generated log statement and returns how many went.
func (m *QuickLogModule) clean(L *lua.LState) int {
	if !m.requireService(L, "clean") {
		return 0
	}
	p := m.ctx.Prompter
	if p == nil {
		p = confirmAll{}
	}
	res, err := m.ctx.Service.DeleteLogs(m.ctx.Editor(), p)
	if err != nil {
		L.RaiseError("clean: %v", err)
		return 0
	}
	L.Push(lua.LNumber(res.Deleted))
	return 1
}

// expand(template, file, line, var) -> string
func (m *QuickLogModule) expand(L *lua.LState) int {
	tpl := L.CheckString(1)
	file := L.CheckString(2)
	line := L.CheckInt(3)
	v := L.CheckString(4)
	L.Push(lua.LString(template.Substitute(template.Template(tpl), file, line, v)))
	return 1
}

// template() -> string
func (m *QuickLogModule) template(L *lua.LState) int {
	if !m.requireService(L, "template") {
		return 0
	}
	L.Push(lua.LString(m.ctx.Service.Options().Template))
	return 1
}

// preview([template]) -> string
func (m *QuickLogModule) preview(L *lua.LState) int {
	var tpl template.Template
	if L.GetTop() >= 1 {
		tpl = template.Template(L.CheckString(1))
	} else if m.requireService(L, "preview") {
		tpl = m.ctx.Service.Options().Template
	}
	L.Push(lua.LString(template.Preview(tpl)))
	return 1
}

// confirmAll answers yes without showing anything.
type confirmAll struct{}

func (confirmAll) Notify(string, string)        {}
func (confirmAll) Confirm(string, string) bool { return true }
