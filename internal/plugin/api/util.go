package api

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	plua "github.com/dshills/quicklog/internal/plugin/lua"
)

// UtilModule implements the ks.util API module.
type UtilModule struct{}

// NewUtilModule creates a new util module.
func NewUtilModule() *UtilModule {
	return &UtilModule{}
}

// Name returns the module name.
func (m *UtilModule) Name() string {
	return "util"
}

// RequiredCapability returns the capability required for this module.
func (m *UtilModule) RequiredCapability() plua.Capability {
	return ""
}

// Register registers the module into the Lua state.
func (m *UtilModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "split", L.NewFunction(m.split))
	L.SetField(mod, "trim", L.NewFunction(m.trim))
	L.SetField(mod, "starts_with", L.NewFunction(m.startsWith))
	L.SetField(mod, "ends_with", L.NewFunction(m.endsWith))
	L.SetField(mod, "contains", L.NewFunction(m.contains))
	L.SetField(mod, "lines", L.NewFunction(m.lines))

	L.SetGlobal("_ks_util", mod)
	return nil
}

func pushStrings(L *lua.LState, parts []string) {
	tbl := L.NewTable()
	for i, part := range parts {
		tbl.RawSetInt(i+1, lua.LString(part))
	}
	L.Push(tbl)
}

// split(str, sep) -> {parts}
func (m *UtilModule) split(L *lua.LState) int {
	pushStrings(L, strings.Split(L.CheckString(1), L.CheckString(2)))
	return 1
}

// trim(str) -> string
func (m *UtilModule) trim(L *lua.LState) int {
	L.Push(lua.LString(strings.TrimSpace(L.CheckString(1))))
	return 1
}

// starts_with(str, prefix) -> bool
func (m *UtilModule) startsWith(L *lua.LState) int {
	L.Push(lua.LBool(strings.HasPrefix(L.CheckString(1), L.CheckString(2))))
	return 1
}

// ends_with(str, suffix) -> bool
func (m *UtilModule) endsWith(L *lua.LState) int {
	L.Push(lua.LBool(strings.HasSuffix(L.CheckString(1), L.CheckString(2))))
	return 1
}

// contains(str, substr) -> bool
func (m *UtilModule) contains(L *lua.LState) int {
	L.Push(lua.LBool(strings.Contains(L.CheckString(1), L.CheckString(2))))
	return 1
}

// lines(str) -> {lines}
// Splits on LF or CRLF. A trailing line ending adds no empty line.
func (m *UtilModule) lines(L *lua.LState) int {
	s := strings.ReplaceAll(L.CheckString(1), "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		pushStrings(L, nil)
		return 1
	}
	pushStrings(L, strings.Split(s, "\n"))
	return 1
}
