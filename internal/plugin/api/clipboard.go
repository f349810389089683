package api

import (
	"github.com/atotto/clipboard"
	lua "github.com/yuin/gopher-lua"

	plua "github.com/dshills/quicklog/internal/plugin/lua"
)

// ClipboardModule implements the ks.clipboard API module. It is only
// injected when the clipboard capability is granted.
type ClipboardModule struct {
	read  func() (string, error)
	write func(string) error
}

// NewClipboardModule creates a clipboard module backed by the system
// clipboard.
func NewClipboardModule() *ClipboardModule {
	return &ClipboardModule{read: clipboard.ReadAll, write: clipboard.WriteAll}
}

// Name returns the module name.
func (m *ClipboardModule) Name() string {
	return "clipboard"
}

// RequiredCapability returns the capability required for this module.
func (m *ClipboardModule) RequiredCapability() plua.Capability {
	return plua.CapabilityClipboard
}

// Register registers the module into the Lua state.
func (m *ClipboardModule) Register(L *lua.LState) error {
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(m.get))
	L.SetField(mod, "set", L.NewFunction(m.set))
	L.SetGlobal("_ks_clipboard", mod)
	return nil
}

// get() -> string
func (m *ClipboardModule) get(L *lua.LState) int {
	text, err := m.read()
	if err != nil {
		L.RaiseError("clipboard.get: %v", err)
		return 0
	}
	L.Push(lua.LString(text))
	return 1
}

// set(text)
func (m *ClipboardModule) set(L *lua.LState) int {
	if err := m.write(L.CheckString(1)); err != nil {
		L.RaiseError("clipboard.set: %v", err)
	}
	return 0
}
