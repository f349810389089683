package api

import (
	"fmt"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quicklog/internal/engine/buffer"
	plua "github.com/dshills/quicklog/internal/plugin/lua"
	"github.com/dshills/quicklog/internal/quicklog"
)

// Version is reported as ks.version.
const Version = "1.0.0"

// Module represents a Lua API module.
type Module interface {
	// Name returns the module name (e.g., "buf", "cursor").
	Name() string

	// RequiredCapability returns the capability required to use this
	// module, or "" if none is required.
	RequiredCapability() plua.Capability

	// Register installs the module table as the _ks_<name> global.
	Register(L *lua.LState) error
}

// Registry manages API modules and their registration.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewRegistry creates a new API registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]Module),
	}
}

// Register adds a module to the registry.
func (r *Registry) Register(mod Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[mod.Name()]; exists {
		return fmt.Errorf("module %q already registered", mod.Name())
	}
	r.modules[mod.Name()] = mod
	return nil
}

// Get returns a module by name.
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mod, ok := r.modules[name]
	return mod, ok
}

// List returns all registered module names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InjectAll registers every module the sandbox allows and installs the
// "ks" module. Modules are also reachable as require("ks.<name>").
func (r *Registry) InjectAll(state *plua.State) error {
	L := state.LuaState()
	sandbox := state.Sandbox()

	ks := L.NewTable()
	for _, name := range r.List() {
		mod, _ := r.Get(name)
		if c := mod.RequiredCapability(); c != "" && !sandbox.HasCapability(c) {
			continue
		}
		if err := mod.Register(L); err != nil {
			return fmt.Errorf("failed to register module %q: %w", name, err)
		}

		global := "_ks_" + name
		tbl := L.GetGlobal(global)
		L.SetGlobal(global, lua.LNil)
		if tbl == lua.LNil {
			continue
		}
		L.SetField(ks, name, tbl)
		L.PreloadModule("ks."+name, func(L *lua.LState) int {
			L.Push(tbl)
			return 1
		})
	}

	L.SetField(ks, "version", lua.LString(Version))
	L.SetField(ks, "api_version", lua.LNumber(1))
	L.PreloadModule("ks", func(L *lua.LState) int {
		L.Push(ks)
		return 1
	})
	return nil
}

// Buffer is the text surface scripts edit.
type Buffer interface {
	quicklog.TextBuffer
	Text() string
	Replace(start, end buffer.ByteOffset, text string) (buffer.ByteOffset, error)
	Undo() error
	Redo() error
}

// Context provides editor state to the modules.
type Context struct {
	// FileName is reported in generated log statements.
	FileName string

	// Buffer provides buffer operations.
	Buffer Buffer

	// Cursor provides caret and selection operations.
	Cursor quicklog.CaretSession

	// Service runs the QuickLog actions.
	Service *quicklog.Service

	// Session receives tab-stop plans. Optional.
	Session quicklog.InteractiveEditSession

	// Prompter confirms deletions. Nil confirms every deletion.
	Prompter quicklog.Prompter
}

// Editor returns the QuickLog ports for the context.
func (c *Context) Editor() quicklog.Editor {
	ed := quicklog.Editor{
		FileName: c.FileName,
		Carets:   c.Cursor,
		Session:  c.Session,
	}
	if c.Buffer != nil {
		ed.Buffer = c.Buffer
		if tx, ok := c.Buffer.(quicklog.Transactor); ok {
			ed.Tx = tx
		}
	}
	return ed
}

// DefaultRegistry creates a registry with the standard modules.
func DefaultRegistry(ctx *Context) (*Registry, error) {
	r := NewRegistry()
	modules := []Module{
		NewBufferModule(ctx),
		NewCursorModule(ctx),
		NewQuickLogModule(ctx),
		NewUtilModule(),
		NewClipboardModule(),
	}
	for _, mod := range modules {
		if err := r.Register(mod); err != nil {
			return nil, err
		}
	}
	return r, nil
}
