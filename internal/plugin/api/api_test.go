package api

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quicklog/internal/engine"
	plua "github.com/dshills/quicklog/internal/plugin/lua"
	"github.com/dshills/quicklog/internal/quicklog"
	"github.com/dshills/quicklog/internal/quicklog/template"
)

const sample = "function f(user) {\n  return user;\n}"

type fixture struct {
	eng   *engine.Engine
	ctx   *Context
	state *plua.State
	out   *bytes.Buffer
}

func setup(t *testing.T, content string, grant ...plua.Capability) *fixture {
	t.Helper()
	var out bytes.Buffer
	state, err := plua.NewState(plua.WithOutput(&out))
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	t.Cleanup(func() { state.Close() })
	for _, c := range grant {
		state.Sandbox().Grant(c)
	}

	eng := engine.New(engine.WithContent(content))
	ctx := &Context{
		FileName: "app.js",
		Buffer:   eng,
		Cursor:   eng,
		Service:  quicklog.NewService(quicklog.DefaultOptions()),
	}
	reg, err := DefaultRegistry(ctx)
	if err != nil {
		t.Fatalf("DefaultRegistry() error = %v", err)
	}
	if err := reg.InjectAll(state); err != nil {
		t.Fatalf("InjectAll() error = %v", err)
	}
	return &fixture{eng: eng, ctx: ctx, state: state, out: &out}
}

func (f *fixture) run(t *testing.T, code string) {
	t.Helper()
	if err := f.state.DoString(context.Background(), "local ks = require('ks')\n"+code); err != nil {
		t.Fatalf("DoString(%q) error = %v", code, err)
	}
}

func (f *fixture) fails(t *testing.T, code string) {
	t.Helper()
	if err := f.state.DoString(context.Background(), "local ks = require('ks')\n"+code); err == nil {
		t.Errorf("expected %q to fail", code)
	}
}

func (f *fixture) global(name string) lua.LValue {
	return f.state.GetGlobal(name)
}

type mockModule struct {
	name       string
	capability plua.Capability
	registered bool
}

func (m *mockModule) Name() string                        { return m.name }
func (m *mockModule) RequiredCapability() plua.Capability { return m.capability }
func (m *mockModule) Register(L *lua.LState) error {
	m.registered = true
	mod := L.NewTable()
	L.SetField(mod, "name", lua.LString(m.name))
	L.SetGlobal("_ks_"+m.name, mod)
	return nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&mockModule{name: "b"}); err != nil {
		t.Fatalf("Register error = %v", err)
	}
	if err := r.Register(&mockModule{name: "a"}); err != nil {
		t.Fatalf("Register error = %v", err)
	}
	if err := r.Register(&mockModule{name: "a"}); err == nil {
		t.Error("duplicate Register should return error")
	}
	if got := r.List(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("List() = %v, want [a b]", got)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) should fail")
	}
}

func TestInjectAllHonoursCapabilities(t *testing.T) {
	state, err := plua.NewState()
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	open := &mockModule{name: "open"}
	gated := &mockModule{name: "gated", capability: plua.CapabilityClipboard}
	r := NewRegistry()
	r.Register(open)
	r.Register(gated)
	if err := r.InjectAll(state); err != nil {
		t.Fatal(err)
	}

	if !open.registered || gated.registered {
		t.Errorf("registered open=%v gated=%v, want true false", open.registered, gated.registered)
	}
	code := `local ks = require("ks")
		has_gated = ks.gated ~= nil
		name = require("ks.open").name
		version = ks.version`
	if err := state.DoString(context.Background(), code); err != nil {
		t.Fatal(err)
	}
	if state.GetGlobal("has_gated") != lua.LFalse {
		t.Error("gated module should not be injected")
	}
	if state.GetGlobal("name") != lua.LString("open") {
		t.Errorf("name = %v, want open", state.GetGlobal("name"))
	}
	if state.GetGlobal("version") != lua.LString(Version) {
		t.Errorf("version = %v, want %s", state.GetGlobal("version"), Version)
	}
	if state.GetGlobal("_ks_open") != lua.LNil {
		t.Error("internal global should be removed")
	}
}

func TestBufferModule(t *testing.T) {
	f := setup(t, "one\ntwo\nthree")
	f.run(t, `
		count = ks.buf.line_count()
		second = ks.buf.line(2)
		size = ks.buf.len()
		piece = ks.buf.text_range(4, 7)
		path = ks.buf.path()
		ks.buf.insert(0, "zero\n")
		ks.buf.replace(0, 4, "ZERO")
		ks.buf.delete(ks.buf.len() - 6, ks.buf.len())
		text = ks.buf.text()
	`)

	if f.global("count") != lua.LNumber(3) {
		t.Errorf("count = %v, want 3", f.global("count"))
	}
	if f.global("second") != lua.LString("two") {
		t.Errorf("second = %v, want two", f.global("second"))
	}
	if f.global("size") != lua.LNumber(13) {
		t.Errorf("size = %v, want 13", f.global("size"))
	}
	if f.global("piece") != lua.LString("two") {
		t.Errorf("piece = %v, want two", f.global("piece"))
	}
	if f.global("path") != lua.LString("app.js") {
		t.Errorf("path = %v, want app.js", f.global("path"))
	}
	if got := f.global("text").String(); got != "ZERO\none\ntwo" {
		t.Errorf("expected %q, got %q", "ZERO\none\ntwo", got)
	}
}

func TestBufferModuleUndo(t *testing.T) {
	f := setup(t, "abc")
	f.run(t, `
		ks.buf.insert(3, "d")
		ok = ks.buf.undo()
		again = ks.buf.undo()
	`)
	if f.global("ok") != lua.LTrue || f.global("again") != lua.LFalse {
		t.Errorf("undo results = %v %v, want true false", f.global("ok"), f.global("again"))
	}
	if f.eng.Text() != "abc" {
		t.Errorf("expected %q, got %q", "abc", f.eng.Text())
	}
}

func TestBufferModuleRejectsBadArguments(t *testing.T) {
	f := setup(t, "abc")
	f.fails(t, `ks.buf.line(0)`)
	f.fails(t, `ks.buf.line(2)`)
	f.fails(t, `ks.buf.insert(10, "x")`)
	f.fails(t, `ks.buf.delete(2, 1)`)
	f.fails(t, `ks.buf.text_range(0, 99)`)
	if f.eng.Text() != "abc" {
		t.Errorf("buffer changed: %q", f.eng.Text())
	}
}

func TestCursorModule(t *testing.T) {
	f := setup(t, "one\ntwo\nthree")
	f.run(t, `
		ks.cursor.set(5)
		pos = ks.cursor.get()
		line = ks.cursor.line()
		col = ks.cursor.column()
		none = ks.cursor.selection()
		ks.cursor.select(8, 4)
		s, e = ks.cursor.selection()
		ks.cursor.move_to_line(3)
		after = ks.cursor.get()
	`)

	checks := map[string]lua.LValue{
		"pos":   lua.LNumber(5),
		"line":  lua.LNumber(2),
		"col":   lua.LNumber(2),
		"none":  lua.LNil,
		"s":     lua.LNumber(4),
		"e":     lua.LNumber(8),
		"after": lua.LNumber(8),
	}
	for name, want := range checks {
		if got := f.global(name); got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
	f.fails(t, `ks.cursor.set(-1)`)
	f.fails(t, `ks.cursor.move_to_line(9)`)
}

func TestQuickLogInsert(t *testing.T) {
	f := setup(t, sample)
	f.eng.SetPrimaryCursor(22)
	f.run(t, `text, line = ks.quicklog.insert("user")`)

	want := "console.log('app.js:3 | user : ', user);"
	if got := f.global("text").String(); !strings.HasSuffix(got, want) {
		t.Errorf("expected text ending in %q, got %q", want, got)
	}
	if f.global("line") != lua.LNumber(3) {
		t.Errorf("line = %v, want 3", f.global("line"))
	}
	if !strings.Contains(f.eng.Text(), "  return user;\n  "+want+"\n}") {
		t.Errorf("unexpected buffer %q", f.eng.Text())
	}
}

func TestQuickLogScanAndClean(t *testing.T) {
	f := setup(t, sample)
	f.eng.SetPrimaryCursor(22)
	f.run(t, `
		ks.quicklog.insert("user")
		found = ks.quicklog.scan()
		first = found[1]
		n = #found
		removed = ks.quicklog.clean()
		left = #ks.quicklog.scan()
	`)

	if f.global("n") != lua.LNumber(1) || f.global("first") != lua.LNumber(3) {
		t.Errorf("scan = %v lines, first %v; want 1 line, first 3", f.global("n"), f.global("first"))
	}
	if f.global("removed") != lua.LNumber(1) || f.global("left") != lua.LNumber(0) {
		t.Errorf("removed %v left %v, want 1 and 0", f.global("removed"), f.global("left"))
	}
	if f.eng.Text() != sample {
		t.Errorf("expected %q, got %q", sample, f.eng.Text())
	}
}

type denyPrompter struct{ asked int }

func (p *denyPrompter) Notify(string, string) {}
func (p *denyPrompter) Confirm(string, string) bool {
	p.asked++
	return false
}

func TestQuickLogCleanUsesPrompter(t *testing.T) {
	f := setup(t, "console.log('a.js:1 | x : ', x);\nkeep")
	p := &denyPrompter{}
	f.ctx.Prompter = p
	f.run(t, `removed = ks.quicklog.clean()`)

	if p.asked != 1 || f.global("removed") != lua.LNumber(0) {
		t.Errorf("asked %d removed %v, want 1 and 0", p.asked, f.global("removed"))
	}
}

func TestQuickLogTemplateHelpers(t *testing.T) {
	f := setup(t, "")
	f.run(t, `
		expanded = ks.quicklog.expand("log(${file}:${line} ${var})", "a.go", 7, "v")
		tpl = ks.quicklog.template()
		preview = ks.quicklog.preview()
		custom = ks.quicklog.preview("p(${var})")
	`)

	if got := f.global("expanded").String(); got != "log(a.go:7 v)" {
		t.Errorf("expected %q, got %q", "log(a.go:7 v)", got)
	}
	if got := f.global("tpl").String(); got != string(template.Default) {
		t.Errorf("expected %q, got %q", template.Default, got)
	}
	if got := f.global("preview").String(); got != template.Preview(template.Default) {
		t.Errorf("expected %q, got %q", template.Preview(template.Default), got)
	}
	if got := f.global("custom").String(); got != template.Preview("p(${var})") {
		t.Errorf("expected %q, got %q", template.Preview("p(${var})"), got)
	}
}

func TestQuickLogInsertWithoutCursor(t *testing.T) {
	f := setup(t, "x")
	f.ctx.Cursor = nil
	f.run(t, `result = ks.quicklog.insert()`)
	if f.global("result") != lua.LNil {
		t.Errorf("result = %v, want nil", f.global("result"))
	}
}

func TestUtilModule(t *testing.T) {
	f := setup(t, "")
	f.run(t, `
		parts = ks.util.split("a,b,c", ",")
		n = #parts
		trimmed = ks.util.trim("  x  ")
		starts = ks.util.starts_with("console.log", "console")
		ends = ks.util.ends_with("a.js", ".go")
		lines = ks.util.lines("a\r\nb\n")
		nlines = #lines
	`)
	if f.global("n") != lua.LNumber(3) || f.global("trimmed") != lua.LString("x") {
		t.Errorf("split/trim = %v %v", f.global("n"), f.global("trimmed"))
	}
	if f.global("starts") != lua.LTrue || f.global("ends") != lua.LFalse {
		t.Errorf("starts/ends = %v %v", f.global("starts"), f.global("ends"))
	}
	if f.global("nlines") != lua.LNumber(2) {
		t.Errorf("nlines = %v, want 2", f.global("nlines"))
	}
}

func TestClipboardModule(t *testing.T) {
	var stored string
	mod := &ClipboardModule{
		read:  func() (string, error) { return stored, nil },
		write: func(s string) error { stored = s; return nil },
	}

	state, err := plua.NewState()
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()
	state.Sandbox().Grant(plua.CapabilityClipboard)

	r := NewRegistry()
	r.Register(mod)
	if err := r.InjectAll(state); err != nil {
		t.Fatal(err)
	}
	code := `local ks = require("ks")
		ks.clipboard.set("copied")
		got = ks.clipboard.get()`
	if err := state.DoString(context.Background(), code); err != nil {
		t.Fatal(err)
	}
	if stored != "copied" || state.GetGlobal("got") != lua.LString("copied") {
		t.Errorf("clipboard = %q, got %v", stored, state.GetGlobal("got"))
	}

	mod.write = func(string) error { return errors.New("no display") }
	if err := state.DoString(context.Background(), `require("ks").clipboard.set("x")`); err == nil {
		t.Error("expected clipboard error to surface")
	}
}

func TestDefaultRegistryWithoutClipboard(t *testing.T) {
	f := setup(t, "")
	f.run(t, `has_clipboard = ks.clipboard ~= nil`)
	if f.global("has_clipboard") != lua.LFalse {
		t.Error("clipboard module should require the capability")
	}
}
