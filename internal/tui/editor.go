package tui

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/quicklog/internal/app"
	"github.com/dshills/quicklog/internal/config"
	"github.com/dshills/quicklog/internal/engine"
	"github.com/dshills/quicklog/internal/engine/cursor"
	"github.com/dshills/quicklog/internal/messages"
	"github.com/dshills/quicklog/internal/quicklog"
	"github.com/dshills/quicklog/internal/quicklog/placement"
	"github.com/dshills/quicklog/internal/quicklog/template"
	"github.com/dshills/quicklog/internal/snippet"
)

var deleteKeys = []Binding{
	{Mod: tcell.ModAlt | tcell.ModShift, Key: tcell.KeyRune, Rune: 'l'},
	{Mod: tcell.ModCtrl, Key: tcell.KeyRune, Rune: 'k'},
}

// Editor is the terminal host for one document.
type Editor struct {
	screen   tcell.Screen
	app      *app.Application
	doc      *app.Document
	snippets *snippet.Controller
	hl       *Highlighter
	log      *app.Logger

	insertKey Binding

	top       int
	status    string
	quit      bool
	quitArmed bool

	colors   [][]tcell.Style
	colorRev engine.RevisionID
	hasColor bool
}

// New creates an editor for doc drawing on screen. The screen must already
// be initialised.
func New(screen tcell.Screen, a *app.Application, doc *app.Document) *Editor {
	log := a.Logger().WithComponent("tui")

	key, err := ParseShortcut(a.Settings().ShortcutKey)
	if err != nil {
		log.Warn("invalid shortcut, using %q: %v", config.DefaultShortcut, err)
		key, _ = ParseShortcut(config.DefaultShortcut)
	}

	e := &Editor{
		screen:    screen,
		app:       a,
		doc:       doc,
		snippets:  snippet.NewController(doc.Engine),
		hl:        NewHighlighter(doc.Name, DefaultTheme),
		log:       log,
		insertKey: key,
	}
	e.snippets.OnChange(func(s *snippet.Session) {
		e.log.Debug("session %s %s primary=%q", s.ID, s.State(), s.Primary())
	})
	return e
}

// Run draws and handles events until the user quits or the screen is
// finalised. A panic inside the loop is returned as an error.
func (e *Editor) Run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = app.NewRecoveredPanicError(r, string(debug.Stack()))
		}
	}()

	for !e.quit {
		e.Draw()
		switch ev := e.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			e.screen.Sync()
		case *tcell.EventKey:
			e.HandleKey(ev)
		}
	}
	return nil
}

// Done reports whether the user asked to quit.
func (e *Editor) Done() bool { return e.quit }

// Status returns the status-line message.
func (e *Editor) Status() string { return e.status }

// Snippets returns the tab-stop session controller.
func (e *Editor) Snippets() *snippet.Controller { return e.snippets }

// Binding returns the insert shortcut in effect.
func (e *Editor) Binding() Binding { return e.insertKey }

// Notify shows msg on the status line.
func (e *Editor) Notify(title, msg string) {
	e.status = title + ": " + msg
}

// Confirm shows a yes/no dialog and waits for an answer.
func (e *Editor) Confirm(title, msg string) bool {
	for {
		e.Draw()
		e.drawDialog(title, msg)
		e.screen.Show()

		var ev *tcell.EventKey
		switch got := e.screen.PollEvent().(type) {
		case nil:
			return false
		case *tcell.EventKey:
			ev = got
		default:
			continue
		}
		switch {
		case ev.Key() == tcell.KeyEnter, ev.Key() == tcell.KeyRune && (ev.Rune() == 'y' || ev.Rune() == 'Y'):
			return true
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyRune && (ev.Rune() == 'n' || ev.Rune() == 'N'):
			return false
		}
	}
}

// HandleKey applies one key event.
func (e *Editor) HandleKey(ev *tcell.EventKey) {
	if ev.Key() != tcell.KeyCtrlQ {
		e.quitArmed = false
	}
	if e.snippets.IsActive() && e.handleSessionKey(ev) {
		return
	}

	switch {
	case ev.Key() == tcell.KeyCtrlQ:
		e.requestQuit()
		return
	case ev.Key() == tcell.KeyCtrlS:
		e.save()
		return
	case ev.Key() == tcell.KeyCtrlZ:
		e.report("undo", e.doc.Engine.Undo())
		return
	case ev.Key() == tcell.KeyCtrlY:
		e.report("redo", e.doc.Engine.Redo())
		return
	}

	for _, b := range deleteKeys {
		if b.Matches(ev) {
			e.deleteLogs()
			return
		}
	}
	if e.insertKey.Matches(ev) {
		e.insertLog()
		return
	}

	if e.handleMove(ev) {
		return
	}
	e.handleEdit(ev)
}

// handleSessionKey routes keys to the active session. It returns false
// when the key should be handled normally after the session ends.
func (e *Editor) handleSessionKey(ev *tcell.EventKey) bool {
	var err error
	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModAlt|tcell.ModCtrl|tcell.ModMeta) != 0 {
			_, err = e.snippets.Confirm()
			e.report("confirm", err)
			return false
		}
		err = e.snippets.Insert(string(ev.Rune()))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		err = e.snippets.Backspace()
	case tcell.KeyEnter, tcell.KeyTab:
		_, err = e.snippets.Confirm()
	case tcell.KeyEscape:
		_, err = e.snippets.Cancel()
	default:
		_, err = e.snippets.Confirm()
		e.report("confirm", err)
		return false
	}

	if errors.Is(err, snippet.ErrStale) {
		e.snippets.Cancel()
		e.status = "log edit ended: buffer changed"
		return true
	}
	e.report("edit log", err)
	return true
}

func (e *Editor) insertLog() {
	res, err := e.app.Insert(e.doc, e.snippets)
	if errors.Is(err, quicklog.ErrNoContext) {
		return
	}
	if err != nil {
		e.report("insert", err)
		return
	}
	e.status = fmt.Sprintf("%s (line %d, %s)", e.app.Catalog().Text(messages.InsertTitle), template.ReportedLine(res.Context), res.Insertion.Mode())
}

func (e *Editor) deleteLogs() {
	if _, err := e.app.Clean(e.doc, e); err != nil {
		e.report("delete", err)
	}
}

func (e *Editor) save() {
	if err := e.doc.Save(); err != nil {
		e.report("save", err)
		return
	}
	e.status = "saved " + e.doc.Name
}

func (e *Editor) requestQuit() {
	if e.doc.IsModified() && !e.quitArmed {
		e.quitArmed = true
		e.status = "unsaved changes: press ctrl+q again to quit"
		return
	}
	e.quit = true
}

func (e *Editor) report(op string, err error) {
	if err == nil {
		return
	}
	e.log.Warn("%s failed: %v", op, err)
	e.status = op + ": " + err.Error()
}

func (e *Editor) caret() engine.ByteOffset {
	return e.doc.Engine.PrimarySelection().Head
}

func (e *Editor) moveTo(head engine.ByteOffset, extend bool) {
	if extend {
		sel := e.doc.Engine.PrimarySelection()
		e.doc.Engine.SetPrimarySelection(cursor.NewSelection(sel.Anchor, head))
		return
	}
	e.doc.Engine.SetPrimaryCursor(head)
}

func (e *Editor) handleMove(ev *tcell.EventKey) bool {
	eng := e.doc.Engine
	extend := ev.Modifiers()&tcell.ModShift != 0
	caret := e.caret()
	pt := eng.OffsetToPoint(caret)

	switch ev.Key() {
	case tcell.KeyLeft:
		_, size := eng.RuneBefore(caret)
		e.moveTo(caret-engine.ByteOffset(size), extend)
	case tcell.KeyRight:
		_, size := eng.RuneAt(caret)
		e.moveTo(caret+engine.ByteOffset(size), extend)
	case tcell.KeyUp, tcell.KeyDown, tcell.KeyPgUp, tcell.KeyPgDn:
		delta := 1
		switch ev.Key() {
		case tcell.KeyUp:
			delta = -1
		case tcell.KeyPgUp:
			delta = -e.pageSize()
		case tcell.KeyPgDn:
			delta = e.pageSize()
		}
		e.moveTo(e.verticalTarget(pt, delta), extend)
	case tcell.KeyHome:
		e.moveTo(eng.LineStartOffset(pt.Line), extend)
	case tcell.KeyEnd:
		e.moveTo(eng.LineEndOffset(pt.Line), extend)
	default:
		return false
	}
	return true
}

func (e *Editor) pageSize() int {
	_, h := e.screen.Size()
	if h > 2 {
		return h - 2
	}
	return 1
}

// verticalTarget returns the offset delta lines away from pt that keeps
// the caret's display column.
func (e *Editor) verticalTarget(pt engine.Point, delta int) engine.ByteOffset {
	eng := e.doc.Engine
	line := int(pt.Line) + delta
	if line < 0 {
		return 0
	}
	if line >= int(eng.LineCount()) {
		return eng.Len()
	}

	tw := eng.TabWidth()
	cur := eng.LineText(pt.Line)
	want := placement.VisualColumn(cur[:min(int(pt.Column), len(cur))], tw)
	target := eng.LineText(uint32(line))
	return eng.LineStartOffset(uint32(line)) + engine.ByteOffset(offsetForColumn(target, want, tw))
}

// offsetForColumn returns the byte offset in line of the last grapheme
// boundary at or before display column col.
func offsetForColumn(line string, col, tabWidth int) int {
	x, off := 0, 0
	rest := line
	state := -1
	for len(rest) > 0 {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if cluster == "\t" {
			width = tabWidth - x%tabWidth
		}
		if x+width > col {
			break
		}
		x += width
		off += len(cluster)
	}
	return off
}

func (e *Editor) handleEdit(ev *tcell.EventKey) {
	eng := e.doc.Engine
	sel := eng.PrimarySelection()

	var err error
	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModAlt|tcell.ModCtrl|tcell.ModMeta) != 0 {
			return
		}
		err = e.replaceSelection(string(ev.Rune()))
	case tcell.KeyEnter:
		err = e.replaceSelection("\n")
	case tcell.KeyTab:
		err = e.replaceSelection("\t")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if !sel.IsEmpty() {
			err = e.replaceSelection("")
			break
		}
		_, size := eng.RuneBefore(sel.Head)
		if size > 0 {
			err = eng.Delete(sel.Head-engine.ByteOffset(size), sel.Head)
		}
	case tcell.KeyDelete:
		if !sel.IsEmpty() {
			err = e.replaceSelection("")
			break
		}
		_, size := eng.RuneAt(sel.Head)
		if size > 0 {
			err = eng.Delete(sel.Head, sel.Head+engine.ByteOffset(size))
		}
	}
	e.report("edit", err)
}

func (e *Editor) replaceSelection(text string) error {
	eng := e.doc.Engine
	r := eng.PrimarySelection().Range()
	end, err := eng.Replace(r.Start, r.End, text)
	if err != nil {
		return err
	}
	eng.SetPrimaryCursor(end)
	return nil
}
