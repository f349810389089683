package snippet

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/quicklog/internal/engine"
	"github.com/dshills/quicklog/internal/quicklog"
	"github.com/dshills/quicklog/internal/quicklog/extract"
	"github.com/dshills/quicklog/internal/quicklog/placement"
)

func startSession(t *testing.T, content string, caret int64) (*engine.Engine, *Controller) {
	t.Helper()

	e := engine.New(engine.WithContent(content))
	e.SetPrimaryCursor(caret)
	ctl := NewController(e)

	opts := quicklog.DefaultOptions()
	opts.SelectionMode = extract.ModeStrict
	svc := quicklog.NewService(opts)
	ed := quicklog.Editor{FileName: "app.js", Buffer: e, Carets: e, Tx: e, Session: ctl}
	if _, err := svc.InsertLog(ed); err != nil {
		t.Fatalf("InsertLog: %v", err)
	}
	if !ctl.IsActive() {
		t.Fatal("expected an active session")
	}
	return e, ctl
}

func TestTypingUpdatesMirrors(t *testing.T) {
	e, ctl := startSession(t, "run();", 0)

	for _, s := range []string{"c", "n", "t"} {
		if err := ctl.Insert(s); err != nil {
			t.Fatalf("Insert(%q): %v", s, err)
		}
	}

	want := "run();\nconsole.log('app.js:2 | cnt : ', cnt);"
	if e.Text() != want {
		t.Errorf("expected %q, got %q", want, e.Text())
	}
	if got := ctl.Active().Primary(); got != "cnt" {
		t.Errorf("expected primary %q, got %q", "cnt", got)
	}
	primary := ctl.Active().PrimaryRange()
	if got := e.TextRange(primary.Start, primary.End); got != "cnt" {
		t.Errorf("expected primary range to cover %q, got %q", "cnt", got)
	}
	if e.PrimaryCursor() != primary.End {
		t.Errorf("expected caret at %d, got %d", primary.End, e.PrimaryCursor())
	}
}

func TestBackspaceRemovesRune(t *testing.T) {
	e, ctl := startSession(t, "run();", 0)

	if err := ctl.SetText("값x"); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	if err := ctl.Backspace(); err != nil {
		t.Fatalf("Backspace: %v", err)
	}
	if err := ctl.Backspace(); err != nil {
		t.Fatalf("Backspace: %v", err)
	}
	if err := ctl.Backspace(); err != nil {
		t.Fatalf("Backspace on empty slot: %v", err)
	}

	want := "run();\nconsole.log('app.js:2 |  : ', );"
	if e.Text() != want {
		t.Errorf("expected %q, got %q", want, e.Text())
	}
}

func TestConfirmMovesCaretToEnd(t *testing.T) {
	e, ctl := startSession(t, "run();\nnext();", 0)

	if err := ctl.SetText("v"); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	s, err := ctl.Confirm()
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if s.State() != StateConfirmed || ctl.IsActive() {
		t.Errorf("expected confirmed inactive session, got %s active=%v", s.State(), ctl.IsActive())
	}
	if e.PrimaryCursor() != e.LineEndOffset(1) {
		t.Errorf("expected caret at end of log line %d, got %d", e.LineEndOffset(1), e.PrimaryCursor())
	}
}

func TestCancelKeepsEdits(t *testing.T) {
	e, ctl := startSession(t, "run();", 0)
	if err := ctl.Insert("q"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	caret := e.PrimaryCursor()

	s, err := ctl.Cancel()
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if s.State() != StateCancelled {
		t.Errorf("expected cancelled, got %s", s.State())
	}
	if !strings.Contains(e.Text(), "| q : ', q);") {
		t.Errorf("expected edits kept, got %q", e.Text())
	}
	if e.PrimaryCursor() != caret {
		t.Errorf("expected caret to stay at %d, got %d", caret, e.PrimaryCursor())
	}
	if err := ctl.Insert("x"); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestKeystrokeIsOneUndoStep(t *testing.T) {
	e, ctl := startSession(t, "run();", 0)
	before := e.UndoCount()

	if err := ctl.Insert("ab"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if e.UndoCount() != before+1 {
		t.Fatalf("expected %d undo entries, got %d", before+1, e.UndoCount())
	}
	if err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if !strings.HasSuffix(e.Text(), "|  : ', );") {
		t.Errorf("expected both slots reverted, got %q", e.Text())
	}
}

func TestUndoStepsBackOneKeystroke(t *testing.T) {
	e, ctl := startSession(t, "run();", 0)
	before := e.UndoCount()

	if err := ctl.Insert("a"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	afterA := e.Text()
	if err := ctl.Insert("b"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := ctl.Backspace(); err != nil {
		t.Fatalf("Backspace: %v", err)
	}
	if e.UndoCount() != before+3 {
		t.Fatalf("expected %d undo entries, got %d", before+3, e.UndoCount())
	}

	if err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if e.Text() != afterA {
		t.Errorf("expected %q after two undos, got %q", afterA, e.Text())
	}
}

func TestExternalEditMakesSessionStale(t *testing.T) {
	e, ctl := startSession(t, "run();", 0)

	if _, err := e.Insert(e.Len(), " // edited"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := e.Insert(7, "x"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := ctl.Insert("v"); !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if ctl.IsActive() {
		t.Error("stale session should end")
	}
}

func TestListenerSeesChanges(t *testing.T) {
	_, ctl := startSession(t, "run();", 0)

	var seen []string
	ctl.OnChange(func(s *Session) { seen = append(seen, s.State().String()+":"+s.Primary()) })

	_ = ctl.Insert("a")
	_, _ = ctl.Confirm()

	want := []string{"active:a", "confirmed:a"}
	if strings.Join(seen, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, seen)
	}
}

func TestBeginWithoutPlan(t *testing.T) {
	ctl := NewController(engine.New())
	if err := ctl.Begin(quicklogPlanWithoutPrimary()); !errors.Is(err, ErrNoPrimary) {
		t.Errorf("expected ErrNoPrimary, got %v", err)
	}
}

func quicklogPlanWithoutPrimary() placement.AnchoredPlan {
	return placement.AnchoredPlan{}
}
