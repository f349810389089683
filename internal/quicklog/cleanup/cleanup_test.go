package cleanup

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/dshills/quicklog/internal/engine/buffer"
)

func TestScanExample(t *testing.T) {
	buf := buffer.NewBufferFromString("x\nconsole.log('f.js:3 | y : ', y);\nz")

	set := Scan(buf)
	if !reflect.DeepEqual(set, DeletionSet{1}) {
		t.Fatalf("expected {1}, got %v", set)
	}
	if err := Apply(buf, set); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if buf.Text() != "x\nz" {
		t.Errorf("expected %q, got %q", "x\nz", buf.Text())
	}
}

func TestMatches(t *testing.T) {
	s := NewScanner()
	tests := []struct {
		line string
		want bool
	}{
		{"console.log('a.js:12 | total : ', total);", true},
		{"    console.log('a.js:12   | x');", true},
		{"// console.log('a.js:1 |')", true},
		{"console.log('a.js: | x')", false},
		{"console.log(\"a.js:12 | x\")", false},
		{"console.log('a.js:12 x |')", false},
		{"consoleXlog('a.js:1 |')", false},
		{"console.log('no line', x);", false},
	}
	for _, tt := range tests {
		if got := s.Matches(tt.line); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestPatternSource(t *testing.T) {
	if got := NewScanner().Pattern(); got != `console\.log\('[^']*:\d+\s*\|` {
		t.Errorf("unexpected pattern %q", got)
	}
}

func TestWithCallName(t *testing.T) {
	s := NewScanner(WithCallName("logger.debug"))
	if !s.Matches("logger.debug('main.py:3 | x : ', x)") {
		t.Error("expected custom call name to match")
	}
	if s.Matches("console.log('a.js:1 | x')") {
		t.Error("default call name should not match a custom scanner")
	}
}

func TestApplyFinalLineConsumesPreviousBreak(t *testing.T) {
	buf := buffer.NewBufferFromString("keep\nconsole.log('a.js:2 | v : ', v);")

	if err := Apply(buf, Scan(buf)); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if buf.Text() != "keep" {
		t.Errorf("expected no dangling break, got %q", buf.Text())
	}
}

func TestApplyOnlyLine(t *testing.T) {
	buf := buffer.NewBufferFromString("console.log('a.js:2 | v : ', v);")
	if err := Apply(buf, Scan(buf)); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if buf.Text() != "" {
		t.Errorf("expected empty buffer, got %q", buf.Text())
	}
}

func TestDeletionOrderProperty(t *testing.T) {
	lines := []string{
		"a",
		"console.log('a.js:2 | a : ', a);",
		"b",
		"console.log('a.js:4 | b : ', b);",
		"console.log('a.js:5 | c : ', c);",
		"c",
		"console.log('a.js:7 | d : ', d);",
	}
	buf := buffer.NewBufferFromString(strings.Join(lines, "\n"))

	set := Scan(buf)
	if !reflect.DeepEqual(set, DeletionSet{1, 3, 4, 6}) {
		t.Fatalf("unexpected set %v", set)
	}
	if err := Apply(buf, set); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if int(buf.LineCount()) != len(lines)-set.Len() {
		t.Errorf("expected %d lines, got %d", len(lines)-set.Len(), buf.LineCount())
	}
	if buf.Text() != "a\nb\nc" {
		t.Errorf("expected %q, got %q", "a\nb\nc", buf.Text())
	}
}

func TestScanApplyIdempotent(t *testing.T) {
	buf := buffer.NewBufferFromString("console.log('a.js:1 | a : ', a);\nx\nconsole.log('a.js:3 | b : ', b);\n")

	if err := Apply(buf, Scan(buf)); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if again := Scan(buf); !again.IsEmpty() {
		t.Errorf("expected empty set after apply, got %v", again)
	}
	if buf.Text() != "x\n" {
		t.Errorf("expected %q, got %q", "x\n", buf.Text())
	}
}

func TestApplyRejectsOutOfRange(t *testing.T) {
	buf := buffer.NewBufferFromString("a\nb")
	if err := Apply(buf, DeletionSet{0, 5}); !errors.Is(err, ErrLineOutOfRange) {
		t.Fatalf("expected ErrLineOutOfRange, got %v", err)
	}
	if buf.Text() != "a\nb" {
		t.Errorf("buffer changed: %q", buf.Text())
	}
}

func TestApplySortsUnorderedSet(t *testing.T) {
	buf := buffer.NewBufferFromString("0\n1\n2\n3")
	if err := Apply(buf, DeletionSet{2, 0}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if buf.Text() != "1\n3" {
		t.Errorf("expected %q, got %q", "1\n3", buf.Text())
	}
}

func TestDescendingAndOneBased(t *testing.T) {
	set := DeletionSet{1, 4, 9}
	if got := set.Descending(); !reflect.DeepEqual(got, []int{9, 4, 1}) {
		t.Errorf("Descending() = %v", got)
	}
	if got := set.OneBased(); !reflect.DeepEqual(got, []int{2, 5, 10}) {
		t.Errorf("OneBased() = %v", got)
	}
}

func TestPreviewCRLF(t *testing.T) {
	text := "a\r\nconsole.log('a.js:2 | x : ', x);\r\nb"
	set := NewScanner().ScanText(text)
	got, err := Preview(text, set)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if got != "a\r\nb" {
		t.Errorf("expected %q, got %q", "a\r\nb", got)
	}
}
