package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument("/path/to/file.js", []byte("let a = 1;"))

	if doc.Path != "/path/to/file.js" {
		t.Errorf("expected path '/path/to/file.js', got '%s'", doc.Path)
	}
	if doc.Name != "file.js" {
		t.Errorf("expected name 'file.js', got '%s'", doc.Name)
	}
	if doc.Engine == nil {
		t.Fatal("expected engine to be initialized")
	}
	if doc.IsModified() {
		t.Error("expected document to not be modified initially")
	}
	if doc.IsScratch() {
		t.Error("expected document to not be scratch")
	}
}

func TestNewDocument_EmptyPath(t *testing.T) {
	doc := NewDocument("", []byte("content"))

	if doc.Name != "Untitled" {
		t.Errorf("expected name 'Untitled', got '%s'", doc.Name)
	}
	if !doc.IsScratch() {
		t.Error("expected document to be scratch")
	}
}

func TestNewScratchDocument(t *testing.T) {
	doc := NewScratchDocument("notes")
	if doc.Name != "notes" {
		t.Errorf("expected name 'notes', got '%s'", doc.Name)
	}
	if doc.Content() != "" {
		t.Errorf("expected empty content, got %q", doc.Content())
	}
}

func TestDocument_CRLFRoundTrip(t *testing.T) {
	doc := NewDocument("win.js", []byte("a\r\nb\r\n"))

	if doc.Content() != "a\nb\n" {
		t.Errorf("expected LF content, got %q", doc.Content())
	}
	if doc.Engine.LineText(1) != "b" {
		t.Errorf("expected line 'b', got %q", doc.Engine.LineText(1))
	}
	if doc.Encoded() != "a\r\nb\r\n" {
		t.Errorf("expected CRLF encoding, got %q", doc.Encoded())
	}
}

func TestDocument_Modified(t *testing.T) {
	doc := NewDocument("f.js", []byte("abc"))
	if _, err := doc.Engine.Insert(3, "d"); err != nil {
		t.Fatal(err)
	}
	if !doc.IsModified() {
		t.Error("expected document to be modified")
	}
	if err := doc.Engine.Undo(); err != nil {
		t.Fatal(err)
	}
	if doc.IsModified() {
		t.Error("expected undo to clear the modification")
	}
}

func TestDocument_SaveAs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.js")
	if err := os.WriteFile(path, []byte("x\r\ny\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	doc, err := OpenDocument(path)
	if err != nil {
		t.Fatalf("OpenDocument() failed: %v", err)
	}
	if _, err := doc.Engine.Insert(doc.Engine.Len(), "z\n"); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out.js")
	if err := doc.SaveAs(out); err != nil {
		t.Fatalf("SaveAs() failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "x\r\ny\r\nz\r\n" {
		t.Errorf("expected CRLF output, got %q", data)
	}
	if doc.Name != "out.js" || doc.IsModified() {
		t.Errorf("expected saved document named out.js, got %q modified=%v", doc.Name, doc.IsModified())
	}
	if info, err := os.Stat(out); err == nil && info.Mode().Perm() != 0o600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestDocument_SaveScratch(t *testing.T) {
	err := NewScratchDocument("").Save()
	if !errors.Is(err, ErrScratchDocument) {
		t.Errorf("expected ErrScratchDocument, got %v", err)
	}
}

func TestOpenDocument_NotFound(t *testing.T) {
	_, err := OpenDocument(filepath.Join(t.TempDir(), "missing.js"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Op != "open" {
		t.Errorf("expected open OperationError, got %v", err)
	}
}

func TestDocument_Diff(t *testing.T) {
	doc := NewDocument("f.js", []byte("a\nb\n"))
	if doc.Diff() != "" {
		t.Errorf("expected empty diff, got %q", doc.Diff())
	}
	if _, err := doc.Engine.Insert(2, "log\n"); err != nil {
		t.Fatal(err)
	}
	if d := doc.Diff(); !strings.Contains(d, "+log\n") {
		t.Errorf("expected added line in diff, got %q", d)
	}
}
