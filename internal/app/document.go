package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/quicklog/internal/engine"
	"github.com/dshills/quicklog/internal/engine/buffer"
)

// Document is a file loaded into an engine. The engine always holds LF
// text; the file's own line ending is restored on save.
type Document struct {
	// Path is the file path (empty for scratch buffers).
	Path string

	// Name is the display name and the file name used in log statements.
	Name string

	// Engine holds the text, cursors and undo history.
	Engine *engine.Engine

	// LineEnding is the line ending detected when the file was read.
	LineEnding buffer.LineEnding

	saved string
	mode  fs.FileMode
}

// NewDocument creates a document from file content.
func NewDocument(path string, content []byte, opts ...engine.Option) *Document {
	text := string(content)
	ending := buffer.DetectLineEnding(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")

	name := filepath.Base(path)
	if path == "" {
		name = "Untitled"
	}

	opts = append([]engine.Option{engine.WithContent(text)}, opts...)
	return &Document{
		Path:       path,
		Name:       name,
		Engine:     engine.New(opts...),
		LineEnding: ending,
		saved:      text,
		mode:       0o644,
	}
}

// NewScratchDocument creates an empty document without a path.
func NewScratchDocument(name string) *Document {
	doc := NewDocument("", nil)
	if name != "" {
		doc.Name = name
	}
	return doc
}

// OpenDocument reads path into a new document.
func OpenDocument(path string, opts ...engine.Option) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}
	doc := NewDocument(path, data, opts...)
	if info, err := os.Stat(path); err == nil {
		doc.mode = info.Mode().Perm()
	}
	return doc, nil
}

// Content returns the current LF text.
func (d *Document) Content() string {
	return d.Engine.Text()
}

// Encoded returns the current text with the file's line ending.
func (d *Document) Encoded() string {
	return encode(d.Content(), d.LineEnding)
}

// SavedContent returns the LF text as of the last load or save.
func (d *Document) SavedContent() string {
	return d.saved
}

// IsModified reports whether the text differs from the saved text.
func (d *Document) IsModified() bool {
	return d.Content() != d.saved
}

// IsScratch returns true if this is a scratch buffer (no file path).
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// Save writes the document back to Path.
func (d *Document) Save() error {
	if d.IsScratch() {
		return NewOperationError("save", d.Name, ErrScratchDocument)
	}
	return d.SaveAs(d.Path)
}

// SaveAs writes the document to path and makes it the document's path.
func (d *Document) SaveAs(path string) error {
	content := d.Content()
	if err := os.WriteFile(path, []byte(encode(content, d.LineEnding)), d.mode); err != nil {
		return NewOperationError("save", path, err)
	}
	d.Path = path
	d.Name = filepath.Base(path)
	d.saved = content
	return nil
}

// Diff returns a line diff from the saved text to the current text, or ""
// when nothing changed.
func (d *Document) Diff() string {
	return Diff(d.saved, d.Content(), d.Name, d.Name)
}

func encode(text string, ending buffer.LineEnding) string {
	if ending == buffer.LineEndingCRLF {
		return strings.ReplaceAll(text, "\n", "\r\n")
	}
	return text
}

// IsNotExist reports whether err means the file is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
