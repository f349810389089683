package tui

import (
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/gdamore/tcell/v2"
)

// DefaultTheme is the chroma style used for colouring.
const DefaultTheme = "monokai"

// Highlighter colours buffer text by file name.
type Highlighter struct {
	lexer    chroma.Lexer
	style    *chroma.Style
	base     tcell.Style
	fallback bool
}

// NewHighlighter picks a lexer for fileName and the named chroma style.
func NewHighlighter(fileName, theme string) *Highlighter {
	lexer := lexers.Match(fileName)
	fallback := lexer == nil
	if fallback {
		lexer = lexers.Fallback
	}
	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}
	return &Highlighter{
		lexer:    chroma.Coalesce(lexer),
		style:    style,
		base:     tcell.StyleDefault,
		fallback: fallback,
	}
}

// Language returns the lexer name in lower case, or "" for plain text.
func (h *Highlighter) Language() string {
	cfg := h.lexer.Config()
	if cfg == nil || h.fallback {
		return ""
	}
	return strings.ToLower(cfg.Name)
}

// Colorize returns one style per byte of every line of text.
func (h *Highlighter) Colorize(text string) [][]tcell.Style {
	lineCount := strings.Count(text, "\n") + 1
	out := make([][]tcell.Style, 0, lineCount)

	iterator, err := h.lexer.Tokenise(nil, text)
	if err != nil {
		for _, line := range strings.Split(text, "\n") {
			out = append(out, h.fill(len(line), h.base))
		}
		return out
	}

	for _, tokens := range chroma.SplitTokensIntoLines(iterator.Tokens()) {
		var line []tcell.Style
		for _, tok := range tokens {
			st := h.styleFor(tok.Type)
			for range len(strings.TrimSuffix(tok.Value, "\n")) {
				line = append(line, st)
			}
		}
		out = append(out, line)
	}
	for len(out) < lineCount {
		out = append(out, nil)
	}
	return out
}

func (h *Highlighter) styleFor(t chroma.TokenType) tcell.Style {
	entry := h.style.Get(t)
	st := h.base
	if entry.Colour.IsSet() {
		st = st.Foreground(tcell.GetColor(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	return st
}

func (h *Highlighter) fill(n int, st tcell.Style) []tcell.Style {
	line := make([]tcell.Style, n)
	for i := range line {
		line[i] = st
	}
	return line
}

// StyleAt returns the style for byte col of a colourized line, or the
// default style past its end.
func StyleAt(line []tcell.Style, col int) tcell.Style {
	if col >= 0 && col < len(line) {
		return line[col]
	}
	return tcell.StyleDefault
}
