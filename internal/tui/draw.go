package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/quicklog/internal/engine"
	"github.com/dshills/quicklog/internal/quicklog/placement"
	"github.com/dshills/quicklog/internal/quicklog/template"
)

var (
	statusStyle = tcell.StyleDefault.Reverse(true)
	dialogStyle = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
)

// Draw renders the document and status line.
func (e *Editor) Draw() {
	e.screen.Clear()
	w, h := e.screen.Size()
	rows := max(h-1, 1)

	eng := e.doc.Engine
	caret := e.caret()
	pt := eng.OffsetToPoint(caret)

	line := int(pt.Line)
	if line < e.top {
		e.top = line
	}
	if line >= e.top+rows {
		e.top = line - rows + 1
	}

	e.refreshColors()
	sel := eng.PrimarySelection()
	var slots []placement.Slot
	if s := e.snippets.Active(); s != nil {
		slots = s.Slots()
	}

	tw := eng.TabWidth()
	lines := int(eng.LineCount())
	for row := 0; row < rows && e.top+row < lines; row++ {
		idx := e.top + row
		start := eng.LineStartOffset(uint32(idx))
		var colors []tcell.Style
		if idx < len(e.colors) {
			colors = e.colors[idx]
		}

		x, col := 0, 0
		rest := eng.LineText(uint32(idx))
		state := -1
		for len(rest) > 0 && x < w {
			var cluster string
			var width int
			cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)

			off := start + engine.ByteOffset(col)
			st := decorate(StyleAt(colors, col), off, sel, slots)
			if cluster == "\t" {
				width = tw - x%tw
				for i := 0; i < width && x+i < w; i++ {
					e.screen.SetContent(x+i, row, ' ', nil, st)
				}
			} else {
				runes := []rune(cluster)
				e.screen.SetContent(x, row, runes[0], runes[1:], st)
			}
			x += width
			col += len(cluster)
		}
	}

	e.drawStatus(w, h-1, pt)

	cx := placement.VisualColumn(eng.LineText(pt.Line)[:pt.Column], tw)
	e.screen.ShowCursor(cx, line-e.top)
	e.screen.Show()
}

func (e *Editor) refreshColors() {
	rev := e.doc.Engine.RevisionID()
	if e.hasColor && rev == e.colorRev {
		return
	}
	e.colors = e.hl.Colorize(e.doc.Engine.Text())
	e.colorRev = rev
	e.hasColor = true
}

// decorate layers selection and tab-stop slot highlighting over st.
func decorate(st tcell.Style, off engine.ByteOffset, sel engine.Selection, slots []placement.Slot) tcell.Style {
	if !sel.IsEmpty() {
		if r := sel.Range(); off >= r.Start && off < r.End {
			st = st.Reverse(true)
		}
	}
	for _, s := range slots {
		if off < s.Range.Start || off >= s.Range.End {
			continue
		}
		switch s.Kind {
		case template.SegmentPrimary:
			st = st.Underline(true).Bold(true)
		case template.SegmentMirror:
			st = st.Underline(true)
		}
	}
	return st
}

func (e *Editor) drawStatus(w, y int, pt engine.Point) {
	name := e.doc.Name
	if e.doc.IsModified() {
		name += " *"
	}
	left := fmt.Sprintf(" %s  Ln %d, Col %d", name, pt.Line+1, pt.Column+1)
	if e.status != "" {
		left += "  " + e.status
	}

	var right []string
	if e.snippets.IsActive() {
		right = append(right, "LOG EDIT")
	}
	if lang := e.hl.Language(); lang != "" {
		right = append(right, lang)
	}
	line := padBetween(left, strings.Join(right, "  ")+" ", w)
	putString(e.screen, 0, y, w, line, statusStyle)
}

func (e *Editor) drawDialog(title, msg string) {
	w, h := e.screen.Size()
	body := []string{title, "", msg, "", "[y] yes   [n] no"}

	width := 0
	for _, l := range body {
		width = max(width, uniseg.StringWidth(l))
	}
	width = min(width+4, w)
	height := min(len(body)+2, h)
	x0, y0 := (w-width)/2, (h-height)/2

	for y := range height {
		for x := range width {
			e.screen.SetContent(x0+x, y0+y, ' ', nil, dialogStyle)
		}
	}
	for i, l := range body {
		st := dialogStyle
		if i == 0 {
			st = st.Bold(true)
		}
		putString(e.screen, x0+2, y0+1+i, width-4, l, st)
	}
	e.screen.HideCursor()
}

// padBetween left-aligns left and right-aligns right within width cells.
func padBetween(left, right string, width int) string {
	gap := width - uniseg.StringWidth(left) - uniseg.StringWidth(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// putString draws s at (x, y), clipped to width cells.
func putString(s tcell.Screen, x, y, width int, text string, st tcell.Style) {
	pos := 0
	state := -1
	for len(text) > 0 && pos < width {
		var cluster string
		var w int
		cluster, text, w, state = uniseg.FirstGraphemeClusterInString(text, state)
		runes := []rune(cluster)
		s.SetContent(x+pos, y, runes[0], runes[1:], st)
		pos += max(w, 1)
	}
	for ; pos < width; pos++ {
		s.SetContent(x+pos, y, ' ', nil, st)
	}
}
