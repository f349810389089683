// Package placement turns an expanded log statement into concrete buffer
// positions: where the text goes and where the caret, carets, selection
// or tab-stop session land afterwards.
package placement

import (
	"strings"

	"github.com/dshills/quicklog/internal/engine/buffer"
	"github.com/dshills/quicklog/internal/quicklog/extract"
	"github.com/dshills/quicklog/internal/quicklog/template"
)

// Markers located in multicaret mode.
const (
	MarkerPipe  = "| "
	MarkerComma = ", )"
)

// Reader is the read side of a text buffer needed for placement.
type Reader interface {
	LineCount() uint32
	LineText(line uint32) string
	OffsetToPoint(offset buffer.ByteOffset) buffer.Point
	LineStartOffset(line uint32) buffer.ByteOffset
	LineEndOffset(line uint32) buffer.ByteOffset
}

// Target describes the caret line a statement is placed relative to.
type Target struct {
	Line          uint32
	LineStart     buffer.ByteOffset
	LineEnd       buffer.ByteOffset
	LineText      string
	NextLineStart buffer.ByteOffset
	HasNextLine   bool
}

// TargetAt captures the Target for the line containing caret.
func TargetAt(buf Reader, caret buffer.ByteOffset) Target {
	line := buf.OffsetToPoint(caret).Line
	t := Target{
		Line:      line,
		LineStart: buf.LineStartOffset(line),
		LineEnd:   buf.LineEndOffset(line),
		LineText:  buf.LineText(line),
	}
	if line+1 < buf.LineCount() {
		t.HasNextLine = true
		t.NextLineStart = buf.LineStartOffset(line + 1)
	}
	return t
}

func (t Target) pointAt(offset buffer.ByteOffset) buffer.Point {
	if t.HasNextLine && offset == t.NextLineStart {
		return buffer.Point{Line: t.Line + 1}
	}
	return buffer.Point{Line: t.Line, Column: uint32(offset - t.LineStart)}
}

func (t Target) linePrefix(offset buffer.ByteOffset) string {
	if t.HasNextLine && offset == t.NextLineStart {
		return ""
	}
	n := int(offset - t.LineStart)
	if n > len(t.LineText) {
		n = len(t.LineText)
	}
	return t.LineText[:n]
}

// Options configures a Planner.
type Options struct {
	Insertion   InsertionStrategy
	NoSelection NoSelectionStrategy
	TabWidth    int
}

// AnchoredPlan is a tab-stop plan anchored at an absolute offset.
// Suffix is inserted after the end marker.
type AnchoredPlan struct {
	Base   buffer.ByteOffset
	Plan   *template.TabStopPlan
	Suffix string
	Slots  []Slot
}

// Slot is a plan slot at absolute buffer offsets.
type Slot struct {
	Kind  template.SegmentKind
	Range buffer.Range
}

// SlotsFor returns absolute slot ranges when the primary slot holds text.
func (a *AnchoredPlan) SlotsFor(primary string) []Slot {
	rel := a.Plan.SlotOffsets(primary)
	slots := make([]Slot, len(rel))
	for i, s := range rel {
		slots[i] = Slot{
			Kind:  s.Kind,
			Range: buffer.NewRange(a.Base+buffer.ByteOffset(s.Start), a.Base+buffer.ByteOffset(s.End)),
		}
	}
	return slots
}

// Text returns the full inserted text when the primary slot holds text.
func (a *AnchoredPlan) Text(primary string) string {
	return a.Plan.Render(primary) + a.Suffix
}

// EndOffset returns the end marker position when the primary slot holds text.
func (a *AnchoredPlan) EndOffset(primary string) buffer.ByteOffset {
	for _, s := range a.SlotsFor(primary) {
		if s.Kind == template.SegmentEnd {
			return s.Range.Start
		}
	}
	return a.Base + buffer.ByteOffset(len(a.Plan.Render(primary)))
}

// PrimaryRange returns the primary slot range when it holds text.
func (a *AnchoredPlan) PrimaryRange(primary string) buffer.Range {
	for _, s := range a.SlotsFor(primary) {
		if s.Kind == template.SegmentPrimary {
			return s.Range
		}
	}
	end := a.EndOffset(primary)
	return buffer.NewRange(end, end)
}

// Mode identifies which kind of LogInsertion was planned.
type Mode uint8

const (
	ModeLiteral Mode = iota
	ModePlaceholder
	ModeMulticaret
	ModeTabStop
)

// String returns the name of the mode.
func (m Mode) String() string {
	switch m {
	case ModePlaceholder:
		return "placeholder"
	case ModeMulticaret:
		return "multicaret"
	case ModeTabStop:
		return "tab-stop"
	default:
		return "literal"
	}
}

// LogInsertion is a fully resolved insertion. At most one of Plan, Carets
// and Selection is set; Caret is always the end of the statement.
type LogInsertion struct {
	Offset    buffer.ByteOffset
	Text      string
	Caret     buffer.ByteOffset
	Plan      *AnchoredPlan
	Carets    []CaretPosition
	Selection *buffer.Range
}

// Mode reports which placement the insertion carries.
func (li LogInsertion) Mode() Mode {
	switch {
	case li.Plan != nil:
		return ModeTabStop
	case len(li.Carets) > 0:
		return ModeMulticaret
	case li.Selection != nil:
		return ModePlaceholder
	default:
		return ModeLiteral
	}
}

// Collapse returns the single caret used by hosts without multi-caret
// support: the last planned caret, or Caret when none are planned.
func (li LogInsertion) Collapse() buffer.ByteOffset {
	if len(li.Carets) == 0 {
		return li.Caret
	}
	return li.Carets[len(li.Carets)-1].Offset
}

// CaretOffsets returns the offsets of the planned carets.
func (li LogInsertion) CaretOffsets() []buffer.ByteOffset {
	out := make([]buffer.ByteOffset, len(li.Carets))
	for i, c := range li.Carets {
		out[i] = c.Offset
	}
	return out
}

// Planner computes LogInsertions for one configuration.
type Planner struct {
	opts Options
}

// New creates a Planner.
func New(opts Options) *Planner {
	if opts.TabWidth <= 0 {
		opts.TabWidth = 4
	}
	return &Planner{opts: opts}
}

// Options returns the planner configuration.
func (p *Planner) Options() Options {
	return p.opts
}

// Expand expands tpl the way the configured no-selection strategy needs.
func (p *Planner) Expand(tpl template.Template, ctx extract.EditorContext) template.Expansion {
	if ctx.HasSelection() {
		return template.Expand(tpl, ctx)
	}
	if p.opts.NoSelection == NoSelectionPlaceholder {
		return template.ExpandPlaceholder(tpl, ctx)
	}
	return template.ExpandInteractive(tpl, ctx)
}

// Plan resolves an expansion against the caret line.
func (p *Planner) Plan(t Target, exp template.Expansion) LogInsertion {
	offset, text, shift := p.locate(t, exp.Text)

	li := LogInsertion{
		Offset: offset,
		Text:   text,
		Caret:  offset + buffer.ByteOffset(len(exp.Text)+shift),
	}

	switch exp.Kind {
	case template.ExpansionPlaceholder:
		if i := strings.Index(text, template.Placeholder); i >= 0 {
			r := buffer.NewRange(offset+buffer.ByteOffset(i), offset+buffer.ByteOffset(i+len(template.Placeholder)))
			li.Selection = &r
		}

	case template.ExpansionTabStop:
		if p.opts.NoSelection == NoSelectionMulticaret {
			for _, rel := range multicaretOffsets(exp) {
				li.Carets = append(li.Carets, resolve(t, offset, text, rel+shift, p.opts.TabWidth))
			}
			break
		}

		plan := exp.Plan
		var suffix string
		if shift != 0 {
			plan = plan.TrimLeadingNewline()
			suffix = "\n"
		}
		anchored := &AnchoredPlan{Base: offset, Plan: plan, Suffix: suffix}
		anchored.Slots = anchored.SlotsFor("")
		li.Plan = anchored
	}

	return li
}

// locate picks the insertion offset and final text. shift is the change in
// relative offsets caused by dropping the leading line break.
func (p *Planner) locate(t Target, text string) (buffer.ByteOffset, string, int) {
	if p.opts.Insertion == InsertNextLine && t.HasNextLine && strings.HasPrefix(text, "\n") {
		return t.NextLineStart, text[1:] + "\n", -1
	}
	return t.LineEnd, text, 0
}

// multicaretOffsets returns fill-in positions relative to exp.Text: after
// the first "| " and after the ", " that precedes ")". Templates lacking
// either marker fall back to the variable slot starts.
func multicaretOffsets(exp template.Expansion) []int {
	text := exp.Text
	pipe := strings.Index(text, MarkerPipe)
	comma := -1
	if pipe >= 0 {
		if i := strings.Index(text[pipe:], MarkerComma); i >= 0 {
			comma = pipe + i
		}
	}
	if pipe >= 0 && comma >= 0 {
		return []int{pipe + len(MarkerPipe), comma + 2}
	}

	var out []int
	for _, slot := range exp.Plan.SlotOffsets("") {
		if slot.Kind == template.SegmentPrimary || slot.Kind == template.SegmentMirror {
			out = append(out, slot.Start)
		}
	}
	return out
}
