// Package template expands log statement templates.
//
// A template is plain text with three tokens: ${file}, ${line} and ${var}.
// Any other ${...} sequence is copied through unchanged.
package template

import (
	"strconv"
	"strings"

	"github.com/dshills/quicklog/internal/quicklog/extract"
)

// Tokens recognized in templates.
const (
	TokenFile = "${file}"
	TokenLine = "${line}"
	TokenVar  = "${var}"
)

// Default is the template used when none is configured.
const Default Template = "console.log('${file}:${line} | ${var} : ', ${var});"

// Placeholder is the literal overtyped in placeholder mode.
const Placeholder = "variableName"

// Template is a log statement template.
type Template string

// VarCount returns the number of ${var} tokens.
func (t Template) VarCount() int {
	return strings.Count(string(t), TokenVar)
}

// IsEmpty reports whether the template has no non-space text.
func (t Template) IsEmpty() bool {
	return strings.TrimSpace(string(t)) == ""
}

// String returns the raw template text.
func (t Template) String() string {
	return string(t)
}

// Substitute replaces every token with its value. Values are not rescanned,
// so a value containing a token is inserted verbatim.
func Substitute(tpl Template, file string, line int, v string) string {
	return strings.NewReplacer(
		TokenFile, file,
		TokenLine, strconv.Itoa(line),
		TokenVar, v,
	).Replace(string(tpl))
}

func substituteFixed(s, file string, line int) string {
	return strings.NewReplacer(
		TokenFile, file,
		TokenLine, strconv.Itoa(line),
	).Replace(s)
}

// ReportedLine is the line number written into a statement: the statement
// lands on the line after the caret line.
func ReportedLine(ctx extract.EditorContext) int {
	return ctx.LineNumber + 1
}

// ExpandLiteral substitutes all tokens using the context's selection and
// prefixes a line break and the indentation.
func ExpandLiteral(tpl Template, ctx extract.EditorContext) string {
	return "\n" + ctx.Indentation + Substitute(tpl, ctx.FileName, ReportedLine(ctx), ctx.SelectionText())
}

// Preview renders the template with fixed sample values.
func Preview(tpl Template) string {
	return Substitute(tpl, "Example.js", 42, "myVariable")
}

// ExpansionKind tells how an Expansion should be placed.
type ExpansionKind uint8

const (
	// ExpansionLiteral is final text with nothing left to edit.
	ExpansionLiteral ExpansionKind = iota
	// ExpansionPlaceholder is final text containing Placeholder to overtype.
	ExpansionPlaceholder
	// ExpansionTabStop carries a TabStopPlan for interactive editing.
	ExpansionTabStop
)

// String returns the name of the kind.
func (k ExpansionKind) String() string {
	switch k {
	case ExpansionPlaceholder:
		return "placeholder"
	case ExpansionTabStop:
		return "tab-stop"
	default:
		return "literal"
	}
}

// Expansion is the result of expanding a template for one context.
// Text is the text to insert; for ExpansionTabStop it is the plan rendered
// with an empty primary slot.
type Expansion struct {
	Kind ExpansionKind
	Text string
	Plan *TabStopPlan
}

// Expand picks literal mode when the context has a selection and
// interactive mode otherwise.
func Expand(tpl Template, ctx extract.EditorContext) Expansion {
	if ctx.HasSelection() {
		return Expansion{Kind: ExpansionLiteral, Text: ExpandLiteral(tpl, ctx)}
	}
	return ExpandInteractive(tpl, ctx)
}

// ExpandInteractive splits the template at its ${var} tokens. The first
// becomes the primary slot, the rest mirror it. Without ${var} tokens the
// result is a literal expansion.
func ExpandInteractive(tpl Template, ctx extract.EditorContext) Expansion {
	parts := strings.Split(string(tpl), TokenVar)
	if len(parts) == 1 {
		return Expansion{
			Kind: ExpansionLiteral,
			Text: "\n" + ctx.Indentation + substituteFixed(parts[0], ctx.FileName, ReportedLine(ctx)),
		}
	}

	line := ReportedLine(ctx)
	plan := &TabStopPlan{}
	for i, part := range parts {
		text := substituteFixed(part, ctx.FileName, line)
		if i == 0 {
			text = "\n" + ctx.Indentation + text
		}
		if text != "" {
			plan.Segments = append(plan.Segments, Segment{Kind: SegmentLiteral, Text: text})
		}
		switch {
		case i == len(parts)-1:
		case i == 0:
			plan.Segments = append(plan.Segments, Segment{Kind: SegmentPrimary})
		default:
			plan.Segments = append(plan.Segments, Segment{Kind: SegmentMirror})
		}
	}
	plan.Segments = append(plan.Segments, Segment{Kind: SegmentEnd})

	return Expansion{Kind: ExpansionTabStop, Text: plan.Render(""), Plan: plan}
}

// ExpandPlaceholder substitutes Placeholder for ${var}.
func ExpandPlaceholder(tpl Template, ctx extract.EditorContext) Expansion {
	if tpl.VarCount() == 0 {
		return ExpandInteractive(tpl, ctx)
	}
	return Expansion{
		Kind: ExpansionPlaceholder,
		Text: "\n" + ctx.Indentation + Substitute(tpl, ctx.FileName, ReportedLine(ctx), Placeholder),
	}
}
