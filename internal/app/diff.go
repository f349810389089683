package app

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffContext is the number of unchanged lines shown around a change.
const DiffContext = 2

type diffLine struct {
	op   diffmatchpatch.Operation
	text string
}

// Diff returns a unified-style line diff of before and after, or "" when
// they are equal.
func Diff(before, after, oldLabel, newLabel string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var all []diffLine
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			all = append(all, diffLine{op: d.Type, text: line})
		}
	}

	var out strings.Builder
	fmt.Fprintf(&out, "--- %s\n+++ %s\n", oldLabel, newLabel)

	oldLine, newLine := 1, 1
	for i := 0; i < len(all); {
		if all[i].op == diffmatchpatch.DiffEqual {
			oldLine++
			newLine++
			i++
			continue
		}

		start := i - DiffContext
		if start < 0 {
			start = 0
		}
		for start < i && all[start].op != diffmatchpatch.DiffEqual {
			start++
		}
		end := i
		for end < len(all) {
			if all[end].op != diffmatchpatch.DiffEqual {
				end++
				continue
			}
			run := end
			for run < len(all) && all[run].op == diffmatchpatch.DiffEqual {
				run++
			}
			if run < len(all) && run-end <= 2*DiffContext {
				end = run
				continue
			}
			end += min(DiffContext, run-end)
			break
		}

		lead := i - start
		hunkOld, hunkNew := oldLine-lead, newLine-lead
		var oldN, newN int
		var body strings.Builder
		for _, l := range all[start:end] {
			switch l.op {
			case diffmatchpatch.DiffEqual:
				oldN++
				newN++
				body.WriteString(" " + l.text + "\n")
			case diffmatchpatch.DiffDelete:
				oldN++
				body.WriteString("-" + l.text + "\n")
			case diffmatchpatch.DiffInsert:
				newN++
				body.WriteString("+" + l.text + "\n")
			}
		}
		fmt.Fprintf(&out, "@@ -%d,%d +%d,%d @@\n", hunkOld, oldN, hunkNew, newN)
		out.WriteString(body.String())

		for _, l := range all[i:end] {
			if l.op != diffmatchpatch.DiffInsert {
				oldLine++
			}
			if l.op != diffmatchpatch.DiffDelete {
				newLine++
			}
		}
		i = end
	}
	return out.String()
}

// ColorizeDiff colours the lines of a Diff result for a terminal.
// color.NoColor turns it into a no-op.
func ColorizeDiff(diff string) string {
	var (
		header = color.New(color.Bold)
		hunk   = color.New(color.FgCyan)
		del    = color.New(color.FgRed)
		ins    = color.New(color.FgGreen)
	)

	var out strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		nl := line[len(body):]
		switch {
		case strings.HasPrefix(body, "---"), strings.HasPrefix(body, "+++"):
			out.WriteString(header.Sprint(body))
		case strings.HasPrefix(body, "@@"):
			out.WriteString(hunk.Sprint(body))
		case strings.HasPrefix(body, "-"):
			out.WriteString(del.Sprint(body))
		case strings.HasPrefix(body, "+"):
			out.WriteString(ins.Sprint(body))
		default:
			out.WriteString(body)
		}
		out.WriteString(nl)
	}
	return out.String()
}
