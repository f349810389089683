package placement

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/quicklog/internal/engine/buffer"
)

// VisualPosition is a screen cell position: tabs are expanded and wide
// graphemes count for their display width.
type VisualPosition struct {
	Line   int
	Column int
}

// CaretPosition is a caret in every coordinate system a host may need.
type CaretPosition struct {
	Offset  buffer.ByteOffset
	Logical buffer.Point
	Visual  VisualPosition
}

// VisualColumn returns the display column reached after s.
func VisualColumn(s string, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	col := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		var width int
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		if cluster == "\t" {
			col += tabWidth - col%tabWidth
			continue
		}
		col += width
	}
	return col
}

// resolve maps an offset relative to inserted text to a CaretPosition.
func resolve(t Target, insertAt buffer.ByteOffset, text string, rel int, tabWidth int) CaretPosition {
	base := t.pointAt(insertAt)
	pre := text[:rel]

	line := base.Line
	var prefix string
	if nl := strings.LastIndexByte(pre, '\n'); nl >= 0 {
		line += uint32(strings.Count(pre, "\n"))
		prefix = pre[nl+1:]
	} else {
		prefix = t.linePrefix(insertAt) + pre
	}

	return CaretPosition{
		Offset:  insertAt + buffer.ByteOffset(rel),
		Logical: buffer.Point{Line: line, Column: uint32(len(prefix))},
		Visual:  VisualPosition{Line: int(line), Column: VisualColumn(prefix, tabWidth)},
	}
}
