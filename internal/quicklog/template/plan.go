package template

import "strings"

// SegmentKind identifies a TabStopPlan segment.
type SegmentKind uint8

const (
	SegmentLiteral SegmentKind = iota // fixed text
	SegmentPrimary                    // the editable slot
	SegmentMirror                     // echoes the primary slot
	SegmentEnd                        // caret rest position after confirm
)

// String returns the name of the segment kind.
func (k SegmentKind) String() string {
	switch k {
	case SegmentPrimary:
		return "primary"
	case SegmentMirror:
		return "mirror"
	case SegmentEnd:
		return "end"
	default:
		return "literal"
	}
}

// Segment is one element of a TabStopPlan. Only literal segments carry Text.
type Segment struct {
	Kind SegmentKind
	Text string
}

// TabStopPlan is an ordered list of literal spans and variable slots,
// terminated by a single end marker. A plan with variable slots has
// exactly one primary slot, which precedes every mirror.
type TabStopPlan struct {
	Segments []Segment
}

// SlotOffset locates a slot inside the rendered plan, as byte offsets
// relative to the start of the rendered text.
type SlotOffset struct {
	Kind  SegmentKind
	Start int
	End   int
}

// Len returns the byte length of the slot's content.
func (s SlotOffset) Len() int {
	return s.End - s.Start
}

// Counts returns the number of primary and mirror slots.
func (p *TabStopPlan) Counts() (primaries, mirrors int) {
	for _, seg := range p.Segments {
		switch seg.Kind {
		case SegmentPrimary:
			primaries++
		case SegmentMirror:
			mirrors++
		}
	}
	return primaries, mirrors
}

// Render returns the plan's text with every slot holding primary.
func (p *TabStopPlan) Render(primary string) string {
	var sb strings.Builder
	for _, seg := range p.Segments {
		switch seg.Kind {
		case SegmentLiteral:
			sb.WriteString(seg.Text)
		case SegmentPrimary, SegmentMirror:
			sb.WriteString(primary)
		}
	}
	return sb.String()
}

// SlotOffsets returns the position of every slot, including the end
// marker, when each slot holds primary.
func (p *TabStopPlan) SlotOffsets(primary string) []SlotOffset {
	var slots []SlotOffset
	pos := 0
	for _, seg := range p.Segments {
		switch seg.Kind {
		case SegmentLiteral:
			pos += len(seg.Text)
		case SegmentPrimary, SegmentMirror:
			slots = append(slots, SlotOffset{Kind: seg.Kind, Start: pos, End: pos + len(primary)})
			pos += len(primary)
		case SegmentEnd:
			slots = append(slots, SlotOffset{Kind: seg.Kind, Start: pos, End: pos})
		}
	}
	return slots
}

// PrimaryOffset returns the start of the primary slot, or -1 if the plan
// has none.
func (p *TabStopPlan) PrimaryOffset() int {
	for _, slot := range p.SlotOffsets("") {
		if slot.Kind == SegmentPrimary {
			return slot.Start
		}
	}
	return -1
}

// TrimLeadingNewline returns a copy of the plan without the line break
// that starts its first literal segment.
func (p *TabStopPlan) TrimLeadingNewline() *TabStopPlan {
	out := &TabStopPlan{Segments: make([]Segment, 0, len(p.Segments))}
	for i, seg := range p.Segments {
		if i == 0 && seg.Kind == SegmentLiteral {
			seg.Text = strings.TrimPrefix(seg.Text, "\n")
			if seg.Text == "" {
				continue
			}
		}
		out.Segments = append(out.Segments, seg)
	}
	return out
}
