package cursor

import (
	"testing"

	"github.com/dshills/quicklog/internal/engine/buffer"
)

func TestSelectionBounds(t *testing.T) {
	sel := NewSelection(20, 10)

	if sel.Start() != 10 || sel.End() != 20 {
		t.Errorf("expected 10..20, got %d..%d", sel.Start(), sel.End())
	}
	if sel.Range() != buffer.NewRange(10, 20) {
		t.Errorf("unexpected range %v", sel.Range())
	}
	if sel.IsEmpty() {
		t.Error("backward selection should not be empty")
	}
	if !NewCursorSelection(5).IsEmpty() {
		t.Error("caret selection should be empty")
	}
}

func TestSelectionExtendAndMove(t *testing.T) {
	sel := NewCursorSelection(10).Extend(15)
	if sel.Anchor != 10 || sel.Head != 15 {
		t.Errorf("Extend: got %v", sel)
	}
	moved := sel.MoveTo(3)
	if !moved.IsEmpty() || moved.Head != 3 {
		t.Errorf("MoveTo: got %v", moved)
	}
}

func TestSelectionClamp(t *testing.T) {
	sel := NewSelection(-4, 50).Clamp(30)
	if sel.Anchor != 0 || sel.Head != 30 {
		t.Errorf("expected 0->30, got %v", sel)
	}
}

func TestCursorSetKeepsDistinctCarets(t *testing.T) {
	cs := NewCursorSetAt(40)
	cs.Add(NewCursorSelection(12))

	if cs.Count() != 2 {
		t.Fatalf("expected 2 carets, got %d", cs.Count())
	}
	if cs.PrimaryCursor() != 12 {
		t.Errorf("primary should be lowest caret, got %d", cs.PrimaryCursor())
	}
	if !cs.IsMulti() {
		t.Error("expected multi-caret set")
	}
}

func TestCursorSetMergesDuplicatesAndOverlaps(t *testing.T) {
	cs := NewCursorSetAt(5)
	cs.SetAll([]Selection{
		NewCursorSelection(5),
		NewCursorSelection(5),
		NewSelection(10, 20),
		NewSelection(15, 25),
	})

	all := cs.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 selections, got %v", all)
	}
	if all[1].Start() != 10 || all[1].End() != 25 {
		t.Errorf("expected merged 10..25, got %v", all[1])
	}
}

func TestCursorSetSetAllEmpty(t *testing.T) {
	cs := NewCursorSetAt(9)
	cs.SetAll(nil)
	if cs.Count() != 1 || cs.PrimaryCursor() != 0 {
		t.Errorf("expected single caret at 0, got %v", cs.All())
	}
}

func TestCursorSetCloneAndEquals(t *testing.T) {
	cs := NewCursorSetAt(1)
	cs.Add(NewCursorSelection(8))
	clone := cs.Clone()

	if !cs.Equals(clone) {
		t.Error("clone should equal original")
	}
	clone.Clear()
	if cs.Equals(clone) {
		t.Error("clone should be independent")
	}
	if cs.Equals(nil) {
		t.Error("set should not equal nil")
	}
}

func TestTransformOffset(t *testing.T) {
	tests := []struct {
		name   string
		offset ByteOffset
		edit   Edit
		want   ByteOffset
	}{
		{"insert before", 10, buffer.NewInsert(2, "abc"), 13},
		{"insert at", 10, buffer.NewInsert(10, "abc"), 13},
		{"insert after", 10, buffer.NewInsert(12, "abc"), 10},
		{"delete before", 10, buffer.NewDelete(0, 4), 6},
		{"delete spanning", 10, buffer.NewDelete(8, 14), 8},
		{"replace spanning", 10, buffer.NewEdit(buffer.NewRange(8, 12), "xy"), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransformOffset(tt.offset, tt.edit); got != tt.want {
				t.Errorf("TransformOffset() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTransformCursorSet(t *testing.T) {
	cs := NewCursorSetAt(5)
	cs.Add(NewSelection(10, 15))

	TransformCursorSet(cs, buffer.NewInsert(0, "// "))

	all := cs.All()
	if all[0].Head != 8 {
		t.Errorf("expected caret at 8, got %d", all[0].Head)
	}
	if all[1].Anchor != 13 || all[1].Head != 18 {
		t.Errorf("expected 13->18, got %v", all[1])
	}
}

func TestTransformRanges(t *testing.T) {
	got := TransformRanges([]Range{buffer.NewRange(4, 8)}, buffer.NewDelete(0, 2))
	if got[0] != buffer.NewRange(2, 6) {
		t.Errorf("expected [2:6), got %v", got[0])
	}
}
