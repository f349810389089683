// Package buffer provides a thread-safe text buffer addressed by byte
// offsets and zero-based line/column points.
//
// Text is kept as a single string with a line start index that is rebuilt
// on every write. Log insertion and cleanup touch a handful of lines per
// action, so the simple representation is sufficient.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("const a = 1;\nfoo(a);\n")
//	end, _ := buf.Insert(buf.LineEndOffset(0), "\nconsole.log(a);")
//	_ = buf.Delete(buf.LineStartOffset(1), buf.LineStartOffset(2))
//
// Batch edits passed to ApplyEdits must be ordered from the highest offset
// to the lowest, so earlier edits never shift the ranges of later ones.
//
// All Buffer methods are safe for concurrent use. Snapshot returns an
// immutable view for readers that need several consistent reads.
package buffer
