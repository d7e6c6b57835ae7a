package source

import (
	"fmt"

	"fortio.org/safecast"
)

// Resolve converts span into 1-based positions. end points at the last byte
// of the span; an empty span resolves to its start twice.
func (f *File) Resolve(span Span) (start, end LineCol) {
	from := f.clamp(span.Start)
	to := from
	if !span.Empty() {
		to = f.clamp(span.End)
	}
	return toLineCol(f.LineIdx, from), toLineCol(f.LineIdx, to)
}

func (f *File) clamp(off int) uint32 {
	off = min(max(off, 0), len(f.Content))
	v, err := safecast.Conv[uint32](off)
	if err != nil {
		panic(fmt.Errorf("source: offset %d: %w", off, err))
	}
	return v
}

func (f *File) Text() string { return string(f.Content) }

// LineCount counts lines the way editors do: a trailing newline opens an
// empty last line.
func (f *File) LineCount() int { return len(f.LineIdx) + 1 }

// LineSpan returns the span of line n (1-based) without its newline.
func (f *File) LineSpan(n uint32) (Span, bool) {
	if n == 0 || int(n) > f.LineCount() {
		return Span{}, false
	}
	start, end := 0, len(f.Content)
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	if int(n) <= len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	return Span{Start: start, End: end - 1}, true
}

// Line returns the text of line n, or "" when there is no such line.
func (f *File) Line(n uint32) string {
	sp, ok := f.LineSpan(n)
	if !ok {
		return ""
	}
	return sp.Slice(f.Text())
}

func (f *File) Virtual() bool { return f.Flags&FileVirtual != 0 }
