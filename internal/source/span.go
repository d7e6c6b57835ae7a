package source

import (
	"fmt"
)

// Span is an inclusive byte range into the original input.
// Empty span: End == Start-1.
type Span struct {
	Start int `json:"start"` // включительно
	End   int `json:"end"`   // включительно
}

// FromLen builds a span of n bytes starting at start.
func FromLen(start, n int) Span {
	return Span{Start: start, End: start + n - 1}
}

// EmptyAt returns the empty span positioned at off.
func EmptyAt(off int) Span {
	return Span{Start: off, End: off - 1}
}

func (s Span) Empty() bool {
	return s.End < s.Start
}

func (s Span) Len() int {
	if s.Empty() {
		return 0
	}
	return s.End - s.Start + 1
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// Empty spans do not widen the result.
func (s Span) Cover(other Span) Span {
	if other.Empty() {
		return s
	}
	if s.Empty() {
		return other
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	if other.Empty() {
		return other.Start >= s.Start && other.Start <= s.End+1
	}
	return other.Start >= s.Start && other.End <= s.End
}

// Shift moves the span by n bytes (n may be negative).
func (s Span) Shift(n int) Span {
	return Span{Start: s.Start + n, End: s.End + n}
}

// Slice returns the part of text covered by s, clamped to text bounds.
func (s Span) Slice(text string) string {
	if s.Empty() || s.Start >= len(text) || s.End < 0 {
		return ""
	}
	start, end := max(s.Start, 0), min(s.End+1, len(text))
	return text[start:end]
}
