package source

import (
	"testing"
)

func TestSpan_LenAndEmpty(t *testing.T) {
	tests := []struct {
		name  string
		span  Span
		len   int
		empty bool
	}{
		{"single byte", Span{Start: 3, End: 3}, 1, false},
		{"range", Span{Start: 3, End: 9}, 7, false},
		{"empty at zero", EmptyAt(0), 0, true},
		{"empty in the middle", EmptyAt(12), 0, true},
		{"from len", FromLen(5, 4), 4, false},
		{"from zero len", FromLen(5, 0), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Len(); got != tt.len {
				t.Errorf("Len() = %d, want %d", got, tt.len)
			}
			if got := tt.span.Empty(); got != tt.empty {
				t.Errorf("Empty() = %v, want %v", got, tt.empty)
			}
		})
	}
}

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{"disjoint", Span{Start: 1, End: 3}, Span{Start: 7, End: 9}, Span{Start: 1, End: 9}},
		{"nested", Span{Start: 1, End: 9}, Span{Start: 3, End: 4}, Span{Start: 1, End: 9}},
		{"reverse order", Span{Start: 7, End: 9}, Span{Start: 1, End: 3}, Span{Start: 1, End: 9}},
		{"empty other", Span{Start: 1, End: 3}, EmptyAt(20), Span{Start: 1, End: 3}},
		{"empty self", EmptyAt(0), Span{Start: 4, End: 5}, Span{Start: 4, End: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Errorf("Cover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpan_ShiftAndContains(t *testing.T) {
	s := Span{Start: 10, End: 20}
	if got := s.Shift(5); got != (Span{Start: 15, End: 25}) {
		t.Errorf("Shift(5) = %v", got)
	}
	if got := s.Shift(-10); got != (Span{Start: 0, End: 10}) {
		t.Errorf("Shift(-10) = %v", got)
	}
	if !s.Contains(Span{Start: 10, End: 20}) || !s.Contains(Span{Start: 12, End: 13}) {
		t.Error("expected inner spans to be contained")
	}
	if s.Contains(Span{Start: 9, End: 12}) || s.Contains(Span{Start: 19, End: 21}) {
		t.Error("expected overlapping spans not to be contained")
	}
	if !s.Contains(EmptyAt(21)) {
		t.Error("empty span right after the end is contained")
	}
}

func TestSpan_Slice(t *testing.T) {
	text := "def run(x)"
	tests := []struct {
		span Span
		want string
	}{
		{Span{Start: 0, End: 2}, "def"},
		{Span{Start: 7, End: 9}, "(x)"},
		{Span{Start: 7, End: 40}, "(x)"},
		{EmptyAt(4), ""},
		{Span{Start: 40, End: 41}, ""},
	}
	for _, tt := range tests {
		if got := tt.span.Slice(text); got != tt.want {
			t.Errorf("Slice(%v) = %q, want %q", tt.span, got, tt.want)
		}
	}
}
