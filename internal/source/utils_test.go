package source

import (
	"path/filepath"
	"testing"
)

func TestRelativePath(t *testing.T) {
	base := filepath.Join(t.TempDir(), "base")
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"inside", filepath.Join(base, "lib", "a.rb"), "lib/a.rb"},
		{"base itself", base, "."},
		{"outside", filepath.Join(base, "..", "other", "b.rb"), normalizePath(filepath.Join(filepath.Dir(base), "other", "b.rb"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RelativePath(tt.target, base)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("RelativePath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToLineCol(t *testing.T) {
	idx := buildLineIndex([]byte("ab\n\ncd\n"))
	if len(idx) != 3 || idx[0] != 2 || idx[1] != 3 || idx[2] != 6 {
		t.Fatalf("line index %v", idx)
	}
	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // сам перевод строки принадлежит первой строке
		{3, LineCol{2, 1}},
		{4, LineCol{3, 1}},
		{5, LineCol{3, 2}},
		{7, LineCol{4, 1}},
	}
	for _, tt := range tests {
		if got := toLineCol(idx, tt.off); got != tt.want {
			t.Errorf("toLineCol(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
	if got := toLineCol(nil, 4); got != (LineCol{1, 5}) {
		t.Errorf("no newlines: %+v", got)
	}
}
