package diagfmt

import (
	"os"
	"path/filepath"

	"sigtype/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode maps a flag value onto a PathMode.
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "", "auto":
		return PathModeAuto, true
	case "absolute":
		return PathModeAbsolute, true
	case "relative":
		return PathModeRelative, true
	case "basename":
		return PathModeBasename, true
	}
	return PathModeAuto, false
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
}

// DisplayPath renders the path of f the way diagnostics print it. Virtual
// files keep their name in every mode.
func DisplayPath(f *source.File, mode PathMode) string {
	if f.Virtual() {
		return f.Path
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := source.AbsolutePath(f.Path); err == nil {
			return abs
		}
	case PathModeRelative:
		if wd, err := os.Getwd(); err == nil {
			if rel, err := source.RelativePath(f.Path, wd); err == nil {
				return rel
			}
		}
	case PathModeBasename:
		return source.BaseName(f.Path)
	case PathModeAuto:
		// длинные абсолютные пути сокращаем до имени файла
		if len(f.Path) >= 40 && filepath.IsAbs(f.Path) {
			return source.BaseName(f.Path)
		}
	}
	return f.Path
}
