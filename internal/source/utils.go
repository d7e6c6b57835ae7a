package source

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalizeCRLF меняет \r\n на \n; одиночный \r остаётся текстом.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, []byte("\r\n")) {
		return content, false
	}
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")), true
}

func removeBOM(content []byte) ([]byte, bool) {
	return bytes.CutPrefix(content, utf8BOM)
}

// buildLineIndex expects len(content) to fit in uint32, FileSet.Add checks it.
func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for off := 0; ; {
		i := bytes.IndexByte(content[off:], '\n')
		if i < 0 {
			return idx
		}
		off += i
		idx = append(idx, uint32(off)) // #nosec G115 -- bounded by FileSet.Add
		off++
	}
}

// toLineCol: строка = число переводов строки строго до off, плюс один.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	before, _ := slices.BinarySearch(lineIdx, off)
	if before == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	lineStart := lineIdx[before-1] + 1
	return LineCol{Line: uint32(before) + 1, Col: off - lineStart + 1} // #nosec G115 -- before <= len(lineIdx)
}

// normalizePath gives paths one spelling so FileSet lookups and printed
// paths agree across platforms.
func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns the normalized absolute form of p.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns p relative to baseDir, or its absolute form when p
// lies outside baseDir.
func RelativePath(p, baseDir string) (string, error) {
	abs, err := AbsolutePath(p)
	if err != nil {
		return "", err
	}
	base, err := AbsolutePath(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(filepath.FromSlash(base), filepath.FromSlash(abs))
	if err != nil {
		return "", err
	}
	rel = normalizePath(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return abs, nil
	}
	return rel, nil
}

// BaseName returns the last path element.
func BaseName(p string) string {
	return filepath.Base(p)
}
