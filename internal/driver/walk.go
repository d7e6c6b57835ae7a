package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// expandPaths turns the command line paths into a sorted list of files
// without duplicates. Directories are walked; entries whose path relative to
// the walked root matches an exclude pattern are skipped, a matching
// directory is not entered at all. Paths that do not exist are kept so the
// scan reports them.
func expandPaths(paths, exts, exclude []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, dup := seen[p]; !dup {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path == root {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if excluded(filepath.ToSlash(rel), exclude) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && hasExtension(path, exts) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	slices.Sort(files)
	return files, nil
}

// excluded: шаблоны doublestar ("vendor/**", "**/*_spec.rb"); битый шаблон
// просто не совпадает, config.Validate отсеивает такие заранее.
func excluded(rel string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func hasExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	return slices.ContainsFunc(exts, func(e string) bool { return strings.EqualFold(e, ext) })
}
