package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet owns the loaded inputs of one run. Adding the same path twice
// creates a new version, older FileIDs stay valid. Not safe for concurrent
// mutation.
type FileSet struct {
	files  []File
	byPath map[string]FileID // последняя версия для пути
}

func NewFileSet() *FileSet {
	return &FileSet{byPath: make(map[string]FileID)}
}

func (fs *FileSet) Len() int { return len(fs.files) }

// Add registers already normalized content under path.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("source: %s is too large: %w", path, err))
	}
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("source: too many files: %w", err))
	}
	id := FileID(n)
	path = normalizePath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.byPath[path] = id
	return id
}

// Load reads path from disk, strips a BOM and folds CRLF before adding it.
func (fs *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- caller chooses the path
	if err != nil {
		return 0, err
	}
	var flags FileFlags
	content, bom := removeBOM(content)
	if bom {
		flags |= FileHadBOM
	}
	content, crlf := normalizeCRLF(content)
	if crlf {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds text that has no file on disk (argv, stdin, tests).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

func (fs *FileSet) Get(id FileID) *File { return &fs.files[id] }

// Lookup returns the newest FileID registered for path.
func (fs *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fs.byPath[normalizePath(path)]
	return id, ok
}

func (fs *FileSet) Resolve(id FileID, span Span) (start, end LineCol) {
	return fs.files[id].Resolve(span)
}
