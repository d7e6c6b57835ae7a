package source

// FileID indexes a File inside its FileSet.
type FileID uint32

// FileFlags records how the content was obtained and normalized.
type FileFlags uint8

const (
	FileVirtual        FileFlags = 1 << iota // argv, stdin or tests, no path on disk
	FileHadBOM                               // a UTF-8 BOM was stripped
	FileNormalizedCRLF                       // \r\n became \n, offsets refer to the normalized text
)

// File is one loaded input. Spans reported for it index Content.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// LineIdx holds the offset of every '\n'.
	LineIdx []uint32
	// Hash is sha256 of Content; the scan cache keys on it.
	Hash  [32]byte
	Flags FileFlags
}

// LineCol is a 1-based position for humans.
type LineCol struct {
	Line uint32
	Col  uint32
}
