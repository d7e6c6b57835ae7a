package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"sigtype/internal/diag"
	"sigtype/internal/lexer"
	"sigtype/internal/parser"
)

// cacheSchema is bumped whenever CacheEntry or the parser output changes shape.
const cacheSchema uint16 = 2

// Digest identifies a cached scan result.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// CacheEntry is the cached outcome of scanning one file. Spans are file
// offsets, so an entry is valid for any path with the same content.
// Diagnostics is the complete parse list, independent of MaxDiagnostics.
type CacheEntry struct {
	Schema      uint16
	Signatures  []*parser.Signature
	Diagnostics []diag.Diagnostic
}

// DiskCache keeps CacheEntry values as msgpack files under
// <root>/scan/<first two hex digits>/<digest>.mp.
type DiskCache struct {
	mu   sync.RWMutex
	root string
}

// OpenDiskCache opens the cache for app under $XDG_CACHE_HOME
// (or ~/.cache when it is unset).
func OpenDiskCache(app string) (*DiskCache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("locate cache dir: %w", err)
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache uses root as the cache directory, creating it when missing.
func NewDiskCache(root string) (*DiskCache, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{root: root}, nil
}

func (c *DiskCache) Root() string {
	if c == nil {
		return ""
	}
	return c.root
}

func (c *DiskCache) scanDir() string { return filepath.Join(c.root, "scan") }

func (c *DiskCache) entryPath(key Digest) string {
	name := key.String()
	return filepath.Join(c.scanDir(), name[:2], name+".mp")
}

// Load returns the entry for key. A missing file or a stale schema is a miss
// (nil, nil).
func (c *DiskCache) Load(key Digest) (*CacheEntry, error) {
	if c == nil {
		return nil, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.entryPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entry CacheEntry
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if entry.Schema != cacheSchema {
		return nil, nil
	}
	return &entry, nil
}

// Store writes entry under key. Readers never see a partial file: the entry
// goes to a temp file in the same directory and is renamed into place.
func (c *DiskCache) Store(key Digest, entry *CacheEntry) error {
	if c == nil {
		return nil
	}
	entry.Schema = cacheSchema
	data, err := msgpack.Marshal(entry)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	dst := c.entryPath(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), "tmp-*")
	if err != nil {
		return err
	}
	_, err = tmp.Write(data)
	err = errors.Join(err, tmp.Close())
	if err == nil {
		err = os.Rename(tmp.Name(), dst)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
	}
	return err
}

// DropAll removes every stored entry. Other files under the root are left alone.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(c.scanDir())
}

// cacheKey = sha256(schema || content hash || grammar markers).
func cacheKey(content [32]byte, opts parser.Options) Digest {
	h := sha256.New()
	_ = binary.Write(h, binary.BigEndian, cacheSchema)
	h.Write(content[:])
	for _, part := range grammarParts(opts) {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	var out Digest
	h.Sum(out[:0])
	return out
}

func grammarParts(opts parser.Options) []string {
	comment := opts.Lexer.Comment
	if comment == 0 {
		comment = lexer.DefaultComment
	}
	return []string{
		cmpOr(opts.DefKeyword, parser.DefaultDefKeyword),
		cmpOr(opts.FieldMarker, parser.DefaultFieldMarker),
		cmpOr(opts.ReturnMarker, parser.DefaultReturnMarker),
		cmpOr(opts.Lexer.Quotes, lexer.DefaultQuotes),
		string(comment),
	}
}

func cmpOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
