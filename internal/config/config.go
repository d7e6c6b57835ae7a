// Package config loads sigtype.toml: grammar markers and scan settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"sigtype/internal/lexer"
	"sigtype/internal/parser"
)

// FileName is the manifest looked up from the working directory upwards.
const FileName = "sigtype.toml"

type Config struct {
	// Path is the file the config was loaded from; empty for defaults.
	Path    string  `toml:"-"`
	Grammar Grammar `toml:"grammar"`
	Scan    Scan    `toml:"scan"`
}

type Grammar struct {
	DefKeyword   string `toml:"def_keyword"`
	Comment      string `toml:"comment"`
	Quotes       string `toml:"quotes"`
	FieldMarker  string `toml:"field_marker"`
	ReturnMarker string `toml:"return_marker"`
}

type Scan struct {
	Extensions     []string `toml:"extensions"`
	Exclude        []string `toml:"exclude"`
	Jobs           int      `toml:"jobs"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Cache          bool     `toml:"cache"`
	CacheDir       string   `toml:"cache_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Grammar: Grammar{
			DefKeyword:   parser.DefaultDefKeyword,
			Comment:      string(lexer.DefaultComment),
			Quotes:       lexer.DefaultQuotes,
			FieldMarker:  parser.DefaultFieldMarker,
			ReturnMarker: parser.DefaultReturnMarker,
		},
		Scan: Scan{
			Extensions:     []string{".rb", ".rbt"},
			MaxDiagnostics: 100,
		},
	}
}

// Find walks from startDir up to the filesystem root looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest sigtype.toml above startDir, or defaults when
// there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes path over the defaults. Unknown keys are errors.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

var keywordRe = regexp.MustCompile(`^\w+$`)

const delimiters = "()[]{}"

// Validate checks markers for emptiness and overlaps.
func (c Config) Validate() error {
	var errs []error
	g := c.Grammar
	if !keywordRe.MatchString(g.DefKeyword) {
		errs = append(errs, fmt.Errorf("[grammar].def_keyword must be a word, got %q", g.DefKeyword))
	}
	if len(g.Comment) != 1 {
		errs = append(errs, fmt.Errorf("[grammar].comment must be a single character, got %q", g.Comment))
	} else if strings.ContainsAny(g.Comment, delimiters) {
		errs = append(errs, fmt.Errorf("[grammar].comment %q collides with a delimiter", g.Comment))
	}
	if g.Quotes == "" {
		errs = append(errs, errors.New("[grammar].quotes must not be empty"))
	} else if strings.ContainsAny(g.Quotes, delimiters+g.Comment) {
		errs = append(errs, fmt.Errorf("[grammar].quotes %q collide with the comment marker or a delimiter", g.Quotes))
	}
	if g.FieldMarker == "" || strings.ContainsAny(g.FieldMarker, " \t"+delimiters) || keywordRe.MatchString(g.FieldMarker) {
		errs = append(errs, fmt.Errorf("[grammar].field_marker %q must be punctuation", g.FieldMarker))
	}
	if strings.TrimSpace(g.ReturnMarker) != g.ReturnMarker || g.ReturnMarker == "" || strings.Contains(g.ReturnMarker, ",") {
		errs = append(errs, fmt.Errorf("[grammar].return_marker %q must be non-empty without spaces or commas", g.ReturnMarker))
	}

	s := c.Scan
	for _, ext := range s.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("[scan].extensions entry %q must start with '.'", ext))
		}
	}
	for _, pat := range s.Exclude {
		if !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("[scan].exclude pattern %q is malformed", pat))
		}
	}
	if s.Jobs < 0 {
		errs = append(errs, fmt.Errorf("[scan].jobs must be >= 0, got %d", s.Jobs))
	}
	if s.MaxDiagnostics < 0 {
		errs = append(errs, fmt.Errorf("[scan].max_diagnostics must be >= 0, got %d", s.MaxDiagnostics))
	}
	return errors.Join(errs...)
}

// LexerOptions maps the grammar onto tokenizer options.
func (g Grammar) LexerOptions() lexer.Options {
	opts := lexer.Options{Quotes: g.Quotes}
	if len(g.Comment) == 1 {
		opts.Comment = g.Comment[0]
	}
	return opts
}

// ParserOptions maps the grammar onto parser options; reporting and tracing
// are filled in by the caller.
func (g Grammar) ParserOptions() parser.Options {
	return parser.Options{
		Lexer:        g.LexerOptions(),
		DefKeyword:   g.DefKeyword,
		FieldMarker:  g.FieldMarker,
		ReturnMarker: g.ReturnMarker,
	}
}
