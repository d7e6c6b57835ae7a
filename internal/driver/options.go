package driver

import (
	"sigtype/internal/config"
	"sigtype/internal/parser"
	"sigtype/internal/trace"
)

// Options controls a scan. Parser.Reporter is replaced per file.
type Options struct {
	Parser         parser.Options
	MaxDiagnostics int
	// Jobs bounds the worker pool; 0 means GOMAXPROCS.
	Jobs int
	// Extensions selects files when a directory is scanned.
	Extensions []string
	// Exclude holds doublestar patterns matched against paths relative to
	// each walked directory.
	Exclude  []string
	Cache    *DiskCache
	Progress ProgressSink
}

// OptionsFromConfig builds scan options from a loaded sigtype.toml.
func OptionsFromConfig(cfg config.Config, tracer trace.Tracer) Options {
	popts := cfg.Grammar.ParserOptions()
	popts.Tracer = tracer
	return Options{
		Parser:         popts,
		MaxDiagnostics: cfg.Scan.MaxDiagnostics,
		Jobs:           cfg.Scan.Jobs,
		Extensions:     cfg.Scan.Extensions,
		Exclude:        cfg.Scan.Exclude,
	}
}

func (o Options) tracer() trace.Tracer {
	if o.Parser.Tracer == nil {
		return trace.Nop
	}
	return o.Parser.Tracer
}

func (o Options) defKeyword() string {
	if o.Parser.DefKeyword == "" {
		return parser.DefaultDefKeyword
	}
	return o.Parser.DefKeyword
}
