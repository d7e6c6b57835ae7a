package parser

import (
	"regexp"
	"sync"

	"sigtype/internal/diag"
	"sigtype/internal/lexer"
	"sigtype/internal/trace"
)

const (
	DefaultDefKeyword   = "def"
	DefaultFieldMarker  = "@"
	DefaultReturnMarker = "=>"
)

type Options struct {
	Reporter diag.Reporter // может быть nil
	Tracer   trace.Tracer  // nil: trace.Nop
	// TraceParent links signature spans to an enclosing span (e.g. a file).
	TraceParent uint64

	// Lexer carries quote and comment settings for the tokenizer.
	Lexer lexer.Options

	DefKeyword   string // "": DefaultDefKeyword
	FieldMarker  string // "": DefaultFieldMarker
	ReturnMarker string // "": DefaultReturnMarker
}

func (o Options) tracer() trace.Tracer {
	if o.Tracer == nil {
		return trace.Nop
	}
	return o.Tracer
}

func (o Options) lexerOptions() lexer.Options {
	lo := o.Lexer
	if lo.Reporter == nil {
		lo.Reporter = o.Reporter
	}
	return lo
}

type grammarKey struct {
	def, field, ret string
}

// grammar: скомпилированные регулярки для конкретного набора маркеров.
type grammar struct {
	returnMarker string
	ident        *regexp.Regexp // [marker]name [=|:|end]
	pair         *regexp.Regexp // Type [marker]name [=|:|end]
	typeText     *regexp.Regexp // bare type expression
	typeToken    *regexp.Regexp // type fragment next to a group
	decl         *regexp.Regexp // def [self.]name
	bare         *regexp.Regexp // [self.]name followed by the return marker or end
}

var grammars sync.Map // grammarKey -> *grammar

func (o Options) grammar() *grammar {
	key := grammarKey{def: o.DefKeyword, field: o.FieldMarker, ret: o.ReturnMarker}
	if key.def == "" {
		key.def = DefaultDefKeyword
	}
	if key.field == "" {
		key.field = DefaultFieldMarker
	}
	if key.ret == "" {
		key.ret = DefaultReturnMarker
	}
	if g, ok := grammars.Load(key); ok {
		return g.(*grammar)
	}
	g, _ := grammars.LoadOrStore(key, compileGrammar(key))
	return g.(*grammar)
}

func compileGrammar(key grammarKey) *grammar {
	marker := `((?:` + regexp.QuoteMeta(key.field) + `)?)`
	name := `([A-Za-z_]\w*[?!]?)`
	return &grammar{
		returnMarker: key.ret,
		ident:        regexp.MustCompile(`^\s*` + marker + `(\w+)\s*(=|:|$)`),
		pair:         regexp.MustCompile(`^\s*(\??[\w:]+)\s+` + marker + `(\w+)\s*(=|:|$)`),
		typeText:     regexp.MustCompile(`^\s*\??[\w:]+\s*$`),
		typeToken:    regexp.MustCompile(`^\s*\??[\w:]*\s*$`),
		decl:         regexp.MustCompile(`^\s*` + regexp.QuoteMeta(key.def) + `\s+(self\.)?` + name),
		bare:         regexp.MustCompile(`^\s*(self\.)?` + name + `\s*(?:` + regexp.QuoteMeta(key.ret) + `|$)`),
	}
}
