package parser

import (
	"strconv"
	"strings"

	"sigtype/internal/diag"
	"sigtype/internal/lexer"
	"sigtype/internal/source"
	"sigtype/internal/token"
	"sigtype/internal/trace"
)

// Signature is a parsed method declaration.
type Signature struct {
	Name     string
	NameSpan source.Span
	// Receiver is "self" for singleton methods (def self.name).
	Receiver string
	// Params is the parameter group; nil when the method has none.
	Params     *token.Token
	Arguments  []*Argument
	ReturnType ReturnTypeSpec
	// Span covers the consumed input.
	Span source.Span
}

// ParseSignature parses text whose first byte sits at offset 0.
func ParseSignature(text string, opts Options) (*Signature, error) {
	return ParseSignatureAt(text, 0, opts)
}

// ParseSignatureAt parses text whose first byte sits at offset base of the
// enclosing document; all spans are reported in document offsets.
//
// The declaration is "def [self.]name" (keyword configurable) or, without
// the keyword, a bare name followed by a parameter group, the return marker
// or nothing. Anything else is a NotASignatureError.
func ParseSignatureAt(text string, base int, opts Options) (*Signature, error) {
	g := opts.grammar()
	span := trace.Begin(opts.tracer(), trace.ScopeSignature, "signature", opts.TraceParent)
	opts.TraceParent = span.ID()

	root, err := lexer.TokenizeFrom(text, token.DelimNone, 0, base, opts.lexerOptions())
	if err != nil {
		span.End("tokenize failed")
		return nil, err
	}

	sig, err := declaration(g, root)
	if err != nil {
		span.End("not a signature")
		return nil, err
	}
	sig.Span = root.Span

	rt, markerIdx := parseReturnType(root.Children, g.returnMarker)
	if markerIdx >= 0 && !rt.Specified() {
		diag.ReportWarning(opts.Reporter, diag.SynEmptyReturnType, root.Children[markerIdx].Span,
			"return marker "+g.returnMarker+" is not followed by a type").Emit()
	}
	sig.ReturnType = rt

	limit := len(root.Children)
	if markerIdx >= 0 {
		limit = markerIdx
	}
	for i := 1; i < limit; i++ {
		if ch := root.Children[i]; ch.IsGroup() && ch.Delim == token.Paren {
			sig.Params = &root.Children[i]
			break
		}
	}

	sig.Arguments = []*Argument{}
	if sig.Params != nil && strings.TrimSpace(sig.Params.Inner()) != "" {
		sig.Arguments = ParseArguments(*sig.Params, opts)
	}

	span.WithExtra("args", strconv.Itoa(len(sig.Arguments))).End(sig.Name)
	return sig, nil
}

// declaration находит имя метода в первом токене.
func declaration(g *grammar, root token.Token) (*Signature, error) {
	if len(root.Children) == 0 {
		return nil, &NotASignatureError{Span: root.Span}
	}
	first := root.Children[0]
	if !first.IsText() {
		return nil, &NotASignatureError{Span: first.Span, Text: first.SourceText()}
	}
	m := g.decl.FindStringSubmatchIndex(first.Text)
	if m == nil {
		m = g.bare.FindStringSubmatchIndex(first.Text)
	}
	if m == nil {
		return nil, &NotASignatureError{Span: first.Span, Text: first.Text}
	}
	sig := &Signature{
		Name:     first.Text[m[4]:m[5]],
		NameSpan: source.FromLen(first.Span.Start+m[4], m[5]-m[4]),
	}
	if m[3] > m[2] {
		sig.Receiver = "self"
	}
	return sig, nil
}
