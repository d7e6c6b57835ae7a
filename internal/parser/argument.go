package parser

import (
	"strings"

	"sigtype/internal/source"
)

// UntypedType is the placeholder type of an optional argument without an
// explicit annotation (rendered as "?untyped").
const UntypedType = "untyped"

type ArgKind uint8

const (
	Positional ArgKind = iota
	Keyword
)

func (k ArgKind) String() string {
	if k == Keyword {
		return "keyword"
	}
	return "positional"
}

// Argument is one classified parameter of a signature.
type Argument struct {
	// Name is the raw name including the field marker, e.g. "@age".
	Name string
	// Type is the type text; optional arguments always carry a "?" prefix.
	Type string
	// HasType reports whether the type was written in the source.
	HasType      bool
	Kind         ArgKind
	Optional     bool
	FieldBinding bool

	// Span covers the type (when present) through the end of the name.
	Span source.Span
	// NameSpan covers the word characters of the name, marker excluded.
	NameSpan source.Span
	// TypeSpan covers the source type text; nil for synthesized types.
	TypeSpan *source.Span
}

// BareName returns the name without the field marker.
func (a *Argument) BareName() string {
	return a.Name[len(a.Name)-a.NameSpan.Len():]
}

func (a *Argument) IsPositional() bool { return a.Kind == Positional }

func (a *Argument) IsKeyword() bool { return a.Kind == Keyword }

// WithOptionalType returns a copy marked optional whose type carries the
// nilable prefix; an untyped argument gets "?untyped".
func (a *Argument) WithOptionalType() *Argument {
	cp := *a
	cp.Optional = true
	switch {
	case cp.Type == "":
		cp.Type = "?" + UntypedType
	case !strings.HasPrefix(cp.Type, "?"):
		cp.Type = "?" + cp.Type
	}
	return &cp
}
