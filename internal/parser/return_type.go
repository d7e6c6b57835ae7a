package parser

import (
	"strings"

	"sigtype/internal/source"
	"sigtype/internal/token"
)

// ReturnTypeSpec is the trailing "=> Type" annotation of a signature.
type ReturnTypeSpec struct {
	Type string
	// TypeSpan covers the type text.
	TypeSpan *source.Span
	// SignatureSpan covers the marker through the end of the type.
	SignatureSpan *source.Span
}

// NoReturnType is returned when no annotation is present.
var NoReturnType = ReturnTypeSpec{Type: "void"}

// Specified reports whether the annotation was found in the source.
func (r ReturnTypeSpec) Specified() bool {
	return r.TypeSpan != nil
}

// ParseReturnType extracts the return annotation from the top-level tokens
// of a signature using the default "=>" marker.
func ParseReturnType(tokens []token.Token) ReturnTypeSpec {
	rt, _ := parseReturnType(tokens, DefaultReturnMarker)
	return rt
}

// returnMarkerIndex: индекс последнего Text верхнего уровня с маркером, или -1.
func returnMarkerIndex(tokens []token.Token, marker string) int {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].IsText() && strings.Contains(tokens[i].Text, marker) {
			return i
		}
	}
	return -1
}

// parseReturnType возвращает аннотацию и индекс токена с маркером (-1, если маркера нет).
func parseReturnType(tokens []token.Token, marker string) (ReturnTypeSpec, int) {
	startIdx := returnMarkerIndex(tokens, marker)
	if startIdx < 0 {
		return NoReturnType, -1
	}
	endIdx := len(tokens)
	if tokens[endIdx-1].IsComment() {
		endIdx--
	}
	region := tokens[startIdx:endIdx]

	var sb strings.Builder
	for _, t := range region {
		sb.WriteString(t.SourceText())
	}
	text := sb.String()

	at := strings.Index(text, marker)
	rest := text[at+len(marker):]
	start, end, ok := trimmedBounds(rest)
	if !ok {
		return NoReturnType, startIdx
	}

	base := region[0].Span.Start
	typeStart := base + at + len(marker) + start
	// закрывающие скобки, дописанные лексером, в исходнике отсутствуют
	typeEnd := min(typeStart+(end-start)-1, region[len(region)-1].Span.End)
	typeSpan := source.Span{Start: typeStart, End: typeEnd}
	sigSpan := source.Span{Start: base + at, End: typeEnd}
	return ReturnTypeSpec{
		Type:          rest[start:end],
		TypeSpan:      &typeSpan,
		SignatureSpan: &sigSpan,
	}, startIdx
}
