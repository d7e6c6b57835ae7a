// Package sigcomment renders parsed signatures as one-line annotation
// comments, e.g. "# @sig (String name, ?Integer age) -> String".
package sigcomment

import (
	"strings"

	"sigtype/internal/parser"
)

// Prefix starts every rendered comment.
const Prefix = "# @sig "

// Render builds the annotation for the given argument slots and return type.
// Nil slots render as "?".
func Render(args []*parser.Argument, returnType string) string {
	var sb strings.Builder
	sb.WriteString(Prefix)
	sb.WriteByte('(')
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Fragment(arg))
	}
	sb.WriteString(") -> ")
	sb.WriteString(returnType)
	return sb.String()
}

// RenderSignature is Render over a parsed signature.
func RenderSignature(sig *parser.Signature) string {
	return Render(sig.Arguments, sig.ReturnType.Type)
}

// Fragment renders one argument: "Type name" for positional arguments and
// "name: Type" for keywords.
func Fragment(arg *parser.Argument) string {
	if arg == nil {
		return "?"
	}
	typ := arg.Type
	if typ == "" {
		typ = parser.UntypedType
	}
	var frag string
	if arg.IsKeyword() {
		frag = arg.Name + ": " + typ
	} else {
		frag = typ + " " + arg.Name
	}
	// nilable-маркер уже может стоять в типе
	if arg.Optional && !strings.HasPrefix(frag, "?") && !strings.HasPrefix(typ, "?") {
		frag = "?" + frag
	}
	return frag
}
