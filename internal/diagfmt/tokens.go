package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"sigtype/internal/source"
	"sigtype/internal/token"
)

type TokenOutput struct {
	Kind     string        `json:"kind"`
	Delim    string        `json:"delim,omitempty"`
	Text     string        `json:"text,omitempty"`
	Span     source.Span   `json:"span"`
	Unclosed bool          `json:"unclosed,omitempty"`
	Closer   string        `json:"closer,omitempty"`
	Children []TokenOutput `json:"children,omitempty"`
}

// BuildTokenOutput converts a token tree into its JSON shape.
func BuildTokenOutput(tok token.Token) TokenOutput {
	out := TokenOutput{
		Kind:     tok.Kind.String(),
		Text:     tok.Text,
		Span:     tok.Span,
		Unclosed: tok.Unclosed,
	}
	if tok.IsGroup() {
		out.Delim = tok.Delim.String()
		if tok.Closer != 0 {
			out.Closer = string(tok.Closer)
		}
		out.Children = make([]TokenOutput, len(tok.Children))
		for i, ch := range tok.Children {
			out.Children[i] = BuildTokenOutput(ch)
		}
	}
	return out
}

// FormatTokensJSON выводит дерево токенов в JSON формате
func FormatTokensJSON(w io.Writer, root token.Token) error {
	return WriteJSON(w, BuildTokenOutput(root))
}

// FormatTokensPretty выводит дерево токенов с отступами, по узлу на строку
func FormatTokensPretty(w io.Writer, root token.Token, file *source.File) error {
	return writeTokenTree(w, root, file, 0)
}

func writeTokenTree(w io.Writer, tok token.Token, file *source.File, depth int) error {
	indent := strings.Repeat("  ", depth)
	pos := tok.Span.String()
	if file != nil && !tok.Span.Empty() {
		start, end := file.Resolve(tok.Span)
		pos = fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}

	var err error
	if tok.IsGroup() {
		flags := ""
		if tok.Unclosed {
			flags += " unclosed"
		}
		if tok.Closer != 0 {
			flags += fmt.Sprintf(" closer=%q", tok.Closer)
		}
		_, err = fmt.Fprintf(w, "%s%s %s at %s%s\n", indent, tok.Kind, tok.Delim, pos, flags)
		if err != nil {
			return err
		}
		for _, ch := range tok.Children {
			if err := writeTokenTree(w, ch, file, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	_, err = fmt.Fprintf(w, "%s%s %q at %s\n", indent, tok.Kind, tok.Text, pos)
	return err
}
