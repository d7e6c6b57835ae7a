package token

import (
	"strings"

	"sigtype/internal/source"
)

// Token is one node of the token tree.
type Token struct {
	Kind Kind
	Span source.Span
	// Text holds the exact source of literal kinds; empty for groups.
	Text string

	Delim    Delim
	Children []Token
	// Unclosed marks a group that reached end of input without its closer.
	Unclosed bool
	// Closer is the stray closing character that ended a DelimNone scan.
	Closer byte
}

// NewText builds a Text token.
func NewText(text string, sp source.Span) Token {
	return Token{Kind: Text, Text: text, Span: sp}
}

// NewQuoted builds a QuotedText token.
func NewQuoted(text string, sp source.Span) Token {
	return Token{Kind: QuotedText, Text: text, Span: sp}
}

// NewComment builds a CommentText token.
func NewComment(text string, sp source.Span) Token {
	return Token{Kind: CommentText, Text: text, Span: sp}
}

// NewGroup builds a Group token.
func NewGroup(delim Delim, children []Token, sp source.Span) Token {
	return Token{Kind: Group, Delim: delim, Children: children, Span: sp}
}

// IsGroup reports whether the token is a Group.
func (t Token) IsGroup() bool { return t.Kind == Group }

// IsText reports whether the token is plain Text.
func (t Token) IsText() bool { return t.Kind == Text }

// IsComment reports whether the token is CommentText.
func (t Token) IsComment() bool { return t.Kind == CommentText }

// IsLiteralLike reports whether the token is Text, QuotedText or CommentText.
func (t Token) IsLiteralLike() bool {
	switch t.Kind {
	case Text, QuotedText, CommentText:
		return true
	default:
		return false
	}
}

// SourceText reconstructs the original text of the token. Groups reapply
// their delimiters; an unclosed group gets its closer appended.
func (t Token) SourceText() string {
	if t.Kind != Group {
		return t.Text
	}
	var sb strings.Builder
	t.writeSource(&sb)
	return sb.String()
}

func (t Token) writeSource(sb *strings.Builder) {
	switch t.Kind {
	case Text, QuotedText, CommentText:
		sb.WriteString(t.Text)
	case Group:
		if open := t.Delim.Open(); open != 0 {
			sb.WriteByte(open)
		}
		for i := range t.Children {
			t.Children[i].writeSource(sb)
		}
		switch {
		case t.Delim != DelimNone:
			sb.WriteByte(t.Delim.Close())
		case t.Closer != 0:
			sb.WriteByte(t.Closer)
		}
	}
}

// Inner returns the concatenated source of the children (a group body
// without its delimiters). For literals it equals SourceText.
func (t Token) Inner() string {
	if t.Kind != Group {
		return t.Text
	}
	var sb strings.Builder
	for i := range t.Children {
		t.Children[i].writeSource(&sb)
	}
	return sb.String()
}

// IsBlank reports whether the reconstructed text is empty or whitespace.
func (t Token) IsBlank() bool {
	return strings.TrimSpace(t.SourceText()) == ""
}

// Len returns the number of children of a group, 0 for literals.
func (t Token) Len() int {
	return len(t.Children)
}

// String is a debug form: kind, span and source.
func (t Token) String() string {
	if t.Kind == Group {
		return t.Kind.String() + "(" + t.Delim.String() + ")@" + t.Span.String() + " " + t.SourceText()
	}
	return t.Kind.String() + "@" + t.Span.String() + " " + t.Text
}
