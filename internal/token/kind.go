package token

// Kind represents the category of a token.
type Kind uint8

const (
	// Invalid marks the zero Token.
	Invalid Kind = iota
	// Text is a run of ordinary characters.
	Text
	// QuotedText is a quoted literal including both quotes.
	QuotedText
	// CommentText runs from the comment marker to end of line.
	CommentText
	// Group is a balanced (or implicitly closed) nested region.
	Group
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "Text"
	case QuotedText:
		return "QuotedText"
	case CommentText:
		return "CommentText"
	case Group:
		return "Group"
	default:
		return "Invalid"
	}
}

// Delim is the bracket pair of a Group.
type Delim uint8

const (
	// DelimNone is the synthetic outermost wrapper.
	DelimNone Delim = iota
	// Paren is ( ... ).
	Paren
	// Brace is { ... }.
	Brace
	// Bracket is [ ... ].
	Bracket
)

func (d Delim) String() string {
	switch d {
	case Paren:
		return "paren"
	case Brace:
		return "brace"
	case Bracket:
		return "bracket"
	default:
		return "none"
	}
}

// Open returns the opening character, 0 for DelimNone.
func (d Delim) Open() byte {
	switch d {
	case Paren:
		return '('
	case Brace:
		return '{'
	case Bracket:
		return '['
	default:
		return 0
	}
}

// Close returns the closing character, 0 for DelimNone.
func (d Delim) Close() byte {
	switch d {
	case Paren:
		return ')'
	case Brace:
		return '}'
	case Bracket:
		return ']'
	default:
		return 0
	}
}

// DelimOf maps an opening character to its Delim.
func DelimOf(b byte) (Delim, bool) {
	switch b {
	case '(':
		return Paren, true
	case '{':
		return Brace, true
	case '[':
		return Bracket, true
	default:
		return DelimNone, false
	}
}

// IsCloser reports whether b closes any Delim.
func IsCloser(b byte) bool {
	return b == ')' || b == '}' || b == ']'
}
