package lexer

import (
	"fmt"

	"sigtype/internal/diag"
	"sigtype/internal/source"
	"sigtype/internal/token"
)

type lexer struct {
	cursor Cursor
	opts   Options
}

// Tokenize scans the whole input into the top-level DelimNone group.
func Tokenize(input string, opts Options) (token.Token, error) {
	return TokenizeFrom(input, token.DelimNone, 0, 0, opts)
}

// TokenizeFrom scans input starting at startOffset. For a delimited scan the
// opening character is expected at startOffset-1 and is included in the
// group span. baseOffset is added to every reported offset.
func TokenizeFrom(input string, delim token.Delim, startOffset, baseOffset int, opts Options) (token.Token, error) {
	if startOffset < 0 || startOffset > len(input) {
		return token.Token{}, fmt.Errorf("lexer: start offset %d out of range [0, %d]", startOffset, len(input))
	}
	lx := &lexer{
		cursor: NewCursor(input, startOffset, baseOffset),
		opts:   opts,
	}
	open := startOffset
	if delim != token.DelimNone && startOffset > 0 && input[startOffset-1] == delim.Open() {
		open = startOffset - 1
	}
	return lx.scanGroup(delim, Mark(open))
}

// scanGroup читает детей группы до парного закрывающего символа, комментария
// или конца входа. open указывает на открывающую скобку (или на начало для DelimNone).
func (lx *lexer) scanGroup(delim token.Delim, open Mark) (token.Token, error) {
	var children []token.Token
	buf := lx.cursor.Mark()
	flush := func() {
		if lx.cursor.Mark() > buf {
			children = append(children, token.NewText(lx.cursor.TextFrom(buf), lx.cursor.SpanFrom(buf)))
		}
	}

	comment := lx.opts.comment()
	closed, stopped := false, false
	var closer byte

scan:
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == comment:
			flush()
			children = append(children, lx.scanComment())
			stopped = true
			break scan

		case lx.opts.isQuote(b):
			flush()
			tok, err := lx.scanQuoted()
			if err != nil {
				return token.Token{}, err
			}
			children = append(children, tok)
			buf = lx.cursor.Mark()

		case token.IsCloser(b) && (delim == token.DelimNone || b == delim.Close()):
			flush()
			at := lx.cursor.Mark()
			lx.cursor.Bump()
			closed, stopped = true, true
			if delim == token.DelimNone {
				closer = b
				lx.report(diag.SevWarning, diag.LexStrayCloser, lx.cursor.SpanFrom(at),
					fmt.Sprintf("unbalanced %q stops the scan", b)).Emit()
			}
			break scan

		default:
			if d, ok := token.DelimOf(b); ok {
				flush()
				at := lx.cursor.Mark()
				lx.cursor.Bump()
				child, err := lx.scanGroup(d, at)
				if err != nil {
					return token.Token{}, err
				}
				children = append(children, child)
				buf = lx.cursor.Mark()
				continue
			}
			lx.cursor.Bump()
		}
	}
	if !stopped {
		flush()
	}

	grp := token.NewGroup(delim, children, lx.cursor.SpanFrom(open))
	grp.Closer = closer
	if delim != token.DelimNone && !closed {
		grp.Unclosed = true
		lx.report(diag.SevInfo, diag.LexUnclosedGroup, grp.Span,
			fmt.Sprintf("%s group closed implicitly, missing %q", delim, delim.Close())).
			Note(source.FromLen(grp.Span.Start, 1), "opened here").
			Emit()
	}
	return grp, nil
}

// scanQuoted читает литерал в кавычках вместе с кавычками.
// Обратный слэш экранирует следующий байт.
func (lx *lexer) scanQuoted() (token.Token, error) {
	start := lx.cursor.Mark()
	quote := lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == '\\' {
			lx.cursor.Bump()
			continue
		}
		if b == quote {
			return token.NewQuoted(lx.cursor.TextFrom(start), lx.cursor.SpanFrom(start)), nil
		}
	}
	return token.Token{}, &UnterminatedQuoteError{Span: lx.cursor.SpanFrom(start), Quote: quote}
}

// scanComment читает комментарий до конца строки включительно.
func (lx *lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() == '\n' {
			break
		}
	}
	return token.NewComment(lx.cursor.TextFrom(start), lx.cursor.SpanFrom(start))
}
