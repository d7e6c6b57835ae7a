package lexer

import (
	"strings"

	"sigtype/internal/diag"
	"sigtype/internal/source"
)

const (
	DefaultQuotes  = "\"'"
	DefaultComment = '#'
)

type Options struct {
	Reporter diag.Reporter // может быть nil: тогда диагностики игнорируем
	// Quotes lists the bytes that open a quoted literal; empty means DefaultQuotes.
	Quotes string
	// Comment is the line comment marker; 0 means DefaultComment.
	Comment byte
}

func (o Options) quotes() string {
	if o.Quotes == "" {
		return DefaultQuotes
	}
	return o.Quotes
}

func (o Options) comment() byte {
	if o.Comment == 0 {
		return DefaultComment
	}
	return o.Comment
}

func (o Options) isQuote(b byte) bool {
	return strings.IndexByte(o.quotes(), b) >= 0
}

// report returns nil without a Reporter; Builder methods accept nil.
func (lx *lexer) report(sev diag.Severity, code diag.Code, sp source.Span, msg string) *diag.Builder {
	if lx.opts.Reporter == nil {
		return nil
	}
	return diag.Report(lx.opts.Reporter, sev, code, sp, msg)
}
