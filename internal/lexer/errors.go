package lexer

import (
	"fmt"

	"sigtype/internal/diag"
	"sigtype/internal/source"
)

// UnterminatedQuoteError is returned when a quoted literal reaches end of
// input without its closing quote. It is the only fatal tokenizer outcome.
type UnterminatedQuoteError struct {
	// Span covers the literal from the opening quote to end of input.
	Span  source.Span
	Quote byte
}

func (e *UnterminatedQuoteError) Error() string {
	return fmt.Sprintf("unterminated %c-quoted literal at %s", e.Quote, e.Span)
}

// Code maps the error onto its diagnostic code.
func (e *UnterminatedQuoteError) Code() diag.Code {
	return diag.LexUnterminatedQuote
}
