package parser

import (
	"fmt"

	"sigtype/internal/diag"
	"sigtype/internal/source"
)

// NotASignatureError is returned when the input does not start with a
// method declaration.
type NotASignatureError struct {
	Span source.Span
	// Text is the source of the first top-level token (empty for empty input).
	Text string
}

func (e *NotASignatureError) Error() string {
	if e.Text == "" {
		return "input does not look like a method definition: empty input"
	}
	return fmt.Sprintf("input does not look like a method definition: %q at %s", e.Text, e.Span)
}

// Code maps the error onto its diagnostic code.
func (e *NotASignatureError) Code() diag.Code {
	return diag.SynNotASignature
}
