package fuzztests

import (
	"errors"
	"testing"

	"sigtype/internal/diag"
	"sigtype/internal/lexer"
	"sigtype/internal/testkit"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func clampInput(input []byte) string {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return string(input)
}

func FuzzTokenizeRoundTrip(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		text := clampInput(input)
		bag := diag.NewBag(64)
		root, err := lexer.Tokenize(text, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		if err != nil {
			var qe *lexer.UnterminatedQuoteError
			if !errors.As(err, &qe) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			if qe.Span.End != len(text)-1 {
				t.Fatalf("unterminated literal must run to end of input: %v (len %d)", qe.Span, len(text))
			}
			return
		}
		if err := testkit.CheckTokenInvariants(root, text, 0); err != nil {
			t.Fatalf("invariants violated for %q: %v", text, err)
		}
	})
}
