package lexer_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"sigtype/internal/diag"
	"sigtype/internal/lexer"
	"sigtype/internal/source"
	"sigtype/internal/testkit"
	"sigtype/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

// shape описывает ожидаемого ребёнка: вид, спан и текст (для групп: SourceText).
type shape struct {
	kind  token.Kind
	start int
	end   int
	text  string
}

func describe(toks []token.Token) string {
	parts := make([]string, len(toks))
	for i, tok := range toks {
		parts[i] = tok.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func expectChildren(t *testing.T, grp token.Token, want []shape) {
	t.Helper()
	if len(grp.Children) != len(want) {
		t.Fatalf("expected %d children, got %d: %s", len(want), len(grp.Children), describe(grp.Children))
	}
	for i, w := range want {
		got := grp.Children[i]
		if got.Kind != w.kind {
			t.Errorf("child %d: kind %v, want %v", i, got.Kind, w.kind)
		}
		if got.Span.Start != w.start || got.Span.End != w.end {
			t.Errorf("child %d: span %v, want %d..%d", i, got.Span, w.start, w.end)
		}
		if got.SourceText() != w.text {
			t.Errorf("child %d: text %q, want %q", i, got.SourceText(), w.text)
		}
	}
}

func mustTokenize(t *testing.T, input string) (token.Token, *testReporter) {
	t.Helper()
	rep := &testReporter{}
	root, err := lexer.Tokenize(input, lexer.Options{Reporter: rep})
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", input, err)
	}
	if err := testkit.CheckTokenInvariants(root, input, 0); err != nil {
		t.Fatalf("invariants for %q: %v", input, err)
	}
	return root, rep
}

func TestTokenizeSignatureShape(t *testing.T) {
	root, rep := mustTokenize(t, "def foo(a, b) => X")
	if root.Delim != token.DelimNone || root.Span.Start != 0 || root.Span.End != 17 {
		t.Fatalf("unexpected root: %v", root)
	}
	expectChildren(t, root, []shape{
		{token.Text, 0, 6, "def foo"},
		{token.Group, 7, 12, "(a, b)"},
		{token.Text, 13, 17, " => X"},
	})
	expectChildren(t, root.Children[1], []shape{
		{token.Text, 8, 11, "a, b"},
	})
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.codes())
	}
}

func TestTokenizeNestedDelimiters(t *testing.T) {
	root, _ := mustTokenize(t, "a(b[c]{d})e")
	expectChildren(t, root, []shape{
		{token.Text, 0, 0, "a"},
		{token.Group, 1, 9, "(b[c]{d})"},
		{token.Text, 10, 10, "e"},
	})
	paren := root.Children[1]
	expectChildren(t, paren, []shape{
		{token.Text, 2, 2, "b"},
		{token.Group, 3, 5, "[c]"},
		{token.Group, 6, 8, "{d}"},
	})
	if paren.Children[1].Delim != token.Bracket || paren.Children[2].Delim != token.Brace {
		t.Fatalf("wrong delimiters: %s", describe(paren.Children))
	}
}

func TestTokenizeQuotedLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []shape
	}{
		{
			name:  "closer inside quotes",
			input: `(x = "a)b", y)`,
			want:  []shape{{token.Group, 0, 13, `(x = "a)b", y)`}},
		},
		{
			name:  "escaped quote",
			input: `'a\'b'`,
			want:  []shape{{token.QuotedText, 0, 5, `'a\'b'`}},
		},
		{
			name:  "other quote kind inside",
			input: `"it's" x`,
			want: []shape{
				{token.QuotedText, 0, 5, `"it's"`},
				{token.Text, 6, 7, " x"},
			},
		},
		{
			name:  "comment marker inside quotes",
			input: `a "#b"`,
			want: []shape{
				{token.Text, 0, 1, "a "},
				{token.QuotedText, 2, 5, `"#b"`},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, _ := mustTokenize(t, tt.input)
			expectChildren(t, root, tt.want)
		})
	}

	root, _ := mustTokenize(t, `(x = "a)b", y)`)
	expectChildren(t, root.Children[0], []shape{
		{token.Text, 1, 4, "x = "},
		{token.QuotedText, 5, 9, `"a)b"`},
		{token.Text, 10, 12, ", y"},
	})
}

func TestTokenizeCommentIsTerminal(t *testing.T) {
	root, _ := mustTokenize(t, "foo # bar\nbaz")
	expectChildren(t, root, []shape{
		{token.Text, 0, 3, "foo "},
		{token.CommentText, 4, 9, "# bar\n"},
	})
	if root.Span.End != 9 {
		t.Fatalf("scan should stop after the comment, root span %v", root.Span)
	}
}

func TestTokenizeCommentInsideGroup(t *testing.T) {
	root, rep := mustTokenize(t, "(a # c\n b) z")
	expectChildren(t, root, []shape{
		{token.Group, 0, 6, "(a # c\n)"},
		{token.Text, 7, 8, " b"},
	})
	inner := root.Children[0]
	if !inner.Unclosed {
		t.Fatalf("group terminated by a comment must be Unclosed")
	}
	expectChildren(t, inner, []shape{
		{token.Text, 1, 2, "a "},
		{token.CommentText, 3, 6, "# c\n"},
	})
	if root.Closer != ')' || root.Span.End != 9 {
		t.Fatalf("stray closer should end the top-level scan: closer=%q span=%v", root.Closer, root.Span)
	}
	got := rep.codes()
	if len(got) != 2 || got[0] != diag.LexUnclosedGroup || got[1] != diag.LexStrayCloser {
		t.Fatalf("unexpected diagnostics: %v", got)
	}
}

func TestTokenizeUnbalancedOpeners(t *testing.T) {
	root, rep := mustTokenize(t, "f(a[b")
	if got := root.SourceText(); got != "f(a[b])" {
		t.Fatalf("SourceText = %q, want %q", got, "f(a[b])")
	}
	expectChildren(t, root, []shape{
		{token.Text, 0, 0, "f"},
		{token.Group, 1, 4, "(a[b])"},
	})
	paren := root.Children[1]
	if !paren.Unclosed || !paren.Children[1].Unclosed {
		t.Fatalf("both groups should be Unclosed: %s", describe(paren.Children))
	}
	expectChildren(t, paren.Children[1], []shape{{token.Text, 4, 4, "b"}})
	if len(rep.diagnostics) != 2 {
		t.Fatalf("expected two unclosed-group infos, got %v", rep.codes())
	}
	for _, d := range rep.diagnostics {
		if d.Severity != diag.SevInfo {
			t.Errorf("unclosed group should be info, got %v", d.Severity)
		}
	}
}

func TestTokenizeForeignCloserIsText(t *testing.T) {
	root, _ := mustTokenize(t, "(a]b)")
	expectChildren(t, root.Children[0], []shape{{token.Text, 1, 3, "a]b"}})
}

func TestTokenizeUnterminatedQuote(t *testing.T) {
	tests := []struct {
		input string
		start int
		end   int
		quote byte
	}{
		{`("unterminated`, 1, 13, '"'},
		{`x 'ab\'`, 2, 6, '\''},
		{`"`, 0, 0, '"'},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := lexer.Tokenize(tt.input, lexer.Options{})
			var qe *lexer.UnterminatedQuoteError
			if !errors.As(err, &qe) {
				t.Fatalf("expected UnterminatedQuoteError, got %v", err)
			}
			if qe.Span.Start != tt.start || qe.Span.End != tt.end || qe.Quote != tt.quote {
				t.Fatalf("got span %v quote %q", qe.Span, qe.Quote)
			}
			if qe.Code() != diag.LexUnterminatedQuote {
				t.Fatalf("unexpected code %v", qe.Code())
			}
		})
	}
}

func TestTokenizeEscapedBackslash(t *testing.T) {
	// "\\" is an escaped backslash, so the next quote closes the literal
	root, _ := mustTokenize(t, `("a\\")`)
	expectChildren(t, root, []shape{{token.Group, 0, 6, `("a\\")`}})
	expectChildren(t, root.Children[0], []shape{{token.QuotedText, 1, 5, `"a\\"`}})

	_, err := lexer.Tokenize(`("a\")`, lexer.Options{})
	var qe *lexer.UnterminatedQuoteError
	if !errors.As(err, &qe) {
		t.Fatalf("escaped quote must not close the literal, got %v", err)
	}
}

func TestTokenizeFromUsesBaseOffset(t *testing.T) {
	grp, err := lexer.TokenizeFrom("(a, (b))", token.Paren, 1, 100, lexer.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if grp.Span.Start != 100 || grp.Span.End != 107 || grp.Unclosed {
		t.Fatalf("unexpected group span %v unclosed=%v", grp.Span, grp.Unclosed)
	}
	expectChildren(t, grp, []shape{
		{token.Text, 101, 103, "a, "},
		{token.Group, 104, 106, "(b)"},
	})
	if err := testkit.CheckTokenInvariants(grp, "(a, (b))", 100); err != nil {
		t.Fatal(err)
	}

	if _, err := lexer.TokenizeFrom("abc", token.DelimNone, 4, 0, lexer.Options{}); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	root, _ := mustTokenize(t, "")
	if len(root.Children) != 0 || !root.Span.Empty() {
		t.Fatalf("unexpected root for empty input: %v", root)
	}
}

func TestTokenizeCustomMarkers(t *testing.T) {
	root, err := lexer.Tokenize("a`;`;b", lexer.Options{Quotes: "`", Comment: ';'})
	if err != nil {
		t.Fatal(err)
	}
	expectChildren(t, root, []shape{
		{token.Text, 0, 0, "a"},
		{token.QuotedText, 1, 3, "`;`"},
		{token.CommentText, 4, 5, ";b"},
	})
}

func TestTokenizeRoundTrip(t *testing.T) {
	inputs := []string{
		"def initialize(String name, ?Integer age = nil, @email:) => void",
		"def call(Hash[Symbol, Array[String]] opts = {}, &blk) # comment",
		"def self.build(?(A | B) x = (1 + 2), *rest)",
		`def pick(sep = ", ", quote = '"')`,
		"   \t\n",
		"plain text",
	}
	for _, in := range inputs {
		t.Run(fmt.Sprintf("%.20s", in), func(t *testing.T) {
			root, _ := mustTokenize(t, in)
			if got := root.SourceText(); got != in {
				t.Fatalf("round trip mismatch:\n got %q\nwant %q", got, in)
			}
		})
	}
}
