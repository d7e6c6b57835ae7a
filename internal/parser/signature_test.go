package parser

import (
	"errors"
	"testing"

	"sigtype/internal/diag"
	"sigtype/internal/lexer"
	"sigtype/internal/source"
	"sigtype/internal/trace"
)

func TestParseReturnType(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		typ     string
		typeAt  []int
		sigSpan []int
	}{
		{"no annotation", "def method_name", "void", nil, nil},
		{"simple", "def method_name => return_type", "return_type", []int{19, 29}, []int{16, 29}},
		{"record type", "def method_name arg => { test: String }", "{ test: String }", []int{23, 38}, []int{20, 38}},
		{"trailing comment", "def method_name => return type # comment", "return type", []int{19, 29}, []int{16, 29}},
		{"nilable union", "def method_name => ?(Type | OtherType[Type]) # comment", "?(Type | OtherType[Type])", []int{19, 43}, []int{16, 43}},
		{"empty after marker", "def m =>   # c", "void", nil, nil},
		{"unclosed bracket", "def m => Hash[String", "Hash[String]", []int{9, 19}, []int{6, 19}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := lexer.Tokenize(tt.src, lexer.Options{})
			if err != nil {
				t.Fatal(err)
			}
			got := ParseReturnType(root.Children)
			if got.Type != tt.typ {
				t.Fatalf("type = %q, want %q", got.Type, tt.typ)
			}
			if tt.typeAt == nil {
				if got.Specified() || got.SignatureSpan != nil {
					t.Fatalf("expected sentinel, got spans %v %v", got.TypeSpan, got.SignatureSpan)
				}
				return
			}
			if *got.TypeSpan != (source.Span{Start: tt.typeAt[0], End: tt.typeAt[1]}) {
				t.Errorf("type span %v, want %v", *got.TypeSpan, tt.typeAt)
			}
			if *got.SignatureSpan != (source.Span{Start: tt.sigSpan[0], End: tt.sigSpan[1]}) {
				t.Errorf("signature span %v, want %v", *got.SignatureSpan, tt.sigSpan)
			}
		})
	}
}

func TestParseReturnTypeIgnoresNestedMarkers(t *testing.T) {
	src := "def method_name(type arg, test = -> { proc }, String b:, (Integer | String) x: 123) => { test: String }"
	root, err := lexer.Tokenize(src, lexer.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := ParseReturnType(root.Children); got.Type != "{ test: String }" {
		t.Fatalf("type = %q", got.Type)
	}
	root, _ = lexer.Tokenize("def m(h = { a => 1 })", lexer.Options{})
	if got := ParseReturnType(root.Children); got.Specified() {
		t.Fatalf("marker inside a group must be ignored, got %q", got.Type)
	}
}

func TestParseSignatureFull(t *testing.T) {
	src := `def test(String hello, ?(Integer | customType) foo = 1, kwarg: "))((") => String # comment`
	sig, err := ParseSignature(src, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if sig.Name != "test" || sig.NameSpan != (source.Span{Start: 4, End: 7}) || sig.Receiver != "" {
		t.Fatalf("unexpected name %q at %v", sig.Name, sig.NameSpan)
	}
	if len(sig.Arguments) != 3 {
		t.Fatalf("expected 3 arguments, got %s", describeArgs(sig.Arguments))
	}
	checkArg(t, 0, sig.Arguments[0], &wantArg{name: "hello", typ: "String", span: [2]int{9, 20}, nameSpan: [2]int{16, 20}, typeSpan: []int{9, 14}})
	checkArg(t, 1, sig.Arguments[1], &wantArg{name: "foo", typ: "?(Integer | customType)", optional: true, span: [2]int{23, 49}, nameSpan: [2]int{47, 49}, typeSpan: []int{23, 45}})
	checkArg(t, 2, sig.Arguments[2], &wantArg{name: "kwarg", typ: "?untyped", kind: Keyword, optional: true, span: [2]int{56, 60}, nameSpan: [2]int{56, 60}})

	rt := sig.ReturnType
	if rt.Type != "String" || *rt.TypeSpan != (source.Span{Start: 74, End: 79}) || *rt.SignatureSpan != (source.Span{Start: 71, End: 79}) {
		t.Fatalf("unexpected return type %q %v %v", rt.Type, rt.TypeSpan, rt.SignatureSpan)
	}
	if sig.Params == nil || sig.Params.Span != (source.Span{Start: 8, End: 69}) {
		t.Fatalf("unexpected params group %v", sig.Params)
	}
}

func TestParseSignatureShapes(t *testing.T) {
	tests := []struct {
		src      string
		name     string
		receiver string
		args     int
		ret      string
	}{
		{"def test(foo)", "test", "", 1, "void"},
		{"def self.build(a) => X", "build", "self", 1, "X"},
		{"def valid?() => Boolean", "valid?", "", 0, "Boolean"},
		{"def f", "f", "", 0, "void"},
		{"method_name", "method_name", "", 0, "void"},
		{"method_name => ReturnType # note", "method_name", "", 0, "ReturnType"},
		{"call(a, b)", "call", "", 2, "void"},
		{"def method_name arg => { test: String }", "method_name", "", 0, "{ test: String }"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			sig, err := ParseSignature(tt.src, Options{})
			if err != nil {
				t.Fatal(err)
			}
			if sig.Name != tt.name || sig.Receiver != tt.receiver {
				t.Errorf("name %q receiver %q", sig.Name, sig.Receiver)
			}
			if sig.Arguments == nil || len(sig.Arguments) != tt.args {
				t.Errorf("arguments %s, want %d", describeArgs(sig.Arguments), tt.args)
			}
			if sig.ReturnType.Type != tt.ret {
				t.Errorf("return type %q, want %q", sig.ReturnType.Type, tt.ret)
			}
		})
	}
}

func TestParseSignatureReturnSpansWithComment(t *testing.T) {
	sig, err := ParseSignature("method_name => ReturnType # note", Options{})
	if err != nil {
		t.Fatal(err)
	}
	rt := sig.ReturnType
	if *rt.SignatureSpan != (source.Span{Start: 12, End: 24}) || *rt.TypeSpan != (source.Span{Start: 15, End: 24}) {
		t.Fatalf("spans %v %v", *rt.SignatureSpan, *rt.TypeSpan)
	}

	sig, err = ParseSignature("method_name", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if sig.ReturnType.Type != "void" || sig.ReturnType.TypeSpan != nil || sig.ReturnType.SignatureSpan != nil {
		t.Fatalf("expected the void sentinel, got %+v", sig.ReturnType)
	}
}

func TestParseSignatureErrors(t *testing.T) {
	for _, src := range []string{"not a def at all", "", "(a) => X", `"def" x`} {
		t.Run(src, func(t *testing.T) {
			_, err := ParseSignature(src, Options{})
			var nse *NotASignatureError
			if !errors.As(err, &nse) {
				t.Fatalf("expected NotASignatureError, got %v", err)
			}
			if nse.Code() != diag.SynNotASignature {
				t.Fatalf("unexpected code %v", nse.Code())
			}
		})
	}

	_, err := ParseSignature(`def x(a = "open`, Options{})
	var qe *lexer.UnterminatedQuoteError
	if !errors.As(err, &qe) {
		t.Fatalf("expected UnterminatedQuoteError, got %v", err)
	}
}

func TestParseSignatureAtBaseOffset(t *testing.T) {
	sig, err := ParseSignatureAt("def f(Integer a) => T", 100, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if sig.NameSpan != (source.Span{Start: 104, End: 104}) || sig.Span != (source.Span{Start: 100, End: 120}) {
		t.Fatalf("name span %v, span %v", sig.NameSpan, sig.Span)
	}
	arg := sig.Arguments[0]
	if arg.NameSpan != (source.Span{Start: 114, End: 114}) || *arg.TypeSpan != (source.Span{Start: 106, End: 112}) {
		t.Fatalf("argument spans %v %v", arg.NameSpan, *arg.TypeSpan)
	}
	if *sig.ReturnType.TypeSpan != (source.Span{Start: 120, End: 120}) {
		t.Fatalf("return type span %v", *sig.ReturnType.TypeSpan)
	}
}

func TestParseSignatureCustomGrammar(t *testing.T) {
	opts := Options{DefKeyword: "fn", FieldMarker: "$", ReturnMarker: "->"}
	sig, err := ParseSignature("fn go($x, Int y) -> Bool", opts)
	if err != nil {
		t.Fatal(err)
	}
	if sig.Name != "go" || len(sig.Arguments) != 2 {
		t.Fatalf("unexpected signature %q %s", sig.Name, describeArgs(sig.Arguments))
	}
	checkArg(t, 0, sig.Arguments[0], &wantArg{name: "$x", field: true, span: [2]int{6, 7}, nameSpan: [2]int{7, 7}})
	checkArg(t, 1, sig.Arguments[1], &wantArg{name: "y", typ: "Int", span: [2]int{10, 14}, nameSpan: [2]int{14, 14}, typeSpan: []int{10, 12}})
	if sig.ReturnType.Type != "Bool" || *sig.ReturnType.SignatureSpan != (source.Span{Start: 17, End: 23}) {
		t.Fatalf("unexpected return type %+v", sig.ReturnType)
	}
}

func TestParseSignatureReportsAndTraces(t *testing.T) {
	bag := diag.NewBag(10)
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	opts := Options{Reporter: diag.BagReporter{Bag: bag}, Tracer: ring}
	sig, err := ParseSignature("def f(a, *rest) => ", opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(sig.Arguments) != 2 || sig.Arguments[1] != nil {
		t.Fatalf("unexpected arguments %s", describeArgs(sig.Arguments))
	}
	codes := map[diag.Code]int{}
	for _, d := range bag.Items() {
		codes[d.Code]++
	}
	if codes[diag.SynUnclassifiedArgument] != 1 || codes[diag.SynEmptyReturnType] != 1 {
		t.Fatalf("unexpected diagnostics %v", codes)
	}

	var sawSignature, sawArgument bool
	for _, ev := range ring.Snapshot() {
		switch ev.Scope {
		case trace.ScopeSignature:
			sawSignature = true
		case trace.ScopeArgument:
			sawArgument = true
		}
	}
	if !sawSignature || !sawArgument {
		t.Fatalf("expected signature and argument trace events")
	}
}
