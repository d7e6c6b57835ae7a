package sigcomment

import (
	"testing"

	"sigtype/internal/parser"
)

func TestRenderSignature(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"def greet(String name, ?Integer age, key: 1) => String", "# @sig (String name, ?Integer age, key: ?untyped) -> String"},
		{"def initialize(String @name, Integer count = 0)", "# @sig (String @name, ?Integer count) -> void"},
		{"def untyped(a, b)", "# @sig (untyped a, untyped b) -> void"},
		{"def none", "# @sig () -> void"},
		{"def bad(ok, *rest) => Array[String]", "# @sig (untyped ok, ?) -> Array[String]"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			sig, err := parser.ParseSignature(tt.src, parser.Options{})
			if err != nil {
				t.Fatal(err)
			}
			if got := RenderSignature(sig); got != tt.want {
				t.Fatalf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestFragmentAddsNilableMarker(t *testing.T) {
	arg := &parser.Argument{Name: "x", Type: "Integer", Optional: true}
	if got := Fragment(arg); got != "?Integer x" {
		t.Fatalf("got %q", got)
	}
	kw := &parser.Argument{Name: "k", Type: "String", Kind: parser.Keyword, Optional: true}
	if got := Fragment(kw); got != "?k: String" {
		t.Fatalf("got %q", got)
	}
	if got := Fragment(nil); got != "?" {
		t.Fatalf("got %q", got)
	}
}
