package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"sigtype/internal/diag"
	"sigtype/internal/parser"
	"sigtype/internal/sigcomment"
	"sigtype/internal/source"
)

type ArgumentJSON struct {
	Index        int           `json:"index"`
	Name         string        `json:"name"`
	Type         string        `json:"type"`
	Kind         string        `json:"kind"`
	Optional     bool          `json:"optional"`
	FieldBinding bool          `json:"field_binding,omitempty"`
	Span         source.Span   `json:"span"`
	NameSpan     source.Span   `json:"name_span"`
	TypeSpan     *source.Span  `json:"type_span,omitempty"`
	Location     *LocationJSON `json:"location,omitempty"`
}

type ReturnTypeJSON struct {
	Type          string       `json:"type"`
	TypeSpan      *source.Span `json:"type_span,omitempty"`
	SignatureSpan *source.Span `json:"signature_span,omitempty"`
}

type SignatureJSON struct {
	Name       string          `json:"name"`
	Receiver   string          `json:"receiver,omitempty"`
	NameSpan   source.Span     `json:"name_span"`
	Span       source.Span     `json:"span"`
	Location   *LocationJSON   `json:"location,omitempty"`
	Arguments  []*ArgumentJSON `json:"arguments"`
	ReturnType ReturnTypeJSON  `json:"return_type"`
	Comment    string          `json:"comment"`
}

// FileOutput groups the signatures and diagnostics of one input.
type FileOutput struct {
	Path        string           `json:"path"`
	Cached      bool             `json:"cached,omitempty"`
	Signatures  []SignatureJSON  `json:"signatures"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
}

// BuildSignatureOutput converts sig; unclassified slots stay null so indexes
// line up with the source.
func BuildSignatureOutput(sig *parser.Signature, file *source.File, opts JSONOpts) SignatureJSON {
	out := SignatureJSON{
		Name:      sig.Name,
		Receiver:  sig.Receiver,
		NameSpan:  sig.NameSpan,
		Span:      sig.Span,
		Arguments: make([]*ArgumentJSON, len(sig.Arguments)),
		ReturnType: ReturnTypeJSON{
			Type:          sig.ReturnType.Type,
			TypeSpan:      sig.ReturnType.TypeSpan,
			SignatureSpan: sig.ReturnType.SignatureSpan,
		},
		Comment: sigcomment.RenderSignature(sig),
	}
	if opts.IncludePositions && file != nil {
		loc := locate(sig.NameSpan, file, opts)
		out.Location = &loc
	}
	for i, arg := range sig.Arguments {
		if arg == nil {
			continue
		}
		a := &ArgumentJSON{
			Index:        i,
			Name:         arg.Name,
			Type:         arg.Type,
			Kind:         arg.Kind.String(),
			Optional:     arg.Optional,
			FieldBinding: arg.FieldBinding,
			Span:         arg.Span,
			NameSpan:     arg.NameSpan,
			TypeSpan:     arg.TypeSpan,
		}
		if opts.IncludePositions && file != nil {
			loc := locate(arg.NameSpan, file, opts)
			a.Location = &loc
		}
		out.Arguments[i] = a
	}
	return out
}

// BuildFileOutput collects everything reported for one file.
func BuildFileOutput(path string, file *source.File, sigs []*parser.Signature, bag *diag.Bag, opts JSONOpts) FileOutput {
	out := FileOutput{
		Path:        path,
		Signatures:  make([]SignatureJSON, 0, len(sigs)),
		Diagnostics: diagnosticRecords(bag, file, opts),
	}
	if file != nil {
		out.Path = DisplayPath(file, opts.PathMode)
	}
	for _, sig := range sigs {
		out.Signatures = append(out.Signatures, BuildSignatureOutput(sig, file, opts))
	}
	return out
}

// FormatSignaturePretty prints a signature followed by one line per argument.
func FormatSignaturePretty(w io.Writer, sig *parser.Signature, file *source.File, opts PrettyOpts) {
	p := newPalette(opts.Color)
	name := color.New(color.FgMagenta, color.Bold)
	if !opts.Color {
		name.DisableColor()
	} else {
		name.EnableColor()
	}

	loc := ""
	if file != nil {
		start, _ := file.Resolve(sig.NameSpan)
		loc = p.path.Sprint(fmt.Sprintf("%s:%d:%d", DisplayPath(file, opts.PathMode), start.Line, start.Col)) + " "
	}
	qualified := sig.Name
	if sig.Receiver != "" {
		qualified = sig.Receiver + "." + sig.Name
	}
	fmt.Fprintf(w, "%s%s => %s\n", loc, name.Sprint(qualified), sig.ReturnType.Type)

	for i, arg := range sig.Arguments {
		if arg == nil {
			fmt.Fprintf(w, "  %2d %s\n", i, p.warn.Sprint("<unclassified>"))
			continue
		}
		flags := ""
		if arg.FieldBinding {
			flags += " field"
		}
		if arg.Optional {
			flags += " optional"
		}
		fmt.Fprintf(w, "  %2d %-10s %s: %s%s %s\n", i, arg.Kind, arg.Name, arg.Type,
			p.code.Sprint(flags), p.code.Sprint("@"+arg.Span.String()))
	}
	if sig.ReturnType.Specified() {
		fmt.Fprintf(w, "     %s %s\n", p.code.Sprint("return @"+sig.ReturnType.SignatureSpan.String()), sig.ReturnType.Type)
	}
}

// FormatSignatureComment prints the "# @sig" annotation of sig.
func FormatSignatureComment(w io.Writer, sig *parser.Signature) {
	fmt.Fprintln(w, sigcomment.RenderSignature(sig))
}
