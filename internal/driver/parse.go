package driver

import (
	"errors"

	"sigtype/internal/diag"
	"sigtype/internal/parser"
	"sigtype/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	// Signature is nil when the text is not a signature or failed to tokenize.
	Signature *parser.Signature
	Bag       *diag.Bag
}

// ParseText parses a single signature given as text, e.g. from the command
// line. Failures are recorded in Bag.
func ParseText(name, text string, opts Options) *ParseResult {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, []byte(text))
	file := fs.Get(fileID)
	bag := diag.NewBag(opts.MaxDiagnostics)

	popts := opts.Parser
	popts.Reporter = diag.BagReporter{Bag: bag}
	sig, err := parser.ParseSignature(file.Text(), popts)
	var ne *parser.NotASignatureError
	switch {
	case errors.As(err, &ne):
		// одиночный ввод, который не является сигнатурой, считается ошибкой, а не предупреждение
		diag.ReportError(popts.Reporter, ne.Code(), ne.Span, ne.Error()).Emit()
	case err != nil:
		reportFailure(popts.Reporter, err)
	}
	return &ParseResult{FileSet: fs, File: file, Signature: sig, Bag: bag}
}

// Signatures returns the parsed signature as a slice, empty on failure.
func (r *ParseResult) Signatures() []*parser.Signature {
	if r.Signature == nil {
		return []*parser.Signature{}
	}
	return []*parser.Signature{r.Signature}
}
