package driver

import (
	"errors"

	"sigtype/internal/diag"
	"sigtype/internal/lexer"
	"sigtype/internal/source"
	"sigtype/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	// Root is the top-level group; zero when tokenizing failed.
	Root token.Token
	OK   bool
	Bag  *diag.Bag
}

// TokenizeFile loads path and tokenizes its whole content.
func TokenizeFile(path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return tokenize(fs, fs.Get(fileID), opts), nil
}

// TokenizeText tokenizes text registered as a virtual file called name.
func TokenizeText(name, text string, opts Options) *TokenizeResult {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, []byte(text))
	return tokenize(fs, fs.Get(fileID), opts)
}

func tokenize(fs *source.FileSet, file *source.File, opts Options) *TokenizeResult {
	bag := diag.NewBag(opts.MaxDiagnostics)
	lopts := opts.Parser.Lexer
	lopts.Reporter = diag.BagReporter{Bag: bag}

	res := &TokenizeResult{FileSet: fs, File: file, Bag: bag}
	root, err := lexer.Tokenize(file.Text(), lopts)
	if err != nil {
		var qe *lexer.UnterminatedQuoteError
		if errors.As(err, &qe) {
			diag.ReportError(lopts.Reporter, qe.Code(), qe.Span, qe.Error()).Emit()
		} else {
			reportFailure(lopts.Reporter, err)
		}
		return res
	}
	res.Root = root
	res.OK = true
	return res
}
