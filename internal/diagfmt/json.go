package diagfmt

import (
	"encoding/json"
	"io"

	"sigtype/internal/diag"
	"sigtype/internal/source"
)

// LocationJSON is a byte span plus, when requested, its 1-based positions.
type LocationJSON struct {
	File      string `json:"file,omitempty"`
	StartByte int    `json:"start_byte"`
	EndByte   int    `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
}

// DiagnosticJSON has no location for problems that are not tied to the text,
// such as a file that failed to load.
type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
	Notes    []NoteJSON    `json:"notes,omitempty"`
}

type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// locate переводит span в LocationJSON; file может быть nil.
func locate(span source.Span, file *source.File, opts JSONOpts) LocationJSON {
	loc := LocationJSON{StartByte: span.Start, EndByte: span.End}
	if file == nil {
		return loc
	}
	loc.File = DisplayPath(file, opts.PathMode)
	if opts.IncludePositions {
		from, to := file.Resolve(span)
		loc.StartLine, loc.StartCol = from.Line, from.Col
		loc.EndLine, loc.EndCol = to.Line, to.Col
	}
	return loc
}

// locateDiag returns nil for the "no position" span used by I/O problems.
func locateDiag(span source.Span, file *source.File, opts JSONOpts) *LocationJSON {
	if span == source.EmptyAt(0) {
		return nil
	}
	loc := locate(span, file, opts)
	return &loc
}

func diagnosticRecords(bag *diag.Bag, file *source.File, opts JSONOpts) []DiagnosticJSON {
	var items []diag.Diagnostic
	if bag != nil {
		items = bag.Items()
	}
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
	}
	out := make([]DiagnosticJSON, 0, len(items))
	for _, d := range items {
		rec := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: locateDiag(d.Primary, file, opts),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				rec.Notes = append(rec.Notes, NoteJSON{Message: n.Msg, Location: locateDiag(n.Span, file, opts)})
			}
		}
		out = append(out, rec)
	}
	return out
}

// BuildDiagnosticsOutput builds the JSON document without encoding it.
func BuildDiagnosticsOutput(bag *diag.Bag, file *source.File, opts JSONOpts) DiagnosticsOutput {
	records := diagnosticRecords(bag, file, opts)
	return DiagnosticsOutput{Diagnostics: records, Count: len(records)}
}

func JSON(w io.Writer, bag *diag.Bag, file *source.File, opts JSONOpts) error {
	return WriteJSON(w, BuildDiagnosticsOutput(bag, file, opts))
}

// WriteJSON encodes v with the indentation used by every JSON output.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
