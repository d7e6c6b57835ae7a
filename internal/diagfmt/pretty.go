package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"sigtype/internal/diag"
	"sigtype/internal/source"
)

type palette struct {
	err, warn, info, code, path, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Faint),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, file *source.File, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		writeHeader(w, p, file, d, opts.PathMode)
		writeSnippet(w, p, file, d.Primary)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s\n", p.gutter.Sprint("note:"), n.Msg)
			writeSnippet(w, p, file, n.Span)
		}
	}
}

func writeHeader(w io.Writer, p palette, file *source.File, d diag.Diagnostic, mode PathMode) {
	loc := ""
	if file != nil {
		loc = DisplayPath(file, mode)
		// пустой спан в начале файла: диагностика без позиции (I/O)
		if !(d.Primary.Empty() && d.Primary.Start == 0) {
			start, _ := file.Resolve(d.Primary)
			loc = fmt.Sprintf("%s:%d:%d", loc, start.Line, start.Col)
		}
		loc = p.path.Sprint(loc) + ": "
	}
	fmt.Fprintf(w, "%s%s %s: %s\n", loc, p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()), d.Message)
}

// writeSnippet prints the first line of sp with an underline. Multi-line
// spans are underlined to the end of their first line.
func writeSnippet(w io.Writer, p palette, file *source.File, sp source.Span) {
	if file == nil || len(file.Content) == 0 || (sp.Empty() && sp.Start == 0) {
		return
	}
	start, end := file.Resolve(sp)
	line := file.Line(start.Line)
	lineSpan, ok := file.LineSpan(start.Line)
	if !ok {
		return
	}

	col := int(start.Col) - 1
	width := 1
	if !sp.Empty() {
		last := sp.End
		if end.Line != start.Line {
			last = lineSpan.End
		}
		width = max(last-sp.Start+1, 1)
	}
	col = min(col, len(line))
	prefix := runewidth.StringWidth(strings.ReplaceAll(line[:col], "\t", "    "))
	underlined := line[col:min(col+width, len(line))]
	caretWidth := max(runewidth.StringWidth(strings.ReplaceAll(underlined, "\t", "    ")), 1)

	gutter := fmt.Sprintf("%4d | ", start.Line)
	fmt.Fprintf(w, "%s%s\n", p.gutter.Sprint(gutter), strings.ReplaceAll(line, "\t", "    "))
	fmt.Fprintf(w, "%s%s%s\n", p.gutter.Sprint(strings.Repeat(" ", len(gutter)-2)+"| "),
		strings.Repeat(" ", prefix), p.caret.Sprint("^"+strings.Repeat("~", caretWidth-1)))
}
