package diag

import "sigtype/internal/source"

// Builder collects one diagnostic and hands it to a Reporter on Emit.
// Every method is safe on a nil *Builder.
type Builder struct {
	to   Reporter
	d    Diagnostic
	sent bool
}

func Report(r Reporter, sev Severity, code Code, primary source.Span, msg string) *Builder {
	return &Builder{to: r, d: New(sev, code, primary, msg)}
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *Builder {
	return Report(r, SevError, code, primary, msg)
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *Builder {
	return Report(r, SevWarning, code, primary, msg)
}

// Note attaches a secondary location.
func (b *Builder) Note(sp source.Span, msg string) *Builder {
	if b != nil {
		b.d = b.d.WithNote(sp, msg)
	}
	return b
}

// Emit reports the diagnostic; repeated calls are no-ops.
func (b *Builder) Emit() {
	if b == nil || b.sent {
		return
	}
	b.sent = true
	if b.to != nil {
		b.to.Report(b.d.Code, b.d.Severity, b.d.Primary, b.d.Message, b.d.Notes)
	}
}
