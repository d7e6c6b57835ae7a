// Package diag defines the diagnostic model shared by the tokenizer, the
// parsers and the driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error.
//   - Code: compact numeric identifier with a stable string form (codes.go).
//   - Message: short human oriented text.
//   - Primary: source.Span pointing at the offending bytes.
//   - Notes: optional secondary spans with extra context.
//
// # Emitting diagnostics
//
// Phases report through a Reporter and never touch storage directly. A
// report starts with Report, ReportError or ReportWarning, may gain notes,
// and is sent with Emit. BagReporter stores reports in a Bag.
//
// Bag keeps a bounded list and offers Sort and Dedup for deterministic output.
// Rendering lives in internal/diagfmt.
package diag
