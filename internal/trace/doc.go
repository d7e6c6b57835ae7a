// Package trace provides the tracing subsystem of sigtype.
//
// It records scan runs, per-file work and signature parses so slow or stuck
// scans can be diagnosed.
//
// # Usage
//
//	sigtype scan --trace=- --trace-level=detail lib/
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: immediate write to a file or stderr
//   - RingTracer: circular buffer dumped when the command exits
//   - Tee: fans out to several tracers (--trace-mode=both)
//
// # Levels and scopes
//
// LevelPhase emits ScopeDriver and ScopeFile events, LevelDetail adds
// ScopeSignature, LevelDebug adds ScopeArgument (one event per argument
// classification).
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeFile, "file:"+path, parentID)
//	defer span.End("")
package trace
