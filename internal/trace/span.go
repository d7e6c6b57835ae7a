package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
	// openSpans считает начатые, но не закрытые спаны; его читает Heartbeat.
	openSpans atomic.Int64
)

func nextSeq() uint64 { return seqCounter.Add(1) }

// Span is an open operation started by Begin. A nil or disabled span is
// valid and does nothing.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin emits a begin event and returns the span to End. parent is the ID of
// the enclosing span, 0 for a root.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !admits(t, scope) {
		return &Span{}
	}
	s := &Span{
		tracer:  t,
		id:      spanCounter.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	openSpans.Add(1)
	t.Emit(&Event{
		Time:     s.started,
		Seq:      nextSeq(),
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: parent,
		Name:     name,
	})
	return s
}

// End emits the end event with the elapsed time in Extra["dur"].
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	dur := time.Since(s.started)
	openSpans.Add(-1)
	s.WithExtra("dur", dur.String())
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Seq:      nextSeq(),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
		Extra:    s.extra,
	})
	s.tracer = nil
	return dur
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, 0 for a disabled span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if !admits(t, scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      nextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}

func admits(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}
