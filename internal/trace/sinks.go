package trace

import (
	"errors"
	"io"
	"os"
	"sync"
)

// gate хранит уровень и решает, записывать ли событие.
type gate struct{ level Level }

func (g gate) Level() Level  { return g.level }
func (g gate) Enabled() bool { return g.level > LevelOff }

func (g gate) keep(ev *Event) bool {
	return ev.Kind == KindHeartbeat || g.level.ShouldEmit(ev.Scope)
}

// StreamTracer formats every event as soon as it arrives.
type StreamTracer struct {
	gate
	mu     sync.Mutex
	w      io.Writer
	format Format
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{gate: gate{level}, w: w, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.keep(ev) {
		return
	}
	data := FormatEvent(ev, t.format)
	t.mu.Lock()
	defer t.mu.Unlock()
	// сбой записи трейса не должен ронять скан
	_, _ = t.w.Write(data)
}

func (t *StreamTracer) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes and closes the writer unless it is stdout or stderr.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if t.w == os.Stderr || t.w == os.Stdout {
		return nil
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// RingTracer keeps the most recent events in memory; the CLI dumps it when
// the command finishes.
type RingTracer struct {
	gate
	mu      sync.Mutex
	buf     []Event
	written uint64 // всего записано, позиция = written % len(buf)
}

// NewRingTracer keeps up to capacity events (4096 when capacity <= 0).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{gate: gate{level}, buf: make([]Event, capacity)}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.keep(ev) {
		return
	}
	t.mu.Lock()
	t.buf[t.written%uint64(len(t.buf))] = *ev
	t.written++
	t.mu.Unlock()
}

// Snapshot returns the retained events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := uint64(len(t.buf))
	if t.written <= size {
		return append([]Event(nil), t.buf[:t.written]...)
	}
	head := t.written % size
	out := make([]Event, 0, size)
	out = append(out, t.buf[head:]...)
	return append(out, t.buf[:head]...)
}

// Dropped returns how many events were overwritten.
func (t *RingTracer) Dropped() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if size := uint64(len(t.buf)); t.written > size {
		return t.written - size
	}
	return 0
}

// Dump writes the snapshot to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }

// Tee sends every event to all of its tracers.
type Tee struct {
	gate
	tracers []Tracer
}

func NewTee(level Level, tracers ...Tracer) *Tee {
	return &Tee{gate: gate{level}, tracers: tracers}
}

func (t *Tee) Emit(ev *Event) {
	for _, tr := range t.tracers {
		tr.Emit(ev)
	}
}

func (t *Tee) Flush() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

func (t *Tee) Close() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

// Ring returns the first RingTracer among the tee's tracers.
func (t *Tee) Ring() *RingTracer {
	for _, tr := range t.tracers {
		if r, ok := tr.(*RingTracer); ok {
			return r
		}
	}
	return nil
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop discards everything.
var Nop Tracer = nopTracer{}
