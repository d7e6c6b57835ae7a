// Package observ measures the phases of one CLI command for --timings.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one measured step.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	// Note is free text, Measure stores the error of a failed phase here.
	Note string
}

// Timer records phases in start order. Safe for concurrent use.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
	now    func() time.Time
}

func NewTimer() *Timer { return &Timer{now: time.Now} }

// Start opens a phase; calling the returned function closes it. Only the
// first call counts.
func (t *Timer) Start(name string) (stop func(note string)) {
	t.mu.Lock()
	idx := len(t.phases)
	t.phases = append(t.phases, Phase{Name: name, Start: t.now()})
	t.mu.Unlock()

	var once sync.Once
	return func(note string) {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			p := &t.phases[idx]
			p.Dur = t.now().Sub(p.Start)
			p.Note = note
		})
	}
}

// Measure wraps fn in a phase and returns its error.
func (t *Timer) Measure(name string, fn func() error) error {
	stop := t.Start(name)
	err := fn()
	if err != nil {
		stop(err.Error())
	} else {
		stop("")
	}
	return err
}

// Phases returns a copy of the recorded phases.
func (t *Timer) Phases() []Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Phase(nil), t.phases...)
}

// Summary renders one aligned line per phase with its share of the total.
func (t *Timer) Summary() string {
	rep := t.Report()
	width := len("total")
	for _, p := range rep.Phases {
		width = max(width, len(p.Name))
	}

	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range rep.Phases {
		share := 0.0
		if rep.TotalMS > 0 {
			share = 100 * p.DurationMS / rep.TotalMS
		}
		fmt.Fprintf(&sb, "  %-*s %8.2f ms %5.1f%%", width, p.Name, p.DurationMS, share)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-*s %8.2f ms\n", width, "total", rep.TotalMS)
	return sb.String()
}

type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is the JSON shape printed by --timings together with --format json.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	var rep Report
	var total time.Duration
	for _, p := range t.Phases() {
		total += p.Dur
		rep.Phases = append(rep.Phases, PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note})
	}
	rep.TotalMS = millis(total)
	return rep
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
