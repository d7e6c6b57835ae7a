package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a liveness event every interval. Each beat carries the
// number of spans still open, so a scan stuck in one file shows up as
// beats with a constant non-zero count.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat returns nil when tracing is off or interval <= 0; Stop on
// a nil Heartbeat is a no-op.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go h.run(t, interval)
	return h
}

func (h *Heartbeat) run(t Tracer, interval time.Duration) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var beats uint64
	for {
		select {
		case now := <-ticker.C:
			beats++
			t.Emit(&Event{
				Time:   now,
				Seq:    nextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				Name:   "heartbeat",
				Detail: "#" + strconv.FormatUint(beats, 10),
				Extra:  map[string]string{"open_spans": strconv.FormatInt(openSpans.Load(), 10)},
			})
		case <-h.stop:
			return
		}
	}
}

// Stop ends the goroutine and waits for it.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
