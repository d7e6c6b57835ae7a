package driver

import "time"

// Stage describes a phase of a scan.
type Stage string

const (
	StageLoad  Stage = "load"
	StageParse Stage = "parse"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	// StatusCached marks a file whose result came from the disk cache.
	StatusCached Status = "cached"
	StatusError  Status = "error"
)

// Event reports progress for a file (or for the whole scan when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	// Signatures found in the file; set on done and cached events.
	Signatures int
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: workers emit without coordination.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
