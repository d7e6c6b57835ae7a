package trace

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	// KindHeartbeat is emitted by Heartbeat regardless of the level.
	KindHeartbeat
)

var kindNames = [...]string{"unknown", "begin", "end", "point", "heartbeat"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[0]
}

// Scope is the granularity of an event; smaller values are coarser.
type Scope uint8

const (
	ScopeDriver    Scope = iota + 1 // scan/parse/tokenize runs
	ScopeFile                       // one scanned file
	ScopeSignature                  // one signature parse
	ScopeArgument                   // one argument classification
)

var scopeNames = [...]string{"unknown", "driver", "file", "signature", "argument"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return scopeNames[0]
}

// Level selects the finest scope a tracer records.
type Level uint8

const (
	LevelOff Level = iota
	// LevelError keeps tracing armed but records nothing but heartbeats.
	LevelError
	LevelPhase  // driver and file scopes
	LevelDetail // + signatures
	LevelDebug  // + arguments
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the names printed by Level.String, in any case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope are recorded at level l.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopeFile
	case LevelDetail:
		return scope <= ScopeSignature
	case LevelDebug:
		return true
	}
	return false
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // process-wide, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64 // 0 for points and heartbeats
	ParentID uint64
	Name     string // "scan", a file path, "signature", "argument"
	Detail   string
	Extra    map[string]string
}
