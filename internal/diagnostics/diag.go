package diagnostics

import (
	"sync"
	"time"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

// Codes raised by the clock.
const (
	RenderDirect    = "RENDER.DIRECT"
	TimeUnavailable = "TIME.UNAVAILABLE"
	SurfaceFallback = "SURFACE.FALLBACK"
	ConfigIgnored   = "CONFIG.IGNORED"
	ConfigZone      = "CONFIG.ZONE"
	TestRunning     = "TEST.RUNNING"
	TestDone        = "TEST.DONE"
	TestUnknown     = "TEST.UNKNOWN"
)

type Diagnostic struct {
	Time           time.Time      `json:"time"`
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// DefaultCapacity is how many diagnostics a Log keeps.
const DefaultCapacity = 64

// Log keeps the most recent diagnostics and fans new ones out to
// subscribers. A subscriber that is not keeping up misses entries.
type Log struct {
	mu   sync.Mutex
	ring []Diagnostic
	next int
	full bool
	subs map[chan Diagnostic]struct{}
	now  func() time.Time
}

func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		ring: make([]Diagnostic, capacity),
		subs: map[chan Diagnostic]struct{}{},
		now:  time.Now,
	}
}

// Push records d, stamping it when Time is unset.
func (l *Log) Push(d Diagnostic) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if d.Time.IsZero() {
		d.Time = l.now()
	}
	l.ring[l.next] = d
	l.next = (l.next + 1) % len(l.ring)
	if l.next == 0 {
		l.full = true
	}
	for ch := range l.subs {
		select {
		case ch <- d:
		default:
		}
	}
}

// Recent returns the kept diagnostics, oldest first.
func (l *Log) Recent() []Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.full {
		return append([]Diagnostic(nil), l.ring[:l.next]...)
	}
	out := make([]Diagnostic, 0, len(l.ring))
	out = append(out, l.ring[l.next:]...)
	return append(out, l.ring[:l.next]...)
}

// Subscribe returns a channel of new diagnostics and a func that closes it.
func (l *Log) Subscribe(buffer int) (<-chan Diagnostic, func()) {
	ch := make(chan Diagnostic, buffer)
	l.mu.Lock()
	l.subs[ch] = struct{}{}
	l.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, ch)
			l.mu.Unlock()
			close(ch)
		})
	}
}
