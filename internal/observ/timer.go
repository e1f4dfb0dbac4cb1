// Package observ measures the phases of a tokenize call.
package observ

import (
	"fmt"
	"log/slog"
	"time"
)

// Phase is one timed step.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer records phases in the order they begin. Not safe for concurrent use;
// each tokenize call owns its own Timer.
type Timer struct {
	phases []Phase
	now    func() time.Time
}

// NewTimer returns an empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 4), now: time.Now} }

// Begin starts a phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: t.now()})
	return len(t.phases) - 1
}

// End finishes the phase at idx. Unknown indices are ignored.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = t.now().Sub(p.Start)
	p.Note = note
}

// Phases returns the recorded phases.
func (t *Timer) Phases() []Phase { return t.phases }

// Total sums the phase durations.
func (t *Timer) Total() time.Duration {
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
	}
	return total
}

// LogValue groups the phases as name=duration pairs for slog.
func (t *Timer) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(t.phases)+1)
	for _, p := range t.phases {
		v := p.Dur.String()
		if p.Note != "" {
			v = fmt.Sprintf("%s (%s)", v, p.Note)
		}
		attrs = append(attrs, slog.String(p.Name, v))
	}
	attrs = append(attrs, slog.String("total", t.Total().String()))
	return slog.GroupValue(attrs...)
}
