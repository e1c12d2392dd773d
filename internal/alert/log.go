// Package alert keeps the rolling log of non-optimal readings shown on the dashboard.
package alert

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"gridwatch-sim/internal/grid"
)

// Entry is one retained alert.
type Entry struct {
	ID      string       `json:"id"`
	Reading grid.Reading `json:"reading"`
	Message string       `json:"message"`
}

// Log retains the most recent non-optimal readings in a bounded buffer.
type Log struct {
	mu   sync.Mutex
	ring *Ring[Entry]
}

// NewLog creates an alert log holding at most capacity entries.
func NewLog(capacity int) *Log {
	return &Log{ring: NewRing[Entry](capacity)}
}

// Record stores the reading if its status is not optimal.
func (l *Log) Record(r grid.Reading) (Entry, bool) {
	if r.Optimal() {
		return Entry{}, false
	}
	e := Entry{
		ID:      uuid.New().String(),
		Reading: r,
		Message: Message(r),
	}
	l.mu.Lock()
	l.ring.Push(e)
	l.mu.Unlock()
	return e, true
}

// Snapshot returns the retained entries, newest first.
func (l *Log) Snapshot() []Entry {
	l.mu.Lock()
	items := l.ring.Items()
	l.mu.Unlock()
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ring.Len()
}

// Cap returns the configured capacity.
func (l *Log) Cap() int {
	return l.ring.Cap()
}

// Message renders a short human-readable alert line.
func Message(r grid.Reading) string {
	unit := ""
	if r.Unit != "" {
		unit = " " + r.Unit
	}
	return fmt.Sprintf("%s %s: %.2f%s (%s)", r.Metric, r.Status, r.Value, unit, r.Trend)
}
