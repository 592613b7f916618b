// Package activity keeps the most recent publications in memory.
package activity

import (
	"sync"
	"time"

	"github.com/nDmitry/rssposter/internal/entity"
)

// Log is a bounded ring of publications, safe for concurrent use
type Log struct {
	mu      sync.RWMutex
	items   []entity.Publication
	next    int
	full    bool
	lastRun time.Time
	posted  int
}

// NewLog creates a Log holding up to size publications
func NewLog(size int) *Log {
	if size < 1 {
		size = 1
	}

	return &Log{items: make([]entity.Publication, size)}
}

// Record appends a publication, evicting the oldest one when full
func (l *Log) Record(p entity.Publication) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items[l.next] = p
	l.next = (l.next + 1) % len(l.items)

	if l.next == 0 {
		l.full = true
	}
}

// Recent returns up to limit publications, newest first
func (l *Log) Recent(limit int) []entity.Publication {
	l.mu.RLock()
	defer l.mu.RUnlock()

	count := l.next
	if l.full {
		count = len(l.items)
	}

	limit = max(0, min(limit, count))

	pubs := make([]entity.Publication, 0, limit)

	for i := 1; i <= limit; i++ {
		idx := (l.next - i + len(l.items)) % len(l.items)
		pubs = append(pubs, l.items[idx])
	}

	return pubs
}

// MarkRun stores the time of the last finished job run and the Posted-Set size
func (l *Log) MarkRun(at time.Time, posted int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastRun = at
	l.posted = posted
}

// Status returns the values stored by MarkRun
func (l *Log) Status() (time.Time, int) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.lastRun, l.posted
}
