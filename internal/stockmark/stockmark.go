// Package stockmark remembers products that recently sold out so the listing
// can flag them for a while. It is cosmetic: nothing depends on it for
// correctness.
package stockmark

import (
	"context"
	"sync"
	"time"
)

type Marks struct {
	mu     sync.Mutex
	at     map[string]time.Time
	window time.Duration
	now    func() time.Time
}

func New(window time.Duration) *Marks {
	return &Marks{at: map[string]time.Time{}, window: window, now: time.Now}
}

func (m *Marks) Mark(productID string) {
	m.mu.Lock()
	m.at[productID] = m.now()
	m.mu.Unlock()
}

// Recent reports whether productID was marked within the window.
func (m *Marks) Recent(productID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.at[productID]
	return ok && m.now().Sub(t) < m.window
}

// Sweep drops marks older than the window and returns how many it removed.
func (m *Marks) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	cutoff := m.now().Add(-m.window)
	for id, t := range m.at {
		if !t.After(cutoff) {
			delete(m.at, id)
			n++
		}
	}
	return n
}

func (m *Marks) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.at)
}

// Run sweeps every interval until ctx is done.
func (m *Marks) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep()
		}
	}
}
