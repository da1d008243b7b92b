// Package latest discards results of requests that were superseded by a
// newer request before they completed.
package latest

import "sync"

// Ticket identifies one request issued through a Guard.
type Ticket uint64

// Guard hands out monotonically increasing tickets; only the newest may apply.
type Guard struct {
	mu      sync.Mutex
	current Ticket
}

// Begin issues a ticket that supersedes every earlier one.
func (g *Guard) Begin() Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current++
	return g.current
}

// IsCurrent reports whether t is still the newest ticket.
func (g *Guard) IsCurrent(t Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return t == g.current
}

// Apply runs fn while holding the guard if t is still current, and reports
// whether it ran. No newer ticket can be issued while fn runs.
func (g *Guard) Apply(t Ticket, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if t != g.current {
		return false
	}
	fn()
	return true
}

// Invalidate supersedes every outstanding ticket.
func (g *Guard) Invalidate() {
	g.Begin()
}
