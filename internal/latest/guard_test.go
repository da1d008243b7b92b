package latest

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnlyLatestApplies(t *testing.T) {
	var g Guard
	first := g.Begin()
	second := g.Begin()

	var applied []string
	// second resolves first, then the slower first request arrives
	assert.True(t, g.Apply(second, func() { applied = append(applied, "second") }))
	assert.False(t, g.Apply(first, func() { applied = append(applied, "first") }))
	assert.Equal(t, []string{"second"}, applied)
}

func TestInvalidate(t *testing.T) {
	var g Guard
	tk := g.Begin()
	assert.True(t, g.IsCurrent(tk))
	g.Invalidate()
	assert.False(t, g.IsCurrent(tk))
}

func TestConcurrentRequestsApplyAtMostOnce(t *testing.T) {
	var g Guard
	tickets := make([]Ticket, 50)
	for i := range tickets {
		tickets[i] = g.Begin()
	}

	var mu sync.Mutex
	count := 0
	var wg sync.WaitGroup
	for _, tk := range tickets {
		wg.Add(1)
		go func(tk Ticket) {
			defer wg.Done()
			g.Apply(tk, func() {
				mu.Lock()
				count++
				mu.Unlock()
			})
		}(tk)
	}
	wg.Wait()
	assert.Equal(t, 1, count)
}
