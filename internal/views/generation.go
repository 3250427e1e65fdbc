// Package views holds the state of the two directory screens and the shell
// that switches between them. Nothing here knows about HTTP or terminals;
// renderers read snapshots and call the operations.
package views

import "sync"

// Generation is an observable counter. It is bumped once per successful
// creation and only ever read as a change signal. The zero value is ready to
// use.
type Generation struct {
	mu    sync.Mutex
	value uint64
	subs  map[chan uint64]struct{}
}

// Value returns the current count.
func (g *Generation) Value() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value
}

// Bump increments the counter and publishes the new value to subscribers.
// A subscriber that has not drained its previous value gets the new one in
// its place.
func (g *Generation) Bump() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.value++
	for ch := range g.subs {
		select {
		case ch <- g.value:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- g.value
		}
	}
	return g.value
}

// Subscribe returns a channel that receives every later value and a cancel
// function that closes it.
func (g *Generation) Subscribe() (<-chan uint64, func()) {
	ch := make(chan uint64, 1)

	g.mu.Lock()
	if g.subs == nil {
		g.subs = make(map[chan uint64]struct{})
	}
	g.subs[ch] = struct{}{}
	g.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.subs, ch)
			g.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
