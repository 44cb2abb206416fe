// Package debounce coalesces bursts of side-effecting writes into a single
// write that runs after a quiet period.
package debounce

import (
	"sync"
	"time"

	"github.com/bep/debounce"
)

// Writer holds at most one pending write. Each Schedule replaces the pending
// write and restarts the quiet period; Cancel drops it.
type Writer struct {
	mu       sync.Mutex
	debounce func(f func())
	pending  func()
	gen      uint64
}

// New returns a Writer that runs the pending write after quiet has elapsed
// with no further Schedule calls.
func New(quiet time.Duration) *Writer {
	return &Writer{debounce: debounce.New(quiet)}
}

// Schedule makes fn the pending write.
func (w *Writer) Schedule(fn func()) {
	w.mu.Lock()
	w.pending = fn
	w.gen++
	gen := w.gen
	w.mu.Unlock()

	w.debounce(func() { w.fire(gen) })
}

// fire runs the pending write only if no later Schedule or Cancel
// happened since generation gen was scheduled.
func (w *Writer) fire(gen uint64) {
	w.mu.Lock()
	if w.pending == nil || gen != w.gen {
		w.mu.Unlock()
		return
	}
	fn := w.pending
	w.pending = nil
	w.mu.Unlock()

	fn()
}

// Cancel drops the pending write without running it.
func (w *Writer) Cancel() {
	w.mu.Lock()
	w.pending = nil
	w.gen++
	w.mu.Unlock()
}

// Pending reports whether a write is waiting for the quiet period.
func (w *Writer) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending != nil
}
