package crud

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of calls into one, firing after a quiet period.
// Search input uses it so rapid keystrokes cost a single load.
type Debouncer struct {
	d     time.Duration
	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(d time.Duration) *Debouncer {
	if d <= 0 {
		d = 450 * time.Millisecond
	}
	return &Debouncer{d: d}
}

// Do schedules fn, replacing any pending call.
func (b *Debouncer) Do(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.d, fn)
}

// Stop cancels any pending call.
func (b *Debouncer) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
