package progress

import (
	"sync"
	"time"
)

const (
	tickInterval = 100 * time.Millisecond
	tickStep     = 5
	syntheticCap = 95
)

// Tracker reports synthetic upload progress. The value climbs on a timer
// while the real work runs, holds just under done, then jumps to 100 on
// Complete or drops to 0 on Fail. It never reflects actual bytes moved.
type Tracker struct {
	mu     sync.Mutex
	value  int
	done   bool
	failed bool
	stop   chan struct{}
	once   sync.Once
}

func NewTracker() *Tracker {
	return &Tracker{stop: make(chan struct{})}
}

// Start begins the synthetic climb. Safe to call once per tracker.
func (t *Tracker) Start() {
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				t.mu.Lock()
				if !t.done && !t.failed && t.value < syntheticCap {
					t.value += tickStep
					if t.value > syntheticCap {
						t.value = syntheticCap
					}
				}
				t.mu.Unlock()
			}
		}
	}()
}

// Complete pins the tracker at 100 and stops the climb.
func (t *Tracker) Complete() {
	t.mu.Lock()
	t.value = 100
	t.done = true
	t.mu.Unlock()
	t.Stop()
}

// Fail resets the tracker to 0 and stops the climb.
func (t *Tracker) Fail() {
	t.mu.Lock()
	t.value = 0
	t.done = true
	t.failed = true
	t.mu.Unlock()
	t.Stop()
}

// Stop halts the ticker goroutine. Idempotent.
func (t *Tracker) Stop() {
	t.once.Do(func() { close(t.stop) })
}

// Value reports the current synthetic progress and terminal flags.
func (t *Tracker) Value() (value int, done bool, failed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value, t.done, t.failed
}
