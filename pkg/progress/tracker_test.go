package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrackerClimbsWhileRunning(t *testing.T) {
	tr := NewTracker()
	defer tr.Stop()
	tr.Start()

	time.Sleep(350 * time.Millisecond)

	value, done, failed := tr.Value()
	assert.Greater(t, value, 0)
	assert.LessOrEqual(t, value, syntheticCap)
	assert.False(t, done)
	assert.False(t, failed)
}

func TestTrackerNeverExceedsCapBeforeCompletion(t *testing.T) {
	tr := NewTracker()
	defer tr.Stop()
	tr.Start()

	// Long enough that an uncapped climb would pass 95.
	time.Sleep(2200 * time.Millisecond)

	value, done, _ := tr.Value()
	assert.LessOrEqual(t, value, syntheticCap)
	assert.False(t, done)
}

func TestCompletePinsAtHundred(t *testing.T) {
	tr := NewTracker()
	tr.Start()
	tr.Complete()

	value, done, failed := tr.Value()
	assert.Equal(t, 100, value)
	assert.True(t, done)
	assert.False(t, failed)

	// The ticker is stopped; the value stays pinned.
	time.Sleep(250 * time.Millisecond)
	value, _, _ = tr.Value()
	assert.Equal(t, 100, value)
}

func TestFailResetsToZero(t *testing.T) {
	tr := NewTracker()
	tr.Start()
	time.Sleep(250 * time.Millisecond)
	tr.Fail()

	value, done, failed := tr.Value()
	assert.Equal(t, 0, value)
	assert.True(t, done)
	assert.True(t, failed)
}

func TestStopIsIdempotent(t *testing.T) {
	tr := NewTracker()
	tr.Start()
	tr.Stop()
	tr.Stop()
	tr.Complete()
}
