package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quiet = 30 * time.Millisecond

func TestWriter_CoalescesBurst(t *testing.T) {
	w := New(quiet)

	var calls, last atomic.Int64
	for i := 1; i <= 10; i++ {
		v := int64(i)
		w.Schedule(func() {
			calls.Add(1)
			last.Store(v)
		})
		time.Sleep(quiet / 10)
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * quiet)
	assert.Equal(t, int64(1), calls.Load())
	assert.Equal(t, int64(10), last.Load())
	assert.False(t, w.Pending())
}

func TestWriter_SeparateBurstsWriteSeparately(t *testing.T) {
	w := New(quiet)

	var calls atomic.Int64
	w.Schedule(func() { calls.Add(1) })
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	w.Schedule(func() { calls.Add(1) })
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestWriter_CancelDropsPending(t *testing.T) {
	w := New(quiet)

	var calls atomic.Int64
	w.Schedule(func() { calls.Add(1) })
	w.Cancel()

	time.Sleep(3 * quiet)
	assert.Equal(t, int64(0), calls.Load())
	assert.False(t, w.Pending())
}
