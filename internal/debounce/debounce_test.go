package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type call struct {
	value string
	at    time.Duration
}

func TestTrailingEdgeSingleCall(t *testing.T) {
	clock := NewManualClock(epoch)
	d := New(300*time.Millisecond, clock)
	var calls []call
	keystroke := func(v string) {
		d.Trigger(func() { calls = append(calls, call{value: v, at: clock.Now().Sub(epoch)}) })
	}

	keystroke("e")
	clock.Advance(100 * time.Millisecond)
	keystroke("en")
	clock.Advance(50 * time.Millisecond)
	keystroke("eng")

	clock.Advance(299 * time.Millisecond)
	assert.Empty(t, calls)
	assert.True(t, d.Pending())

	clock.Advance(time.Millisecond)
	require.Len(t, calls, 1)
	assert.Equal(t, call{value: "eng", at: 450 * time.Millisecond}, calls[0])
	assert.False(t, d.Pending())

	clock.Advance(time.Second)
	assert.Len(t, calls, 1)
}

func TestSpacedTriggersEachFire(t *testing.T) {
	clock := NewManualClock(epoch)
	d := New(300*time.Millisecond, clock)
	n := 0
	d.Trigger(func() { n++ })
	clock.Advance(300 * time.Millisecond)
	d.Trigger(func() { n++ })
	clock.Advance(300 * time.Millisecond)
	assert.Equal(t, 2, n)
}

func TestStop(t *testing.T) {
	clock := NewManualClock(epoch)
	d := New(300*time.Millisecond, clock)
	fired := false
	d.Trigger(func() { fired = true })
	d.Stop()
	clock.Advance(time.Second)
	assert.False(t, fired)
	assert.Equal(t, 0, clock.Pending())
}

func TestFlush(t *testing.T) {
	clock := NewManualClock(epoch)
	d := New(300*time.Millisecond, clock)
	n := 0
	assert.False(t, d.Flush())

	d.Trigger(func() { n++ })
	assert.True(t, d.Flush())
	assert.Equal(t, 1, n)

	clock.Advance(time.Second)
	assert.Equal(t, 1, n, "flushed call must not run again")
}

func TestDefaults(t *testing.T) {
	d := New(0, nil)
	assert.Equal(t, DefaultWait, d.Wait())
}

func TestRealClock(t *testing.T) {
	d := New(50*time.Millisecond, RealClock{})
	var wg sync.WaitGroup
	wg.Add(1)
	var mu sync.Mutex
	got := ""
	for _, v := range []string{"a", "ab", "abc"} {
		v := v
		d.Trigger(func() {
			mu.Lock()
			got = v
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "abc", got)
}
