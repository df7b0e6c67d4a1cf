package comping

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleZeroDelayRunsSynchronously(t *testing.T) {
	assert := assert.New(t)

	m := NewHumanizeManager()
	defer m.Close()

	ran := false
	m.Schedule(func() { ran = true }, 0)
	assert.True(ran)

	ran = false
	m.Schedule(func() { ran = true }, -time.Second)
	assert.True(ran)
	assert.Zero(m.Pending())
}

func TestScheduleFiresAfterDelay(t *testing.T) {
	assert := assert.New(t)

	m := NewHumanizeManager()
	defer m.Close()

	done := make(chan struct{})
	m.Schedule(func() { close(done) }, 15*time.Millisecond)
	assert.Equal(1, m.Pending())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}
}

func TestScheduleFiresInDeadlineOrder(t *testing.T) {
	assert := assert.New(t)

	m := NewHumanizeManager()
	defer m.Close()

	var mu sync.Mutex
	var order []int
	record := func(n int) func() {
		return func() {
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
		}
	}

	// Registered out of deadline order on purpose.
	m.Schedule(record(3), 60*time.Millisecond)
	m.Schedule(record(1), 20*time.Millisecond)
	m.Schedule(record(2), 40*time.Millisecond)

	time.Sleep(200 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal([]int{1, 2, 3}, order)
}

func TestScheduleBreaksTiesByRegistrationOrder(t *testing.T) {
	assert := assert.New(t)

	m := NewHumanizeManager()
	defer m.Close()

	var mu sync.Mutex
	var order []int
	at := 30 * time.Millisecond
	for i := 1; i <= 5; i++ {
		n := i
		m.Schedule(func() {
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
		}, at)
	}

	time.Sleep(150 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal([]int{1, 2, 3, 4, 5}, order)
}

func TestClearDropsPendingCallbacks(t *testing.T) {
	assert := assert.New(t)

	m := NewHumanizeManager()
	defer m.Close()

	var fired atomic.Int32
	for i := 0; i < 4; i++ {
		m.Schedule(func() { fired.Add(1) }, 30*time.Millisecond)
	}
	assert.Equal(4, m.Pending())

	m.Clear()
	assert.Zero(m.Pending())

	time.Sleep(100 * time.Millisecond)
	assert.Zero(fired.Load())
}

func TestClearKeepsManagerUsable(t *testing.T) {
	assert := assert.New(t)

	m := NewHumanizeManager()
	defer m.Close()

	m.Clear()
	m.Clear()

	done := make(chan struct{})
	m.Schedule(func() { close(done) }, 10*time.Millisecond)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("schedule after clear never fired")
	}
	assert.Zero(m.Pending())
}

func TestClearOnlyAffectsOwnQueue(t *testing.T) {
	assert := assert.New(t)

	a := NewHumanizeManager()
	defer a.Close()
	b := NewHumanizeManager()
	defer b.Close()

	var aFired, bFired atomic.Int32
	a.Schedule(func() { aFired.Add(1) }, 20*time.Millisecond)
	b.Schedule(func() { bFired.Add(1) }, 20*time.Millisecond)

	a.Clear()
	time.Sleep(100 * time.Millisecond)

	assert.Zero(aFired.Load())
	assert.Equal(int32(1), bFired.Load())
}

func TestCloseStopsDispatch(t *testing.T) {
	assert := assert.New(t)

	m := NewHumanizeManager()

	var fired atomic.Int32
	m.Schedule(func() { fired.Add(1) }, 30*time.Millisecond)
	m.Close()
	m.Close() // idempotent

	time.Sleep(100 * time.Millisecond)
	assert.Zero(fired.Load())
}
