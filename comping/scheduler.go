package comping

import (
	"container/heap"
	"sync"
	"time"
)

// HumanizeManager is a cancellable delay queue for note callbacks.
// Zero or negative delays run synchronously on the caller; positive
// delays are dispatched in deadline order by a per-manager goroutine,
// ties resolved by registration order. Clear drops everything still
// pending and never touches callbacks that already ran. Each manager
// owns its queue exclusively, so clearing one never affects another.
type HumanizeManager struct {
	mu      sync.Mutex
	queue   timerQueue
	nextSeq uint64
	epoch   uint64

	interrupt chan struct{}
	stop      chan struct{}
	stopOnce  sync.Once
}

type timerEntry struct {
	at    time.Time
	seq   uint64 // registration order, breaks deadline ties
	epoch uint64 // entries from a cleared epoch are dropped unrun
	fn    func()
}

// NewHumanizeManager starts the dispatch goroutine. Call Close when the
// manager is no longer needed.
func NewHumanizeManager() *HumanizeManager {
	m := &HumanizeManager{
		interrupt: make(chan struct{}, 1),
		stop:      make(chan struct{}),
	}
	go m.dispatchLoop()
	return m
}

// Schedule runs fn after delay. A non-positive delay executes fn
// immediately on the calling goroutine; callers must not assume a yield
// point happens at zero delay.
func (m *HumanizeManager) Schedule(fn func(), delay time.Duration) {
	if delay <= 0 {
		fn()
		return
	}
	m.mu.Lock()
	heap.Push(&m.queue, &timerEntry{
		at:    time.Now().Add(delay),
		seq:   m.nextSeq,
		epoch: m.epoch,
		fn:    fn,
	})
	m.nextSeq++
	m.mu.Unlock()
	m.signal()
}

// Clear cancels every pending callback. Already-fired callbacks stay
// fired. The manager keeps accepting Schedule calls afterwards; calling
// Clear on an empty queue, or repeatedly, is fine.
func (m *HumanizeManager) Clear() {
	m.mu.Lock()
	m.queue = nil
	m.epoch++
	m.mu.Unlock()
	m.signal()
}

// Pending reports how many callbacks are waiting.
func (m *HumanizeManager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Close stops the dispatch goroutine. Pending callbacks never fire.
func (m *HumanizeManager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *HumanizeManager) signal() {
	select {
	case m.interrupt <- struct{}{}:
	default:
	}
}

// dispatchLoop peeks the earliest deadline, sleeps toward it, and wakes
// early when the queue changes under it.
func (m *HumanizeManager) dispatchLoop() {
	for {
		m.mu.Lock()
		var next *timerEntry
		if len(m.queue) > 0 {
			next = m.queue[0]
		}
		m.mu.Unlock()

		if next == nil {
			select {
			case <-m.stop:
				return
			case <-m.interrupt:
			}
			continue
		}

		if wait := time.Until(next.at); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-m.stop:
				timer.Stop()
				return
			case <-m.interrupt:
				// Queue changed, re-peek for a new earliest deadline.
				timer.Stop()
				continue
			case <-timer.C:
			}
		}
		m.runDue()
	}
}

// runDue pops and fires everything at or past its deadline. The epoch is
// checked under the same lock as the pop, so a Clear racing a due entry
// either removes it from the queue or marks it stale before it can run.
func (m *HumanizeManager) runDue() {
	now := time.Now()
	for {
		m.mu.Lock()
		if len(m.queue) == 0 || m.queue[0].at.After(now) {
			m.mu.Unlock()
			return
		}
		entry := heap.Pop(&m.queue).(*timerEntry)
		stale := entry.epoch != m.epoch
		m.mu.Unlock()
		if !stale {
			entry.fn()
		}
	}
}

// timerQueue is a min-heap ordered by deadline, then registration order.
type timerQueue []*timerEntry

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if !q[i].at.Equal(q[j].at) {
		return q[i].at.Before(q[j].at)
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *timerQueue) Push(x any) { *q = append(*q, x.(*timerEntry)) }

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return entry
}
