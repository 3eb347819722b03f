package swarm

import (
	"slices"
	"sync"
)

// FrameQueue is a Scheduler driven by its owner: callbacks run only when
// Tick is called. Hosts call Tick once per display refresh; tests and
// headless runs call it to advance time by one frame.
type FrameQueue struct {
	mu        sync.Mutex
	next      FrameHandle
	pending   map[FrameHandle]func()
	requested int
}

// NewFrameQueue creates an empty queue.
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{pending: make(map[FrameHandle]func())}
}

// RequestFrame queues fn for the next Tick.
func (q *FrameQueue) RequestFrame(fn func()) FrameHandle {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	q.pending[q.next] = fn
	q.requested++
	return q.next
}

// CancelFrame drops a queued callback. Unknown handles are ignored.
func (q *FrameQueue) CancelFrame(h FrameHandle) {
	q.mu.Lock()
	delete(q.pending, h)
	q.mu.Unlock()
}

// Tick runs every callback queued before the call, in request order, and
// returns how many ran. Callbacks requested during Tick wait for the next one.
func (q *FrameQueue) Tick() int {
	q.mu.Lock()
	handles := make([]FrameHandle, 0, len(q.pending))
	for h := range q.pending {
		handles = append(handles, h)
	}
	q.mu.Unlock()
	slices.Sort(handles)

	ran := 0
	for _, h := range handles {
		q.mu.Lock()
		fn, ok := q.pending[h]
		delete(q.pending, h)
		q.mu.Unlock()

		// Cancelled by an earlier callback in this tick
		if !ok {
			continue
		}
		fn()
		ran++
	}
	return ran
}

// Pending returns the number of queued callbacks.
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Requested returns the total number of RequestFrame calls.
func (q *FrameQueue) Requested() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.requested
}
