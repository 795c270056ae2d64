package engine

import "sync"

// request is one entry in the pending queue: either a concrete video
// identifier or the idle-return sentinel.
type request struct {
	video string
	idle  bool
}

// requestQueue is an unbounded multiple-producer/single-consumer FIFO.
// Push never blocks and pop is a non-blocking try-pop; the run loop is the
// sole consumer.
type requestQueue struct {
	mu    sync.Mutex
	items []request
}

func (q *requestQueue) push(r request) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(q.items, r)
}

// pop removes and returns the oldest request, if any.
func (q *requestQueue) pop() (request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return request{}, false
	}

	r := q.items[0]

	q.items[0] = request{}
	q.items = q.items[1:]

	// Reclaim the backing array once fully drained.
	if len(q.items) == 0 {
		q.items = nil
	}

	return r, true
}

// pending reports whether any request is queued.
func (q *requestQueue) pending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items) > 0
}
