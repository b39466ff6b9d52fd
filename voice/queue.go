package voice

import (
	"sync"

	"github.com/skald-app/skald/audiocapture"
)

// queue is an unbounded FIFO of recorded frames. Pushes never block so
// the key handler can hand off a recording without waiting on the
// transcription worker.
type queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []audiocapture.Frame
	closed bool
}

func newQueue() *queue {
	q := &queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *queue) push(f audiocapture.Frame) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, f)
	q.cond.Signal()
}

// pop blocks until a frame is available or the queue is closed.
// The second result is false once the queue is closed and drained.
func (q *queue) pop() (audiocapture.Frame, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return audiocapture.Frame{}, false
	}
	f := q.items[0]
	q.items = q.items[1:]
	return f, true
}

func (q *queue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
