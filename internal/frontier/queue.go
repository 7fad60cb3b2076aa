package frontier

import "sync"

// Job is one pending crawl: a URL and its link distance from the seed.
type Job struct {
	URL   string
	Depth int
}

// Queue is a FIFO of crawl jobs shared by all workers. Enqueue wakes one
// waiting consumer; Dequeue blocks while the queue is empty. The lock is
// held only for the slice mutation, never across network or storage calls.
type Queue struct {
	mu          sync.Mutex
	cond        *sync.Cond
	elements    []Job
	closed      bool
	totalQueued int
}

func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *Queue) Enqueue(j Job) {
	q.mu.Lock()
	if !q.closed {
		q.elements = append(q.elements, j)
		q.totalQueued++
		q.cond.Signal()
	}
	q.mu.Unlock()
}

// Dequeue removes and returns the head job, blocking until one is
// available. ok is false once the queue is closed and drained.
func (q *Queue) Dequeue() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.elements) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.elements) == 0 {
		return Job{}, false
	}
	j := q.elements[0]
	q.elements = q.elements[1:]
	return j, true
}

// Close rejects further enqueues and wakes every blocked consumer.
// Jobs already queued are still handed out.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.elements)
}

func (q *Queue) TotalQueued() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.totalQueued
}
