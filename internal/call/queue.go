package call

import "time"

// DefaultCapacity bounds each widget's queue unless the scene config says
// otherwise. A stalled owner loop makes producers block and then fail
// rather than grow memory without limit.
const DefaultCapacity = 200

// DefaultEnqueueWait is how long Enqueue waits on a full queue before
// giving up with ErrQueueFull.
const DefaultEnqueueWait = time.Second

// Queue is a bounded FIFO of envelopes for one target widget. Any number
// of script goroutines may enqueue concurrently; exactly one consumer (the
// owner loop's dispatcher) drains it.
type Queue struct {
	ch chan Envelope
}

// NewQueue returns a queue bounded at capacity. Non-positive capacities
// fall back to DefaultCapacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{ch: make(chan Envelope, capacity)}
}

// Enqueue appends env, waiting up to wait if the queue is full. It returns
// ErrQueueFull once the wait elapses. A non-positive wait means
// DefaultEnqueueWait.
func (q *Queue) Enqueue(env Envelope, wait time.Duration) error {
	if wait <= 0 {
		wait = DefaultEnqueueWait
	}
	select {
	case q.ch <- env:
		return nil
	default:
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case q.ch <- env:
		return nil
	case <-timer.C:
		return ErrQueueFull
	}
}

// DrainAvailable removes and returns the envelopes present when it was
// called, in arrival order. Envelopes enqueued while the drain is running
// are left for the next tick, so a sustained producer cannot pin the owner
// loop inside one drain. It never blocks.
func (q *Queue) DrainAvailable() []Envelope {
	n := len(q.ch)
	if n == 0 {
		return nil
	}
	out := make([]Envelope, 0, n)
	for i := 0; i < n; i++ {
		select {
		case env := <-q.ch:
			out = append(out, env)
		default:
			return out
		}
	}
	return out
}

// Len reports how many envelopes are currently queued.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Cap reports the queue's capacity bound.
func (q *Queue) Cap() int {
	return cap(q.ch)
}
