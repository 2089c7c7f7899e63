package call

import "sync"

// Liveness tracks whether the owner loop is still running. The loop marks
// itself dead exactly once on exit; proxies consult the handle before
// enqueueing and while blocked on replies.
type Liveness struct {
	once sync.Once
	done chan struct{}
}

// NewLiveness returns a handle in the alive state.
func NewLiveness() *Liveness {
	return &Liveness{done: make(chan struct{})}
}

// MarkDead records that the owner loop has exited, releasing every
// goroutine blocked on Done. Safe to call more than once.
func (l *Liveness) MarkDead() {
	l.once.Do(func() { close(l.done) })
}

// Alive reports whether the owner loop is still running.
func (l *Liveness) Alive() bool {
	select {
	case <-l.done:
		return false
	default:
		return true
	}
}

// Done returns a channel closed when the owner loop exits.
func (l *Liveness) Done() <-chan struct{} {
	return l.done
}
