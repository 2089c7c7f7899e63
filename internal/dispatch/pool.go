package dispatch

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rapidgui/rapidgui/internal/events"
	"github.com/rapidgui/rapidgui/internal/log"
)

// DefaultPoolWorkers sizes the listener pool. Listener callbacks are user
// script code and may run for seconds; a handful of workers is plenty for
// a GUI.
const DefaultPoolWorkers = 4

// Pool runs event-listener invocations off the owner loop's critical path.
type Pool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	once   sync.Once
	logger *slog.Logger
}

// NewPool starts workers goroutines servicing the task queue.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = DefaultPoolWorkers
	}
	p := &Pool{
		tasks:  make(chan func(), workers*4),
		logger: log.WithComponent("listeners"),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// Guard wraps a registered callback so each firing runs on the pool with
// at most one live invocation: a firing while the previous invocation is
// still running is dropped, not queued. The returned func is what widgets
// call when their event triggers; it never blocks the owner loop.
func (p *Pool) Guard(target string, f func(), hub *events.Hub) func() {
	id := uuid.NewString()
	var running atomic.Bool

	return func() {
		if !running.CompareAndSwap(false, true) {
			p.logger.Debug("listener still running, firing dropped", "target", target, "listener", id)
			if hub != nil {
				hub.Publish("listener.dropped", target, map[string]any{"listener": id})
			}
			return
		}
		task := func() {
			defer running.Store(false)
			f()
		}
		select {
		case p.tasks <- task:
			if hub != nil {
				hub.Publish("listener.fired", target, map[string]any{"listener": id})
			}
		default:
			// Pool saturated; treat like an overlapping firing.
			running.Store(false)
			p.logger.Warn("listener pool saturated, firing dropped", "target", target, "listener", id)
			if hub != nil {
				hub.Publish("listener.dropped", target, map[string]any{"listener": id})
			}
		}
	}
}

// Close stops accepting work and waits for in-flight invocations.
func (p *Pool) Close() {
	p.once.Do(func() { close(p.tasks) })
	p.wg.Wait()
}
