package call

import (
	"fmt"
	"log/slog"
	"time"
)

// Proxy is the script-facing handle for one widget. It is the only thing a
// script ever holds: the widget itself stays on the owner goroutine.
//
// Write-style calls return as soon as the envelope is queued. Read-style
// calls (Get) block until the owner loop replies or exits. Every path
// fails with ErrOwnerDead once the owner loop is gone, never by hanging.
type Proxy struct {
	target string
	queue  *Queue
	owner  *Liveness
	wait   time.Duration
	logger *slog.Logger
}

// NewProxy binds a proxy to target's queue and the owner liveness handle.
func NewProxy(target string, q *Queue, owner *Liveness, logger *slog.Logger) *Proxy {
	return &Proxy{
		target: target,
		queue:  q,
		owner:  owner,
		wait:   DefaultEnqueueWait,
		logger: logger.With(slog.String("target", target)),
	}
}

// Target returns the widget identifier this proxy is bound to.
func (p *Proxy) Target() string {
	return p.target
}

// Call enqueues a fire-and-forget operation with positional arguments.
func (p *Proxy) Call(op string, args ...any) error {
	return p.enqueue(NewCall(op, Args{Pos: args}))
}

// CallKW is Call with keyword arguments.
func (p *Proxy) CallKW(op string, kw map[string]any, args ...any) error {
	return p.enqueue(NewCall(op, Args{Pos: args, KW: kw}))
}

// Get enqueues a read operation and blocks until the owner loop delivers
// the result or exits. On owner death the pending call is abandoned and
// ErrOwnerDead returned; there is no other timeout.
func (p *Proxy) Get(op string, args ...any) (any, error) {
	env, reply := NewRequest(op, Args{Pos: args})
	if err := p.enqueue(env); err != nil {
		return nil, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-p.owner.Done():
		// The dispatcher may have replied in the same instant it shut
		// down; prefer the value if it is already there.
		select {
		case v := <-reply:
			return v, nil
		default:
		}
		p.logger.Debug("read call abandoned, owner loop exited", "op", op)
		return nil, ErrOwnerDead
	}
}

// OnEvent registers f as an event listener on the target. The callback is
// queued like any other call and attached by the dispatcher; each firing
// runs off the owner loop, and a firing that arrives while the previous
// invocation of f is still running is dropped.
func (p *Proxy) OnEvent(f func()) error {
	if f == nil {
		return fmt.Errorf("target %s: nil event listener", p.target)
	}
	return p.enqueue(NewListener(f))
}

func (p *Proxy) enqueue(env Envelope) error {
	if !p.owner.Alive() {
		return ErrOwnerDead
	}
	if err := p.queue.Enqueue(env, p.wait); err != nil {
		// A full queue and a dead owner look identical during the wait;
		// re-check so the caller gets the right failure.
		if !p.owner.Alive() {
			return ErrOwnerDead
		}
		return fmt.Errorf("target %s op %s: %w", p.target, env.Op, err)
	}
	return nil
}
