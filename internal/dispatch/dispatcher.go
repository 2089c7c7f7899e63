package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/rapidgui/rapidgui/internal/call"
	"github.com/rapidgui/rapidgui/internal/events"
	"github.com/rapidgui/rapidgui/internal/journal"
	"github.com/rapidgui/rapidgui/internal/log"
)

// Target is one owner-side object the dispatcher services: a queue to
// drain, a closed op table to resolve against, and a listener hook.
type Target interface {
	ID() string
	Queue() *call.Queue
	Ops() map[string]call.OpFunc
	AddListener(f func())
}

//go:generate mockgen -destination=mocks/mock_recorder.go -package=mocks github.com/rapidgui/rapidgui/internal/dispatch Recorder

// Recorder receives one record per dispatched call. The journal implements
// it; tests mock it.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

// TargetStats is a point-in-time view of one target's dispatch activity.
type TargetStats struct {
	ID         string `json:"id"`
	QueueDepth int    `json:"queue_depth"`
	QueueCap   int    `json:"queue_cap"`
	Dispatched int64  `json:"dispatched"`
}

// Dispatcher drains every target's queue once per owner-loop tick.
type Dispatcher struct {
	targets  []Target
	hub      *events.Hub
	recorder Recorder
	pool     *Pool
	logger   *slog.Logger

	dispatched map[string]*atomic.Int64
}

// New builds a dispatcher over a fixed target set. hub and recorder may be
// nil; pool must not be if any script registers listeners.
func New(targets []Target, pool *Pool, hub *events.Hub, recorder Recorder) *Dispatcher {
	d := &Dispatcher{
		targets:    targets,
		hub:        hub,
		recorder:   recorder,
		pool:       pool,
		logger:     log.WithComponent("dispatch"),
		dispatched: make(map[string]*atomic.Int64, len(targets)),
	}
	for _, t := range targets {
		d.dispatched[t.ID()] = &atomic.Int64{}
	}
	return d
}

// Tick drains each target's queue snapshot and invokes the drained calls.
// It runs on the owner goroutine only. A non-nil return is fatal: the
// owner loop is expected to log it and shut down.
func (d *Dispatcher) Tick() error {
	for _, t := range d.targets {
		for _, env := range t.Queue().DrainAvailable() {
			if err := d.invoke(t, env); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Dispatcher) invoke(t Target, env call.Envelope) error {
	if env.Op == call.OpAddListener {
		d.attachListener(t, env)
		return nil
	}

	op, ok := t.Ops()[env.Op]
	if !ok {
		err := fmt.Errorf("%w: %q has no operation %q", call.ErrUnresolvedOp, t.ID(), env.Op)
		d.record(t.ID(), env, "error", err.Error(), 0)
		d.publish("call.failed", t.ID(), map[string]any{"op": env.Op, "error": err.Error()})
		return err
	}

	start := time.Now()
	v, err := op(env.Args)
	elapsed := time.Since(start)

	if err != nil {
		err = fmt.Errorf("target %q op %q: %w", t.ID(), env.Op, err)
		d.record(t.ID(), env, "error", err.Error(), elapsed.Milliseconds())
		d.publish("call.failed", t.ID(), map[string]any{"op": env.Op, "error": err.Error()})
		return err
	}

	env.Reply(v)
	d.dispatched[t.ID()].Add(1)
	d.record(t.ID(), env, "ok", "", elapsed.Milliseconds())
	d.publish("call.dispatched", t.ID(), map[string]any{"op": env.Op})
	return nil
}

func (d *Dispatcher) attachListener(t Target, env call.Envelope) {
	if env.Listener == nil {
		d.logger.Warn("listener registration without callback", "target", t.ID())
		return
	}
	wrapped := d.pool.Guard(t.ID(), env.Listener, d.hub)
	t.AddListener(wrapped)
	d.dispatched[t.ID()].Add(1)
	d.record(t.ID(), env, "ok", "", 0)
	d.publish("listener.added", t.ID(), nil)
}

// Stats reports per-target queue depth and dispatch counts, in target
// order. Queue depths are read concurrently with producers and are only a
// snapshot.
func (d *Dispatcher) Stats() []TargetStats {
	out := make([]TargetStats, 0, len(d.targets))
	for _, t := range d.targets {
		out = append(out, TargetStats{
			ID:         t.ID(),
			QueueDepth: t.Queue().Len(),
			QueueCap:   t.Queue().Cap(),
			Dispatched: d.dispatched[t.ID()].Load(),
		})
	}
	return out
}

func (d *Dispatcher) record(target string, env call.Envelope, status, errMsg string, durationMS int64) {
	if d.recorder == nil {
		return
	}
	e := journal.Entry{
		Target:     target,
		Op:         env.Op,
		Read:       env.WantsReply(),
		Status:     status,
		Error:      errMsg,
		DurationMS: durationMS,
	}
	if err := d.recorder.Record(context.Background(), e); err != nil {
		d.logger.Warn("journal record failed", "error", err)
	}
}

func (d *Dispatcher) publish(eventType, target string, data map[string]any) {
	if d.hub == nil {
		return
	}
	d.hub.Publish(eventType, target, data)
}
