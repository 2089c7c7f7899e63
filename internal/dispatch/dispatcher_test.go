package dispatch

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidgui/rapidgui/internal/call"
	"github.com/rapidgui/rapidgui/internal/dispatch/mocks"
	"github.com/rapidgui/rapidgui/internal/events"
	"github.com/rapidgui/rapidgui/internal/journal"
)

// stubTarget is a minimal owner-side object for dispatcher tests.
type stubTarget struct {
	id        string
	queue     *call.Queue
	ops       map[string]call.OpFunc
	listeners []func()
}

func newStubTarget(id string) *stubTarget {
	t := &stubTarget{
		id:    id,
		queue: call.NewQueue(32),
		ops:   make(map[string]call.OpFunc),
	}
	return t
}

func (t *stubTarget) ID() string                  { return t.id }
func (t *stubTarget) Queue() *call.Queue          { return t.queue }
func (t *stubTarget) Ops() map[string]call.OpFunc { return t.ops }
func (t *stubTarget) AddListener(f func())        { t.listeners = append(t.listeners, f) }

func (t *stubTarget) fire() {
	for _, f := range t.listeners {
		f()
	}
}

func enqueue(t *testing.T, q *call.Queue, env call.Envelope) {
	t.Helper()
	require.NoError(t, q.Enqueue(env, time.Second))
}

func TestTickDispatchesInOrder(t *testing.T) {
	target := newStubTarget("bar")
	var seen []string
	target.ops["set_pct"] = func(a call.Args) (any, error) {
		seen = append(seen, fmt.Sprintf("set_%v", a.Pos[0]))
		return nil, nil
	}

	pool := NewPool(1)
	defer pool.Close()
	d := New([]Target{target}, pool, nil, nil)

	for i := 0; i < 5; i++ {
		enqueue(t, target.queue, call.NewCall("set_pct", call.Args{Pos: []any{i}}))
	}
	require.NoError(t, d.Tick())

	assert.Equal(t, []string{"set_0", "set_1", "set_2", "set_3", "set_4"}, seen)
	assert.Equal(t, 0, target.queue.Len())
}

func TestTickDeliversReply(t *testing.T) {
	target := newStubTarget("bar")
	target.ops["get_pct"] = func(call.Args) (any, error) { return 42, nil }

	pool := NewPool(1)
	defer pool.Close()
	d := New([]Target{target}, pool, nil, nil)

	env, reply := call.NewRequest("get_pct", call.Args{})
	enqueue(t, target.queue, env)
	require.NoError(t, d.Tick())

	select {
	case v := <-reply:
		assert.Equal(t, 42, v)
	default:
		t.Fatal("no reply delivered")
	}
}

func TestTickUnresolvedOpIsFatal(t *testing.T) {
	target := newStubTarget("bar")
	hub := events.NewHub(8)

	pool := NewPool(1)
	defer pool.Close()
	d := New([]Target{target}, pool, hub, nil)

	enqueue(t, target.queue, call.NewCall("frobnicate", call.Args{}))
	err := d.Tick()
	require.Error(t, err)
	assert.ErrorIs(t, err, call.ErrUnresolvedOp)
	assert.Contains(t, err.Error(), "frobnicate")

	snap := hub.Snapshot()
	require.NotEmpty(t, snap)
	assert.Equal(t, "call.failed", snap[len(snap)-1].Type)
}

func TestTickOpErrorIsFatal(t *testing.T) {
	target := newStubTarget("bar")
	target.ops["set_pct"] = func(call.Args) (any, error) {
		return nil, errors.New("want a number")
	}

	pool := NewPool(1)
	defer pool.Close()
	d := New([]Target{target}, pool, nil, nil)

	enqueue(t, target.queue, call.NewCall("set_pct", call.Args{Pos: []any{"nope"}}))
	err := d.Tick()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want a number")
}

func TestListenerAtMostOneConcurrentInvocation(t *testing.T) {
	target := newStubTarget("btn")

	pool := NewPool(4)
	defer pool.Close()
	d := New([]Target{target}, pool, nil, nil)

	var started atomic.Int32
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	slow := func() {
		if started.Add(1) == 1 {
			defer wg.Done()
			<-release // keep the first invocation running
		}
	}

	enqueue(t, target.queue, call.NewListener(slow))
	require.NoError(t, d.Tick())
	require.Len(t, target.listeners, 1)

	target.fire()
	// Wait for the first invocation to actually be running on the pool.
	require.Eventually(t, func() bool { return started.Load() == 1 }, time.Second, time.Millisecond)

	// Rapid refires while the first invocation still runs must all drop.
	for i := 0; i < 10; i++ {
		target.fire()
	}
	assert.Equal(t, int32(1), started.Load())

	close(release)
	wg.Wait()

	// Once the previous invocation finished, the listener can fire again.
	require.Eventually(t, func() bool {
		target.fire()
		return started.Load() == 2
	}, time.Second, time.Millisecond)
}

func TestDispatcherRecordsToJournal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recorder := mocks.NewMockRecorder(ctrl)
	target := newStubTarget("bar")
	target.ops["set_pct"] = func(call.Args) (any, error) { return nil, nil }

	recorder.EXPECT().
		Record(gomock.Any(), gomock.AssignableToTypeOf(journal.Entry{})).
		DoAndReturn(func(_ any, e journal.Entry) error {
			assert.Equal(t, "bar", e.Target)
			assert.Equal(t, "set_pct", e.Op)
			assert.Equal(t, "ok", e.Status)
			assert.False(t, e.Read)
			return nil
		})

	pool := NewPool(1)
	defer pool.Close()
	d := New([]Target{target}, pool, nil, recorder)

	enqueue(t, target.queue, call.NewCall("set_pct", call.Args{Pos: []any{10}}))
	require.NoError(t, d.Tick())
}

func TestDispatcherStats(t *testing.T) {
	a := newStubTarget("a")
	a.ops["set_x"] = func(call.Args) (any, error) { return nil, nil }
	b := newStubTarget("b")

	pool := NewPool(1)
	defer pool.Close()
	d := New([]Target{a, b}, pool, nil, nil)

	enqueue(t, a.queue, call.NewCall("set_x", call.Args{}))
	enqueue(t, a.queue, call.NewCall("set_x", call.Args{}))
	require.NoError(t, d.Tick())
	enqueue(t, b.queue, call.NewCall("pending", call.Args{}))

	stats := d.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, "a", stats[0].ID)
	assert.Equal(t, int64(2), stats[0].Dispatched)
	assert.Equal(t, 0, stats[0].QueueDepth)
	assert.Equal(t, "b", stats[1].ID)
	assert.Equal(t, int64(0), stats[1].Dispatched)
	assert.Equal(t, 1, stats[1].QueueDepth)
}
