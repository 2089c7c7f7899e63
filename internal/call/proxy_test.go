package call

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fakeOwner drains a queue on a short interval and answers get_value.
func fakeOwner(q *Queue, owner *Liveness, value any, stop <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	defer owner.MarkDead()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			for _, env := range q.DrainAvailable() {
				if env.WantsReply() {
					env.Reply(value)
				}
			}
		}
	}
}

func TestProxyGetReturnsOwnerValue(t *testing.T) {
	q := NewQueue(10)
	owner := NewLiveness()
	stop := make(chan struct{})
	defer close(stop)
	go fakeOwner(q, owner, 42, stop)

	p := NewProxy("bar", q, owner, testLogger())
	v, err := p.Get("get_pct")
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestProxyCallReturnsImmediately(t *testing.T) {
	q := NewQueue(10)
	owner := NewLiveness()
	p := NewProxy("btn", q, owner, testLogger())

	// Nothing drains the queue; a write call must still return right away.
	done := make(chan error, 1)
	go func() { done <- p.Call("set_enabled", false) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("write call blocked")
	}

	got := q.DrainAvailable()
	require.Len(t, got, 1)
	assert.Equal(t, "set_enabled", got[0].Op)
	assert.Equal(t, []any{false}, got[0].Args.Pos)
}

func TestProxyGetUnblocksOnOwnerDeath(t *testing.T) {
	q := NewQueue(10)
	owner := NewLiveness()
	p := NewProxy("bar", q, owner, testLogger())

	errc := make(chan error, 1)
	go func() {
		_, err := p.Get("get_pct")
		errc <- err
	}()

	time.Sleep(20 * time.Millisecond) // let the reader block
	owner.MarkDead()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, ErrOwnerDead)
	case <-time.After(time.Second):
		t.Fatal("blocked reader not released by owner death")
	}
}

func TestProxyFailsFastAfterOwnerDeath(t *testing.T) {
	q := NewQueue(10)
	owner := NewLiveness()
	owner.MarkDead()
	p := NewProxy("btn", q, owner, testLogger())

	assert.ErrorIs(t, p.Call("set_enabled", true), ErrOwnerDead)
	_, err := p.Get("get_enabled")
	assert.ErrorIs(t, err, ErrOwnerDead)
	assert.ErrorIs(t, p.OnEvent(func() {}), ErrOwnerDead)
	assert.Equal(t, 0, q.Len())
}

func TestProxyQueueFullWithLiveOwner(t *testing.T) {
	q := NewQueue(1)
	owner := NewLiveness()
	p := NewProxy("btn", q, owner, testLogger())
	p.wait = 20 * time.Millisecond

	require.NoError(t, p.Call("set_label", "x"))
	err := p.Call("set_label", "y")
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestProxyQueueFullBecomesOwnerDead(t *testing.T) {
	q := NewQueue(1)
	owner := NewLiveness()
	p := NewProxy("btn", q, owner, testLogger())
	p.wait = 50 * time.Millisecond

	require.NoError(t, p.Call("set_label", "x"))

	go func() {
		time.Sleep(10 * time.Millisecond)
		owner.MarkDead()
	}()

	// Owner dies mid-wait: the caller must see death, not queue pressure.
	err := p.Call("set_label", "y")
	assert.ErrorIs(t, err, ErrOwnerDead)
}

func TestProxyOnEventCarriesCallbackByValue(t *testing.T) {
	q := NewQueue(10)
	owner := NewLiveness()
	p := NewProxy("btn", q, owner, testLogger())

	fired := false
	require.NoError(t, p.OnEvent(func() { fired = true }))

	got := q.DrainAvailable()
	require.Len(t, got, 1)
	assert.Equal(t, OpAddListener, got[0].Op)
	require.NotNil(t, got[0].Listener)
	got[0].Listener()
	assert.True(t, fired)
}

func TestProxyOnEventRejectsNil(t *testing.T) {
	p := NewProxy("btn", NewQueue(1), NewLiveness(), testLogger())
	assert.Error(t, p.OnEvent(nil))
}

func TestRegistryLookup(t *testing.T) {
	owner := NewLiveness()
	p := NewProxy("btn", NewQueue(1), owner, testLogger())
	reg := NewRegistry(map[string]*Proxy{"btn": p})

	got, err := reg.Lookup("btn")
	require.NoError(t, err)
	assert.Same(t, p, got)

	_, err = reg.Lookup("nope")
	assert.ErrorIs(t, err, ErrUnknownTarget)

	assert.ElementsMatch(t, []string{"btn"}, reg.IDs())
}

func TestLivenessMarkDeadIsIdempotent(t *testing.T) {
	l := NewLiveness()
	assert.True(t, l.Alive())
	l.MarkDead()
	l.MarkDead()
	assert.False(t, l.Alive())

	select {
	case <-l.Done():
	default:
		t.Fatal("Done channel not closed")
	}
}
