package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidgui/rapidgui/internal/call"
)

// ownerLoop drives a scene's dispatcher the way the bubbletea tick does,
// without a terminal. Returns a stop func that waits for loop exit.
func ownerLoop(t *testing.T, scene *Scene) (stop func(), fatal *error) {
	t.Helper()
	var fatalErr error
	quit := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer scene.Close()
		ticker := time.NewTicker(2 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				if err := scene.Dispatcher.Tick(); err != nil {
					fatalErr = err
					return
				}
				for _, w := range scene.Widgets {
					w.Tick()
				}
			}
		}
	}()

	return func() {
		select {
		case <-done:
		default:
			close(quit)
			<-done
		}
	}, &fatalErr
}

func TestScriptedScenario(t *testing.T) {
	scene, err := BuildScene(context.Background(), demoConfig())
	require.NoError(t, err)
	stop, _ := ownerLoop(t, scene)
	defer stop()

	btn, err := scene.Registry.Lookup("mybutton")
	require.NoError(t, err)
	bar, err := scene.Registry.Lookup("myprogressbar")
	require.NoError(t, err)

	// Write then read: the read is FIFO-ordered behind the write on the
	// same queue, so it observes the written state.
	require.NoError(t, btn.Call("set_enabled", false))
	v, err := btn.Get("get_enabled")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	require.NoError(t, bar.Call("set_pct", 42))
	v, err = bar.Get("get_pct")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	// Listener registration and firing through the real widget.
	pressed := make(chan struct{}, 1)
	require.NoError(t, btn.OnEvent(func() { pressed <- struct{}{} }))
	require.NoError(t, btn.Call("set_enabled", true))

	// Wait until both calls are dispatched, then press on the owner side.
	_, err = btn.Get("get_enabled")
	require.NoError(t, err)
	scene.Widgets[0].Press()

	select {
	case <-pressed:
	case <-time.After(time.Second):
		t.Fatal("listener did not fire")
	}
}

func TestScriptSeesOwnerDeath(t *testing.T) {
	scene, err := BuildScene(context.Background(), demoConfig())
	require.NoError(t, err)
	stop, _ := ownerLoop(t, scene)

	btn, err := scene.Registry.Lookup("mybutton")
	require.NoError(t, err)
	require.NoError(t, btn.Call("set_label", "alive"))

	stop() // owner loop exits

	assert.ErrorIs(t, btn.Call("set_label", "dead"), call.ErrOwnerDead)
	_, err = btn.Get("get_label")
	assert.ErrorIs(t, err, call.ErrOwnerDead)
}

func TestUnresolvedOpKillsOwnerLoop(t *testing.T) {
	scene, err := BuildScene(context.Background(), demoConfig())
	require.NoError(t, err)
	stop, fatal := ownerLoop(t, scene)
	defer stop()

	btn, err := scene.Registry.Lookup("mybutton")
	require.NoError(t, err)
	require.NoError(t, btn.Call("explode"))

	require.Eventually(t, func() bool { return !scene.Owner.Alive() }, time.Second, time.Millisecond)
	stop()
	require.Error(t, *fatal)
	assert.ErrorIs(t, *fatal, call.ErrUnresolvedOp)
}

func TestModelFocusAndPress(t *testing.T) {
	scene, err := BuildScene(context.Background(), demoConfig())
	require.NoError(t, err)
	defer scene.Close()

	m := NewModel(scene)
	assert.Equal(t, 0, m.focus, "button is the first focusable widget")

	// Only the button is focusable; cycling stays on it.
	assert.Equal(t, 0, m.nextFocusable(m.focus, 1))
	assert.Equal(t, 0, m.nextFocusable(m.focus, -1))

	m.width = 80
	view := m.View()
	assert.Contains(t, view, "Do work")
	assert.Contains(t, view, "Quit")
}
