package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishSubscribe(t *testing.T) {
	h := NewHub(10)
	ch, cancel := h.Subscribe()
	defer cancel()

	h.Publish("call.dispatched", "btn", map[string]any{"op": "set_enabled"})

	ev := <-ch
	assert.Equal(t, "call.dispatched", ev.Type)
	assert.Equal(t, "btn", ev.Target)
	assert.Equal(t, int64(1), ev.Seq)
}

func TestHubSnapshotRingOverwrite(t *testing.T) {
	h := NewHub(3)
	for i := 0; i < 5; i++ {
		h.Publish("tick", "", nil)
	}

	snap := h.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, int64(3), snap[0].Seq)
	assert.Equal(t, int64(5), snap[2].Seq)
}

func TestHubSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	h := NewHub(10)
	_, cancel := h.Subscribe()
	defer cancel()

	// Nobody reads; the subscriber buffer fills and further publishes drop.
	for i := 0; i < 200; i++ {
		h.Publish("tick", "", nil)
	}
}

func TestHubCancelClosesChannel(t *testing.T) {
	h := NewHub(10)
	ch, cancel := h.Subscribe()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
}
