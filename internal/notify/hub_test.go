package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, s *Session) (Event, bool) {
	t.Helper()
	select {
	case ev, ok := <-s.Events():
		return ev, ok
	default:
		return Event{}, false
	}
}

func TestPublishReachesOnlyMatchingKey(t *testing.T) {
	h := NewHub()
	s42 := h.NewSession(4)
	s43 := h.NewSession(4)
	h.Subscribe(s42, KindCustomer, 42)
	h.Subscribe(s43, KindCustomer, 43)

	h.Publish(KindCustomer, 42, Event{Name: "status_changed", Payload: "x"})

	ev, ok := recv(t, s42)
	require.True(t, ok)
	assert.Equal(t, "status_changed", ev.Name)

	_, ok = recv(t, s43)
	assert.False(t, ok, "key 43 must not hear key 42 events")
}

func TestKindsAreDisjoint(t *testing.T) {
	h := NewHub()
	private := h.NewSession(4)
	viewer := h.NewSession(4)
	h.Subscribe(private, KindRestaurant, 7)
	h.Subscribe(viewer, KindMenu, 7)

	h.Publish(KindRestaurant, 7, Event{Name: "new_order"})

	_, ok := recv(t, private)
	assert.True(t, ok)
	_, ok = recv(t, viewer)
	assert.False(t, ok, "menu room shares the key but not the kind")
}

func TestSubscribeIdempotent(t *testing.T) {
	h := NewHub()
	s := h.NewSession(4)
	h.Subscribe(s, KindCustomer, 1)
	h.Subscribe(s, KindCustomer, 1)

	h.Publish(KindCustomer, 1, Event{Name: "once"})

	_, ok := recv(t, s)
	require.True(t, ok)
	_, ok = recv(t, s)
	assert.False(t, ok, "double join must not double deliver")
}

func TestUnsubscribe(t *testing.T) {
	h := NewHub()
	s := h.NewSession(4)
	h.Subscribe(s, KindMenu, 5)
	h.Unsubscribe(s, KindMenu, 5)

	h.Publish(KindMenu, 5, Event{Name: "menu_updated"})
	_, ok := recv(t, s)
	assert.False(t, ok)

	// leaving a room never joined is fine
	h.Unsubscribe(s, KindMenu, 99)
	h.Unsubscribe(h.NewSession(1), KindCustomer, 1)
}

func TestDropClosesAndLeavesAllRooms(t *testing.T) {
	h := NewHub()
	s := h.NewSession(4)
	h.Subscribe(s, KindCustomer, 1)
	h.Subscribe(s, KindMenu, 2)

	h.Drop(s)

	_, open := <-s.Events()
	assert.False(t, open, "channel closed after drop")

	// publishing afterwards must not panic or deliver
	h.Publish(KindCustomer, 1, Event{Name: "late"})
	h.Publish(KindMenu, 2, Event{Name: "late"})

	h.Drop(s) // second drop is a no-op
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	h := NewHub()
	s := h.NewSession(1)
	h.Subscribe(s, KindCustomer, 9)

	h.Publish(KindCustomer, 9, Event{Name: "first"})
	h.Publish(KindCustomer, 9, Event{Name: "second"}) // buffer full, dropped

	ev, ok := recv(t, s)
	require.True(t, ok)
	assert.Equal(t, "first", ev.Name)
	_, ok = recv(t, s)
	assert.False(t, ok, "overflow event is lost, not queued")
}

func TestNoReplayForLateSubscribers(t *testing.T) {
	h := NewHub()
	h.Publish(KindRestaurant, 3, Event{Name: "before"})

	s := h.NewSession(4)
	h.Subscribe(s, KindRestaurant, 3)
	_, ok := recv(t, s)
	assert.False(t, ok, "events published before subscribing are gone")
}
