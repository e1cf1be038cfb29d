package ws

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushToUserFansOutToAllConnections(t *testing.T) {
	hub := NewHub()
	a := NewClient(1, 4)
	b := NewClient(1, 4)
	other := NewClient(2, 4)
	hub.Register(a)
	hub.Register(b)
	hub.Register(other)

	hub.PushToUser(1, map[string]string{"title": "Pickup accepted"})

	require.Len(t, a.Send, 1)
	require.Len(t, b.Send, 1)
	assert.Len(t, other.Send, 0)
	assert.JSONEq(t, `{"title":"Pickup accepted"}`, string(<-a.Send))
}

func TestPushToUserSkipsSlowConsumers(t *testing.T) {
	hub := NewHub()
	c := NewClient(1, 1)
	hub.Register(c)

	hub.PushToUser(1, "first")
	hub.PushToUser(1, "dropped") // buffer full, must not block

	assert.Len(t, c.Send, 1)
}

func TestCloseUnregisters(t *testing.T) {
	hub := NewHub()
	a := NewClient(1, 1)
	b := NewClient(1, 1)
	hub.Register(a)
	hub.Register(b)
	assert.Equal(t, 2, hub.ConnectionCount())

	a.Close()
	a.Close() // idempotent
	assert.Equal(t, 1, hub.ConnectionCount())

	// Push after close reaches only the live connection.
	hub.PushToUser(1, "hello")
	assert.Len(t, b.Send, 1)
	assert.Len(t, a.Send, 0)
}

// A push racing a disconnect must drop the message, never panic the pushing
// goroutine.
func TestPushRacingDisconnectDoesNotPanic(t *testing.T) {
	for i := 0; i < 50; i++ {
		hub := NewHub()
		c := NewClient(1, 1)
		hub.Register(c)

		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 20; j++ {
					hub.PushToUser(1, "ping")
				}
			}()
		}
		c.Close()
		wg.Wait()
		assert.Equal(t, 0, hub.ConnectionCount())
	}
}
