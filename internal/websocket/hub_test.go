package websocket

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(h *Hub, buffer int) *Client {
	return NewClient(h, nil, NewSession(uuid.New()), buffer)
}

func drain(c *Client) [][]byte {
	var out [][]byte
	for {
		select {
		case f, ok := <-c.send:
			if !ok {
				return out
			}
			out = append(out, f)
		default:
			return out
		}
	}
}

func TestHub_PublishReachesAllSubscribersIncludingSender(t *testing.T) {
	h := NewHub()
	room, other := uuid.New(), uuid.New()
	a, b, c := newTestClient(h, 4), newTestClient(h, 4), newTestClient(h, 4)
	require.NoError(t, h.Subscribe(a, room))
	require.NoError(t, h.Subscribe(b, room))
	require.NoError(t, h.Subscribe(c, other))

	n := h.Publish(room, []byte("hi"))
	assert.Equal(t, 2, n)
	assert.Equal(t, [][]byte{[]byte("hi")}, drain(a))
	assert.Equal(t, [][]byte{[]byte("hi")}, drain(b))
	assert.Empty(t, drain(c))
}

func TestHub_SubscribeReplacesPrevious(t *testing.T) {
	h := NewHub()
	first, second := uuid.New(), uuid.New()
	c := newTestClient(h, 4)

	require.NoError(t, h.Subscribe(c, first))
	require.NoError(t, h.Subscribe(c, second))

	assert.Equal(t, 0, h.RoomSize(first))
	assert.Equal(t, 1, h.RoomSize(second))
	assert.Equal(t, 1, h.SessionCount())
	assert.Zero(t, h.Publish(first, []byte("x")))
}

func TestHub_UnsubscribeIsIdempotent(t *testing.T) {
	h := NewHub()
	room := uuid.New()
	c := newTestClient(h, 4)
	require.NoError(t, h.Subscribe(c, room))

	h.Unsubscribe(c)
	h.Unsubscribe(c)

	assert.Equal(t, 0, h.RoomSize(room))
	assert.Equal(t, 0, h.SessionCount())
	_, ok := <-c.send
	assert.False(t, ok)
	assert.ErrorIs(t, h.Subscribe(c, room), ErrSessionClosed)
}

func TestHub_SlowSubscriberIsPurged(t *testing.T) {
	h := NewHub()
	room := uuid.New()
	slow, fast := newTestClient(h, 1), newTestClient(h, 8)
	require.NoError(t, h.Subscribe(slow, room))
	require.NoError(t, h.Subscribe(fast, room))

	assert.Equal(t, 2, h.Publish(room, []byte("1")))
	assert.Equal(t, 1, h.Publish(room, []byte("2")))

	assert.Equal(t, 1, h.RoomSize(room))
	assert.Len(t, drain(fast), 2)
	assert.Len(t, drain(slow), 1)
}

func TestHub_ClosedTransportIsPurged(t *testing.T) {
	h := NewHub()
	room := uuid.New()
	c := newTestClient(h, 4)
	require.NoError(t, h.Subscribe(c, room))

	c.markDone()
	assert.Zero(t, h.Publish(room, []byte("x")))
	assert.Equal(t, 0, h.RoomSize(room))
}

func TestHub_ConcurrentUse(t *testing.T) {
	h := NewHub()
	room := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c := newTestClient(h, 2)
			_ = h.Subscribe(c, room)
			h.Publish(room, []byte("x"))
			h.Unsubscribe(c)
		}()
		go func() {
			defer wg.Done()
			h.Publish(room, []byte("y"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, h.RoomSize(room))
	assert.Equal(t, 0, h.SessionCount())
}

func TestHub_Stop(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 1)
	require.NoError(t, h.Subscribe(c, uuid.New()))

	h.Stop()
	_, ok := <-c.send
	assert.False(t, ok)
	assert.Equal(t, 0, h.SessionCount())
}
