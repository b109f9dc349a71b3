package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/connectx/internal/handlers/dto"
	"github.com/thereayou/connectx/internal/testutil"
)

func TestRedisRelay_DeliversAcrossNodes(t *testing.T) {
	rdb, _ := testutil.NewRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hubA, hubB := NewHub(), NewHub()
	relayA := NewRedisRelay(rdb, "test:chat", hubA)
	relayB := NewRedisRelay(rdb, "test:chat", hubB)
	require.NoError(t, relayA.Start(ctx))
	require.NoError(t, relayB.Start(ctx))

	room := uuid.New()
	onA, onB := newTestClient(hubA, 4), newTestClient(hubB, 4)
	require.NoError(t, hubA.Subscribe(onA, room))
	require.NoError(t, hubB.Subscribe(onB, room))

	b := NewBroadcaster(hubA, relayA)
	b.PublishMessage(ctx, room, dto.MessageResponse{ID: 7, RoomID: room, SenderID: uuid.New(), SenderName: "alice", Content: "hi"})

	var frame []byte
	select {
	case frame = <-onB.send:
	case <-time.After(2 * time.Second):
		t.Fatal("frame never reached the second node")
	}

	var ev dto.Event
	require.NoError(t, json.Unmarshal(frame, &ev))
	assert.Equal(t, dto.EventMessage, ev.Type)
	assert.EqualValues(t, 7, ev.Data.ID)
	assert.Equal(t, "hi", ev.Data.Content)

	// the origin node delivers locally once and skips its own echo
	time.Sleep(100 * time.Millisecond)
	assert.Len(t, drain(onA), 1)
}

func TestBroadcaster_LocalOnly(t *testing.T) {
	hub := NewHub()
	room := uuid.New()
	c := newTestClient(hub, 4)
	require.NoError(t, hub.Subscribe(c, room))

	NewBroadcaster(hub, nil).PublishMessage(context.Background(), room, dto.MessageResponse{ID: 1, Content: "x"})

	frames := drain(c)
	require.Len(t, frames, 1)
	assert.JSONEq(t, `{"type":"message","data":{"id":1,"sender_id":"00000000-0000-0000-0000-000000000000","sender_name":"","content":"x","timestamp":"0001-01-01T00:00:00Z"}}`, string(frames[0]))
}
