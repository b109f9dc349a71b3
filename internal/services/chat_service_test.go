package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/connectx/internal/database"
	"github.com/thereayou/connectx/internal/handlers/dto"
	"github.com/thereayou/connectx/internal/models"
	"github.com/thereayou/connectx/internal/testutil"
	"github.com/thereayou/connectx/pkg/apperr"
)

type recordingPublisher struct {
	mu        sync.Mutex
	published []dto.MessageResponse
}

func (p *recordingPublisher) PublishMessage(_ context.Context, _ uuid.UUID, msg dto.MessageResponse) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, msg)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

type chatFixture struct {
	db    *database.Database
	svc   *ChatService
	pub   *recordingPublisher
	alice *models.User
	bob   *models.User
	carol *models.User
}

// newChatFixture connects alice and bob. carol has no connections.
func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	db := testutil.NewDatabase(t)
	f := &chatFixture{
		db:    db,
		pub:   &recordingPublisher{},
		alice: testutil.CreateUser(t, db, "alice"),
		bob:   testutil.CreateUser(t, db, "bob"),
		carol: testutil.CreateUser(t, db, "carol"),
	}
	testutil.Connect(t, db, f.alice.ID, f.bob.ID, models.StatusAccepted)
	f.svc = NewChatService(db, NewGate(db), f.pub)
	return f
}

func TestChatService_SendCreatesSingleRoom(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	msg, err := f.svc.Send(ctx, f.alice.ID, f.bob.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", msg.Content)
	assert.Equal(t, "alice full", msg.SenderName)
	assert.False(t, msg.IsRead)
	assert.Equal(t, 1, f.pub.count())

	rooms, err := f.svc.Rooms(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, msg.RoomID, rooms[0].ID)
	require.NotNil(t, rooms[0].LastMessage)
	assert.Equal(t, "hi", rooms[0].LastMessage.Content)
	assert.EqualValues(t, 0, rooms[0].UnreadCount)

	bobRooms, err := f.svc.Rooms(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, bobRooms, 1)
	assert.EqualValues(t, 1, bobRooms[0].UnreadCount)

	thread, err := f.svc.Thread(ctx, f.bob.ID, f.alice.ID)
	require.NoError(t, err)
	require.NotNil(t, thread.RoomID)
	assert.Equal(t, msg.RoomID, *thread.RoomID)
	require.Len(t, thread.Messages, 1)
	assert.True(t, thread.Messages[0].IsRead)
}

func TestChatService_SendRejects(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		recipient uuid.UUID
		content   string
		code      apperr.Code
	}{
		{"missing recipient", uuid.Nil, "hi", apperr.CodeInvalidArgument},
		{"empty content", f.bob.ID, "", apperr.CodeInvalidArgument},
		{"whitespace content", f.bob.ID, "   ", apperr.CodeInvalidArgument},
		{"self", f.alice.ID, "hi", apperr.CodeInvalidArgument},
		{"unknown recipient", uuid.New(), "hi", apperr.CodeNotFound},
		{"not connected", f.carol.ID, "hi", apperr.CodePermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Send(ctx, f.alice.ID, tt.recipient, tt.content)
			assert.Equal(t, tt.code, apperr.CodeOf(err))
		})
	}

	assert.Zero(t, f.pub.count())
	rooms, err := f.svc.Rooms(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestChatService_OpenRoom(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	first, err := f.svc.OpenRoom(ctx, f.alice.ID, f.bob.ID)
	require.NoError(t, err)
	again, err := f.svc.OpenRoom(ctx, f.bob.ID, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, first.Members, 2)
	assert.Nil(t, first.LastMessage)

	_, err = f.svc.OpenRoom(ctx, f.alice.ID, f.carol.ID)
	assert.ErrorIs(t, err, apperr.ErrNotConnected)

	_, err = f.svc.OpenRoom(ctx, f.alice.ID, uuid.Nil)
	assert.ErrorIs(t, err, apperr.ErrMissingUserID)

	room, err := f.db.FindDirectRoom(ctx, f.alice.ID, f.carol.ID)
	require.NoError(t, err)
	assert.Nil(t, room)
}

func TestChatService_RoomMessages(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	sent, err := f.svc.Send(ctx, f.alice.ID, f.bob.ID, "one")
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, f.bob.ID, f.alice.ID, "two")
	require.NoError(t, err)

	msgs, err := f.svc.RoomMessages(ctx, f.bob.ID, sent.RoomID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "one", msgs[0].Content)
	assert.Equal(t, "two", msgs[1].Content)
	assert.True(t, msgs[0].IsRead)
	assert.False(t, msgs[1].IsRead)

	_, err = f.svc.RoomMessages(ctx, f.carol.ID, sent.RoomID)
	assert.ErrorIs(t, err, apperr.ErrAccessDenied)

	_, err = f.svc.RoomMessages(ctx, f.alice.ID, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrRoomNotFound)
}

func TestChatService_ThreadWithoutRoom(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	thread, err := f.svc.Thread(ctx, f.alice.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Nil(t, thread.RoomID)
	assert.NotNil(t, thread.Messages)
	assert.Empty(t, thread.Messages)

	_, err = f.svc.Thread(ctx, f.alice.ID, f.carol.ID)
	assert.ErrorIs(t, err, apperr.ErrNotConnected)

	_, err = f.svc.Thread(ctx, f.alice.ID, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestChatService_PostToRoom(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	room, err := f.svc.OpenRoom(ctx, f.alice.ID, f.bob.ID)
	require.NoError(t, err)

	_, err = f.svc.PostToRoom(ctx, f.alice.ID, room.ID, "  ")
	assert.ErrorIs(t, err, apperr.ErrEmptyContent)

	_, err = f.svc.PostToRoom(ctx, f.carol.ID, room.ID, "sneaky")
	assert.ErrorIs(t, err, apperr.ErrNotRoomMember)
	assert.Zero(t, f.pub.count())

	msg, err := f.svc.PostToRoom(ctx, f.bob.ID, room.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, msg.SenderID)
	assert.Equal(t, 1, f.pub.count())
}

func TestChatService_ConcurrentFirstContact(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			from, to := f.alice.ID, f.bob.ID
			if i%2 == 0 {
				from, to = to, from
			}
			_, err := f.svc.Send(ctx, from, to, "race")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	rooms, err := f.svc.Rooms(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 1)

	msgs, err := f.db.ListRoomMessages(ctx, rooms[0].ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 8)
}
