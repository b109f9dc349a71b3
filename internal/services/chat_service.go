package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/thereayou/connectx/internal/handlers/dto"
	"github.com/thereayou/connectx/internal/metrics"
	"github.com/thereayou/connectx/internal/models"
	"github.com/thereayou/connectx/pkg/apperr"
)

const (
	PathHTTP = "http"
	PathWS   = "ws"
)

// Publisher fans a stored message out to live subscribers. It never reports failure:
// delivery is best effort.
type Publisher interface {
	PublishMessage(ctx context.Context, roomID uuid.UUID, msg dto.MessageResponse)
}

type ChatService struct {
	store ChatStore
	gate  *Gate
	pub   Publisher
}

func NewChatService(store ChatStore, gate *Gate, pub Publisher) *ChatService {
	return &ChatService{store: store, gate: gate, pub: pub}
}

// OpenRoom returns the caller's room with target, creating it on first contact.
func (s *ChatService) OpenRoom(ctx context.Context, actor, target uuid.UUID) (*dto.RoomResponse, error) {
	if target == uuid.Nil {
		return nil, apperr.ErrMissingUserID
	}
	if target == actor {
		return nil, apperr.ErrSelfTarget
	}
	if err := s.requireInitiate(ctx, actor, target); err != nil {
		return nil, err
	}

	room, err := s.store.GetOrCreateDirectRoom(ctx, actor, target)
	if err != nil {
		return nil, apperr.EnsureApp(err, "failed to open room")
	}
	view, err := s.roomView(ctx, actor, room)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Rooms lists the caller's rooms, most recently active first.
func (s *ChatService) Rooms(ctx context.Context, actor uuid.UUID) ([]dto.RoomResponse, error) {
	rooms, err := s.store.GetUserRooms(ctx, actor)
	if err != nil {
		return nil, apperr.Internal("failed to get rooms", err)
	}
	out := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		view, err := s.roomView(ctx, actor, &rooms[i])
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

// AuthorizeRoom loads the room and runs the access check for actor.
func (s *ChatService) AuthorizeRoom(ctx context.Context, actor, roomID uuid.UUID) (*models.Room, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, apperr.EnsureApp(err, "failed to load room")
	}
	ok, err := s.gate.CanAccess(ctx, actor, room)
	if err != nil {
		return nil, apperr.Internal("failed to check access", err)
	}
	if !ok {
		return nil, apperr.ErrAccessDenied
	}
	return room, nil
}

// RoomMessages marks the room read for actor and returns its history.
func (s *ChatService) RoomMessages(ctx context.Context, actor, roomID uuid.UUID) ([]dto.MessageResponse, error) {
	room, err := s.AuthorizeRoom(ctx, actor, roomID)
	if err != nil {
		return nil, err
	}
	return s.readRoom(ctx, actor, room.ID)
}

// Send delivers content to recipient, creating their room on first contact.
func (s *ChatService) Send(ctx context.Context, actor, recipient uuid.UUID, content string) (*dto.MessageResponse, error) {
	if recipient == uuid.Nil {
		return nil, apperr.ErrMissingRecipient
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperr.ErrEmptyContent
	}
	if recipient == actor {
		return nil, apperr.ErrSelfTarget
	}
	if _, err := s.store.GetUser(ctx, recipient); err != nil {
		return nil, apperr.EnsureApp(err, "failed to load recipient")
	}
	if err := s.requireInitiate(ctx, actor, recipient); err != nil {
		return nil, err
	}

	room, err := s.store.GetOrCreateDirectRoom(ctx, actor, recipient)
	if err != nil {
		return nil, apperr.EnsureApp(err, "failed to open room")
	}
	return s.post(ctx, actor, room.ID, content, PathHTTP)
}

// PostToRoom stores content in an already authorized room and fans it out.
func (s *ChatService) PostToRoom(ctx context.Context, actor, roomID uuid.UUID, content string) (*dto.MessageResponse, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.ErrEmptyContent
	}
	return s.post(ctx, actor, roomID, content, PathWS)
}

// Thread returns the conversation between actor and target. A pair that never talked
// gets an empty thread with no room id.
func (s *ChatService) Thread(ctx context.Context, actor, target uuid.UUID) (*dto.ThreadResponse, error) {
	if target == uuid.Nil {
		return nil, apperr.ErrMissingUserID
	}
	if target == actor {
		return nil, apperr.ErrSelfTarget
	}
	if _, err := s.store.GetUser(ctx, target); err != nil {
		return nil, apperr.EnsureApp(err, "failed to load user")
	}
	if err := s.requireInitiate(ctx, actor, target); err != nil {
		return nil, err
	}

	room, err := s.store.FindDirectRoom(ctx, actor, target)
	if err != nil {
		return nil, apperr.Internal("failed to find room", err)
	}
	if room == nil {
		return &dto.ThreadResponse{Messages: []dto.MessageResponse{}}, nil
	}
	msgs, err := s.readRoom(ctx, actor, room.ID)
	if err != nil {
		return nil, err
	}
	return &dto.ThreadResponse{RoomID: &room.ID, Messages: msgs}, nil
}

func (s *ChatService) requireInitiate(ctx context.Context, actor, target uuid.UUID) error {
	ok, err := s.gate.CanInitiate(ctx, actor, target)
	if err != nil {
		return apperr.Internal("failed to check connection", err)
	}
	if !ok {
		return apperr.ErrNotConnected
	}
	return nil
}

func (s *ChatService) readRoom(ctx context.Context, actor, roomID uuid.UUID) ([]dto.MessageResponse, error) {
	if _, err := s.store.MarkRead(ctx, roomID, actor); err != nil {
		return nil, apperr.Internal("failed to mark messages read", err)
	}
	msgs, err := s.store.ListRoomMessages(ctx, roomID)
	if err != nil {
		return nil, apperr.Internal("failed to get messages", err)
	}
	return MessageViews(msgs), nil
}

// post persists first; a failed write is never published.
func (s *ChatService) post(ctx context.Context, actor, roomID uuid.UUID, content, path string) (*dto.MessageResponse, error) {
	msg, err := s.store.AppendMessage(ctx, roomID, actor, content)
	if err != nil {
		return nil, apperr.EnsureApp(err, "failed to save message")
	}
	metrics.MessagesTotal.WithLabelValues(path).Inc()

	if sender, err := s.store.GetUser(ctx, actor); err == nil {
		msg.Sender = *sender
	} else {
		log.Warn().Err(err).Str("user_id", actor.String()).Msg("sender lookup failed after append")
	}

	view := MessageView(msg)
	if s.pub != nil {
		s.pub.PublishMessage(ctx, roomID, view)
	}
	return &view, nil
}

func (s *ChatService) roomView(ctx context.Context, actor uuid.UUID, room *models.Room) (dto.RoomResponse, error) {
	members := room.Members()
	view := dto.RoomResponse{
		ID:        room.ID,
		Members:   make([]dto.UserInfo, 0, len(members)),
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.LastActivityAt,
	}
	for i := range members {
		view.Members = append(view.Members, UserInfo(&members[i]))
	}

	last, err := s.store.LastMessage(ctx, room.ID)
	if err != nil {
		return view, apperr.Internal("failed to get last message", err)
	}
	if last != nil {
		lm := MessageView(last)
		view.LastMessage = &lm
	}

	view.UnreadCount, err = s.store.UnreadCount(ctx, room.ID, actor)
	if err != nil {
		return view, apperr.Internal("failed to count unread messages", err)
	}
	return view, nil
}
