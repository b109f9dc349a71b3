package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/thereayou/connectx/internal/handlers/dto"
	"github.com/thereayou/connectx/internal/models"
	"github.com/thereayou/connectx/pkg/apperr"
)

var ErrMissingReceiver = apperr.InvalidArg("receiver_id is required")

// Client-facing status vocabulary. A rejected request reads as not connected.
const (
	StatusNotConnected = "not_connected"
	StatusPending      = "pending"
	StatusConnected    = "connected"
)

// ConnectionService is the Connection Directory: requests, decisions and status.
type ConnectionService struct {
	store ConnectionStore
	users UserStore
}

func NewConnectionService(store ConnectionStore, users UserStore) *ConnectionService {
	return &ConnectionService{store: store, users: users}
}

// Request asks receiver to connect. A previously rejected pair is reopened in the new
// direction instead of creating a second row.
func (s *ConnectionService) Request(ctx context.Context, actor, receiverID uuid.UUID) (*dto.ConnectionRequestResponse, error) {
	if receiverID == uuid.Nil {
		return nil, ErrMissingReceiver
	}
	if receiverID == actor {
		return nil, apperr.ErrSelfTarget
	}
	sender, err := s.users.GetUser(ctx, actor)
	if err != nil {
		return nil, apperr.EnsureApp(err, "failed to load user")
	}
	receiver, err := s.users.GetUser(ctx, receiverID)
	if err != nil {
		return nil, apperr.EnsureApp(err, "failed to load user")
	}

	req, err := s.store.FindRequestBetween(ctx, actor, receiverID)
	if err != nil {
		return nil, apperr.Internal("failed to look up request", err)
	}
	switch {
	case req == nil:
		req = &models.ConnectionRequest{SenderID: actor, ReceiverID: receiverID, Status: models.StatusPending}
		if err := s.store.CreateRequest(ctx, req); err != nil {
			return nil, apperr.EnsureApp(err, "failed to create request")
		}
	case req.Status == models.StatusPending:
		return nil, apperr.ErrRequestPending
	case req.Status == models.StatusAccepted:
		return nil, apperr.ErrAlreadyConnected
	default:
		req.SenderID = actor
		req.ReceiverID = receiverID
		req.Status = models.StatusPending
		if err := s.store.UpdateRequest(ctx, req); err != nil {
			return nil, apperr.Internal("failed to reopen request", err)
		}
	}

	req.Sender, req.Receiver = *sender, *receiver
	view := ConnectionView(req)
	return &view, nil
}

func (s *ConnectionService) Accept(ctx context.Context, actor, requestID uuid.UUID) (*dto.ConnectionRequestResponse, error) {
	return s.decide(ctx, actor, requestID, models.StatusAccepted)
}

func (s *ConnectionService) Reject(ctx context.Context, actor, requestID uuid.UUID) (*dto.ConnectionRequestResponse, error) {
	return s.decide(ctx, actor, requestID, models.StatusRejected)
}

// decide is only open to the receiver of a pending request.
func (s *ConnectionService) decide(ctx context.Context, actor, requestID uuid.UUID, status models.ConnectionStatus) (*dto.ConnectionRequestResponse, error) {
	if requestID == uuid.Nil {
		return nil, apperr.InvalidArg("request_id is required")
	}
	req, err := s.store.GetPendingRequestFor(ctx, requestID, actor)
	if err != nil {
		return nil, apperr.EnsureApp(err, "failed to load request")
	}
	req.Status = status
	if err := s.store.UpdateRequest(ctx, req); err != nil {
		return nil, apperr.Internal("failed to update request", err)
	}

	if sender, err := s.users.GetUser(ctx, req.SenderID); err == nil {
		req.Sender = *sender
	}
	if receiver, err := s.users.GetUser(ctx, req.ReceiverID); err == nil {
		req.Receiver = *receiver
	}
	view := ConnectionView(req)
	return &view, nil
}

func (s *ConnectionService) List(ctx context.Context, actor uuid.UUID) (*dto.ConnectionsResponse, error) {
	received, err := s.store.ListReceivedPending(ctx, actor)
	if err != nil {
		return nil, apperr.Internal("failed to list requests", err)
	}
	sent, err := s.store.ListSent(ctx, actor)
	if err != nil {
		return nil, apperr.Internal("failed to list requests", err)
	}
	accepted, err := s.store.ListAccepted(ctx, actor)
	if err != nil {
		return nil, apperr.Internal("failed to list connections", err)
	}
	return &dto.ConnectionsResponse{
		ReceivedPending: ConnectionViews(received),
		Sent:            ConnectionViews(sent),
		Connections:     ConnectionViews(accepted),
	}, nil
}

// Status reports the pair's state from actor's side.
func (s *ConnectionService) Status(ctx context.Context, actor, target uuid.UUID) (*dto.ConnectionStatusResponse, error) {
	if target == actor {
		return &dto.ConnectionStatusResponse{Status: StatusNotConnected}, nil
	}
	if _, err := s.users.GetUser(ctx, target); err != nil {
		return nil, apperr.EnsureApp(err, "failed to load user")
	}
	req, err := s.store.FindRequestBetween(ctx, actor, target)
	if err != nil {
		return nil, apperr.Internal("failed to look up request", err)
	}
	if req == nil {
		return &dto.ConnectionStatusResponse{Status: StatusNotConnected}, nil
	}

	resp := &dto.ConnectionStatusResponse{
		Status:    StatusNotConnected,
		RequestID: &req.ID,
		IsSender:  req.SenderID == actor,
	}
	switch req.Status {
	case models.StatusPending:
		resp.Status = StatusPending
	case models.StatusAccepted:
		resp.Status = StatusConnected
	}
	return resp, nil
}
