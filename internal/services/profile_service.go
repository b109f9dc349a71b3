package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/thereayou/connectx/internal/handlers/dto"
	"github.com/thereayou/connectx/pkg/apperr"
)

// ProfileService is presentation only. Nothing here feeds authorization.
type ProfileService struct {
	users UserStore
}

func NewProfileService(users UserStore) *ProfileService {
	return &ProfileService{users: users}
}

func (s *ProfileService) Get(ctx context.Context, actor, id uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, apperr.EnsureApp(err, "failed to load user")
	}
	view := ProfileView(user, actor == id)
	return &view, nil
}

func (s *ProfileService) Update(ctx context.Context, actor uuid.UUID, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.users.GetUser(ctx, actor)
	if err != nil {
		return nil, apperr.EnsureApp(err, "failed to load user")
	}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, apperr.Internal("failed to update user", err)
	}
	view := ProfileView(user, true)
	return &view, nil
}
