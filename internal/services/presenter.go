package services

import (
	"github.com/thereayou/connectx/internal/handlers/dto"
	"github.com/thereayou/connectx/internal/models"
)

func UserInfo(u *models.User) dto.UserInfo {
	return dto.UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.DisplayName(),
		AvatarURL: u.AvatarURL,
	}
}

func MessageView(m *models.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:         m.ID,
		RoomID:     m.RoomID,
		SenderID:   m.SenderID,
		SenderName: m.Sender.DisplayName(),
		Content:    m.Content,
		Timestamp:  m.CreatedAt,
		IsRead:     m.IsRead,
	}
}

func MessageViews(msgs []models.Message) []dto.MessageResponse {
	out := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, MessageView(&msgs[i]))
	}
	return out
}

func ConnectionView(r *models.ConnectionRequest) dto.ConnectionRequestResponse {
	return dto.ConnectionRequestResponse{
		ID:        r.ID,
		Sender:    UserInfo(&r.Sender),
		Receiver:  UserInfo(&r.Receiver),
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func ConnectionViews(reqs []models.ConnectionRequest) []dto.ConnectionRequestResponse {
	out := make([]dto.ConnectionRequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, ConnectionView(&reqs[i]))
	}
	return out
}

func ProfileView(u *models.User, self bool) dto.ProfileResponse {
	p := dto.ProfileResponse{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName,
		Name:       u.DisplayName(),
		AvatarURL:  u.AvatarURL,
		LastSeenAt: u.LastSeenAt,
		CreatedAt:  u.CreatedAt,
	}
	if self {
		p.Email = u.Email
	}
	return p
}
