package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/thereayou/connectx/internal/handlers/dto"
	"github.com/thereayou/connectx/internal/models"
	"github.com/thereayou/connectx/pkg/apperr"
	"github.com/thereayou/connectx/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

const blacklistPrefix = "blacklist:"

var (
	ErrTokenMissing = apperr.Unauthorized("missing or invalid token")
	ErrTokenRevoked = apperr.Unauthorized("token is blacklisted")
	ErrTokenInvalid = apperr.Unauthorized("invalid token")
)

// AuthService is the identity provider: accounts, tokens and the logout blacklist.
type AuthService struct {
	users      UserStore
	jwtManager *auth.JWTManager
	redis      *redis.Client
	hashCost   int
}

func NewAuthService(users UserStore, jwtMgr *auth.JWTManager, rdb *redis.Client) *AuthService {
	return &AuthService{users: users, jwtManager: jwtMgr, redis: rdb, hashCost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	return s
}

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, apperr.Internal("cannot hash password", err)
	}

	user := &models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		LastSeenAt:   time.Now().UTC(),
	}
	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, apperr.EnsureApp(err, "failed to create user")
	}
	return user, nil
}

// Login checks credentials, bumps last_seen and issues a token.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.users.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeNotFound {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}

	if err := s.users.UpdateLastSeen(ctx, user.ID); err != nil {
		return nil, apperr.Internal("could not update last seen", err)
	}

	token, exp, err := s.jwtManager.Generate(user.ID)
	if err != nil {
		return nil, apperr.Internal("could not generate token", err)
	}
	return &dto.TokenResponse{Token: token, TokenExpiresAt: exp.UTC().Format(time.RFC3339)}, nil
}

// Logout blacklists the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	exp, err := s.jwtManager.Expiry(rawToken)
	if err != nil {
		return ErrTokenInvalid
	}
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, blacklistPrefix+rawToken, 1, ttl).Err(); err != nil {
		return apperr.Internal("failed to revoke token", err)
	}
	return nil
}

// Authenticate resolves a raw token to a user id. A Redis outage fails closed.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (uuid.UUID, error) {
	if rawToken == "" {
		return uuid.Nil, ErrTokenMissing
	}
	exists, err := s.redis.Exists(ctx, blacklistPrefix+rawToken).Result()
	if err != nil {
		log.Error().Err(err).Msg("blacklist lookup failed")
		return uuid.Nil, ErrTokenRevoked
	}
	if exists > 0 {
		return uuid.Nil, ErrTokenRevoked
	}

	id, err := s.jwtManager.UserID(rawToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return uuid.Nil, ErrTokenInvalid
		}
		return uuid.Nil, apperr.Internal("failed to verify token", err)
	}
	return id, nil
}
