package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/connectx/internal/handlers/dto"
	"github.com/thereayou/connectx/internal/testutil"
	"github.com/thereayou/connectx/pkg/apperr"
	"github.com/thereayou/connectx/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := testutil.NewDatabase(t)
	rdb, _ := testutil.NewRedis(t)
	return NewAuthService(db, auth.NewJWTManager("test-secret", time.Hour), rdb).WithHashCost(bcrypt.MinCost)
}

func TestAuthService_RegisterLoginLogout(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, dto.RegisterRequest{
		Username: "alice",
		Email:    " Alice@Example.com ",
		Password: "password123",
		FullName: "Alice A",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)

	_, err = svc.Register(ctx, dto.RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "password123"})
	assert.ErrorIs(t, err, apperr.ErrEmailTaken)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	tok, err := svc.Login(ctx, dto.LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	id, err := svc.Authenticate(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	require.NoError(t, svc.Logout(ctx, tok.Token))
	_, err = svc.Authenticate(ctx, tok.Token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestAuthService_Authenticate(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrTokenMissing)

	_, err = svc.Authenticate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Equal(t, apperr.CodeUnauthenticated, apperr.CodeOf(err))

	assert.ErrorIs(t, svc.Logout(ctx, "not-a-jwt"), ErrTokenInvalid)
}

func TestAuthService_RedisDownFailsClosed(t *testing.T) {
	db := testutil.NewDatabase(t)
	rdb, mr := testutil.NewRedis(t)
	jwtMgr := auth.NewJWTManager("test-secret", time.Hour)
	svc := NewAuthService(db, jwtMgr, rdb)

	user := testutil.CreateUser(t, db, "alice")
	token, _, err := jwtMgr.Generate(user.ID)
	require.NoError(t, err)

	mr.SetError("LOADING redis is loading the dataset in memory")
	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}
