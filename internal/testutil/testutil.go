// Package testutil builds throwaway stores for tests: in-memory SQLite through the pure-Go
// gorm dialector and an in-process Redis.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/connectx/internal/database"
	"github.com/thereayou/connectx/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDatabase(t testing.TB) *database.Database {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	// A single connection serializes writers the way row locks would on postgres.
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := database.NewDatabase(gdb)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func CreateUser(t testing.TB, db *database.Database, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		FullName:     username + " full",
	}
	require.NoError(t, db.SaveUser(context.Background(), u))
	return u
}

// Connect records a connection request from a to b with the given status.
func Connect(t testing.TB, db *database.Database, a, b uuid.UUID, status models.ConnectionStatus) *models.ConnectionRequest {
	t.Helper()
	req := &models.ConnectionRequest{SenderID: a, ReceiverID: b, Status: status}
	require.NoError(t, db.CreateRequest(context.Background(), req))
	return req
}

func NewRedis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}
