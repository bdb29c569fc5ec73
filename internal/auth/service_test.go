package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))

	return db
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	jwt := NewJWTService("test-secret", "knowledge-assistant", time.Hour)
	return NewService(setupTestDB(t), jwt)
}

func TestService_Signup(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "alice", "password123"))

	t.Run("重复用户名被拒绝", func(t *testing.T) {
		err := svc.Signup(ctx, "alice", "another-password")
		assert.True(t, errors.Is(err, ErrUsernameTaken))
	})

	t.Run("其他用户名可注册", func(t *testing.T) {
		assert.NoError(t, svc.Signup(ctx, "bob", "password456"))
	})
}

func TestService_Login(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "alice", "password123"))

	t.Run("正确密码签发令牌", func(t *testing.T) {
		token, err := svc.Login(ctx, "alice", "password123")
		require.NoError(t, err)

		username, err := svc.jwt.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "alice", username)
	})

	t.Run("错误密码被拒绝", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice", "wrong")
		assert.True(t, errors.Is(err, ErrInvalidCredentials))
	})

	t.Run("未注册用户被拒绝", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "password123")
		assert.True(t, errors.Is(err, ErrInvalidCredentials))
	})
}

func TestService_PasswordIsHashed(t *testing.T) {
	db := setupTestDB(t)
	jwt := NewJWTService("test-secret", "knowledge-assistant", time.Hour)
	svc := NewService(db, jwt)

	require.NoError(t, svc.Signup(context.Background(), "alice", "password123"))

	var user User
	require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.True(t, VerifyPassword("password123", user.PasswordHash))
}
