package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 账号业务错误，接口层据此映射为 400/401
var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service 账号服务：注册与登录
type Service struct {
	db  *gorm.DB
	jwt *JWTService
}

// NewService 创建账号服务
func NewService(db *gorm.DB, jwt *JWTService) *Service {
	return &Service{db: db, jwt: jwt}
}

// Signup 注册新账号
func (s *Service) Signup(ctx context.Context, username, password string) error {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return fmt.Errorf("查询账号失败: %w", err)
	}
	if count > 0 {
		return ErrUsernameTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	user := &User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("创建账号失败: %w", err)
	}

	return nil
}

// Login 校验密码并签发访问令牌
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	var user User
	if err := s.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("查询账号失败: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return s.jwt.GenerateToken(user.Username)
}
