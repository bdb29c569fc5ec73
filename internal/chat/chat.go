package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Record 一次会话的聊天记录，消息体按原始 JSON 存储
type Record struct {
	ID        string         `json:"-" gorm:"primaryKey;type:uuid"`
	Username  string         `json:"username" gorm:"size:255;not null;index"`
	Messages  datatypes.JSON `json:"messages" gorm:"not null"`
	CreatedAt time.Time      `json:"-" gorm:"not null;autoCreateTime"`
}

// TableName 指定表名
func (Record) TableName() string {
	return "chats"
}

// Service 聊天记录服务
type Service struct {
	db *gorm.DB
}

// NewService 创建聊天记录服务
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Save 保存一条聊天记录
func (s *Service) Save(ctx context.Context, username string, messages []byte) error {
	rec := &Record{
		ID:       uuid.New().String(),
		Username: username,
		Messages: datatypes.JSON(messages),
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("保存聊天记录失败: %w", err)
	}
	return nil
}

// List 返回用户的全部聊天记录（按保存顺序）
func (s *Service) List(ctx context.Context, username string) ([]*Record, error) {
	var records []*Record
	if err := s.db.WithContext(ctx).
		Where("username = ?", username).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("查询聊天记录失败: %w", err)
	}
	return records, nil
}
