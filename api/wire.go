package api

import (
	"fmt"
	"time"

	"backend/internal/ai"
	"backend/internal/ai/azure"
	"backend/internal/auth"
	"backend/internal/chat"
	"backend/internal/config"
	"backend/internal/extract"
	"backend/internal/nl2sql"
	"backend/internal/rag"

	"gorm.io/gorm"
)

// Services 聚合路由层依赖的全部业务服务
type Services struct {
	JWT    *auth.JWTService
	Auth   *auth.Service
	RAG    *rag.RAGService
	Chat   *chat.Service
	NL2SQL *nl2sql.Service
}

// BuildServices 按配置组装业务服务
func BuildServices(db *gorm.DB, cfg *config.Config) (*Services, error) {
	embedder, err := rag.NewAzureEmbeddingProvider(&cfg.AzureOpenAI)
	if err != nil {
		return nil, fmt.Errorf("初始化向量化客户端失败: %w", err)
	}

	chatClient, err := azure.NewClient(&cfg.AzureOpenAI)
	if err != nil {
		return nil, fmt.Errorf("初始化对话客户端失败: %w", err)
	}

	return buildWith(db, cfg, embedder, chatClient), nil
}

// buildWith 用给定的 AI 客户端组装服务，便于测试注入
func buildWith(db *gorm.DB, cfg *config.Config, embedder rag.EmbeddingProvider, chatClient ai.ChatClient) *Services {
	selector := rag.NewBackendSelector(&cfg.Redis, &cfg.VectorStore, embedder)
	chunker := rag.NewChunker(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	ragService := rag.NewRAGService(extract.NewRegistry(), chunker, selector, chatClient, cfg.RAG.TopK)

	jwtService := auth.NewJWTService(
		cfg.Auth.SecretKey,
		cfg.Auth.Issuer,
		time.Duration(cfg.Auth.ExpiryHours)*time.Hour,
	)

	return &Services{
		JWT:    jwtService,
		Auth:   auth.NewService(db, jwtService),
		RAG:    ragService,
		Chat:   chat.NewService(db),
		NL2SQL: nl2sql.NewService(chatClient),
	}
}
