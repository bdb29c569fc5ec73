package rag

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"backend/internal/config"

	"github.com/sashabaranov/go-openai"
)

// AzureEmbeddingProvider Azure OpenAI 向量化服务提供者
// Azure OpenAI 使用与 OpenAI 相同的 SDK，模型名即部署名称。
type AzureEmbeddingProvider struct {
	client     *openai.Client
	deployment string
}

// NewAzureEmbeddingProvider 创建 Azure OpenAI 向量化提供者
func NewAzureEmbeddingProvider(cfg *config.AzureOpenAIConfig) (*AzureEmbeddingProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Azure OpenAI API Key 不能为空")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("Azure OpenAI 端点不能为空")
	}
	if cfg.EmbeddingDeployment == "" {
		return nil, fmt.Errorf("embedding deployment 不能为空")
	}

	azureConfig := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	if cfg.APIVersion != "" {
		azureConfig.APIVersion = cfg.APIVersion
	}
	// 外部服务调用必须有界超时，避免拖垮整个请求
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 60
	}
	azureConfig.HTTPClient = &http.Client{Timeout: time.Duration(timeout) * time.Second}

	return &AzureEmbeddingProvider{
		client:     openai.NewClientWithConfig(azureConfig),
		deployment: cfg.EmbeddingDeployment,
	}, nil
}

// Embed 将文本转换为向量
func (p *AzureEmbeddingProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("文本不能为空")
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(p.deployment),
	})
	if err != nil {
		return nil, fmt.Errorf("调用 Azure OpenAI Embeddings API 失败: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("Azure OpenAI API 返回空向量")
	}

	return resp.Data[0].Embedding, nil
}

// EmbedBatch 批量向量化文本
// API 限制每次请求最多2048个输入，超过限制时分批处理。
func (p *AzureEmbeddingProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	const batchSize = 2048
	allEmbeddings := make([][]float32, 0, len(texts))

	for i := 0; i < len(texts); i += batchSize {
		end := i + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		embeddings, err := p.embedBatchInternal(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("批量向量化失败(batch %d-%d): %w", i, end, err)
		}

		allEmbeddings = append(allEmbeddings, embeddings...)
	}

	return allEmbeddings, nil
}

func (p *AzureEmbeddingProvider) embedBatchInternal(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(p.deployment),
	})
	if err != nil {
		return nil, fmt.Errorf("调用 Azure OpenAI Embeddings API 失败: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("Azure OpenAI API 返回向量数量不匹配: 期望%d, 实际%d", len(texts), len(resp.Data))
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		embeddings[i] = data.Embedding
	}

	return embeddings, nil
}

// GetModel 获取当前使用的部署名称
func (p *AzureEmbeddingProvider) GetModel() string {
	return p.deployment
}

// GetProviderName 获取提供商名称
func (p *AzureEmbeddingProvider) GetProviderName() string {
	return "azure"
}
