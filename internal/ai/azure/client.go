package azure

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"backend/internal/config"

	"github.com/sashabaranov/go-openai"
)

// Client Azure OpenAI 生成模型客户端
// Azure OpenAI 使用与 OpenAI 相同的 SDK，只是端点不同，模型名即部署名称。
type Client struct {
	client     *openai.Client
	deployment string
}

// NewClient 创建 Azure OpenAI 客户端
func NewClient(cfg *config.AzureOpenAIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Azure OpenAI API Key 不能为空")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("Azure OpenAI 端点不能为空")
	}
	if cfg.ChatDeployment == "" {
		return nil, fmt.Errorf("chat deployment 不能为空")
	}

	azureConfig := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	if cfg.APIVersion != "" {
		azureConfig.APIVersion = cfg.APIVersion
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 60
	}
	azureConfig.HTTPClient = &http.Client{Timeout: time.Duration(timeout) * time.Second}

	return &Client{
		client:     openai.NewClientWithConfig(azureConfig),
		deployment: cfg.ChatDeployment,
	}, nil
}

// Complete 对话补全（非流式），返回首个候选的文本内容
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.deployment,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("Azure OpenAI API 调用失败: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("Azure OpenAI API 返回空结果")
	}

	return resp.Choices[0].Message.Content, nil
}

// Name 返回客户端名称
func (c *Client) Name() string {
	return "azure"
}
