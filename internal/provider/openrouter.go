package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenRouterClient 基于 go-openai SDK 的 OpenRouter 客户端
// OpenRouterClient talks to OpenRouter through the go-openai SDK
type OpenRouterClient struct {
	client       *openai.Client
	systemPrompt string
}

// ClientConfig 客户端配置 / ClientConfig configures the client
type ClientConfig struct {
	BaseURL      string
	APIKey       string
	SystemPrompt string
	TimeoutMS    int
}

// NewOpenRouterClient 创建客户端；OpenRouter 暴露 OpenAI 兼容端点
// NewOpenRouterClient creates a client; OpenRouter exposes an OpenAI-compatible endpoint
func NewOpenRouterClient(cfg ClientConfig) *OpenRouterClient {
	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	httpClient := &http.Client{}
	if cfg.TimeoutMS > 0 {
		httpClient.Timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	config.HTTPClient = httpClient

	prompt := strings.TrimSpace(cfg.SystemPrompt)
	if prompt == "" {
		prompt = "You are a helpful assistant."
	}

	return &OpenRouterClient{
		client:       openai.NewClientWithConfig(config),
		systemPrompt: prompt,
	}
}

// Complete 发送固定 system prompt + 单条 user prompt 的无状态请求
// Complete sends a stateless request: fixed system prompt plus one user prompt
func (c *OpenRouterClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if strings.TrimSpace(req.ModelID) == "" {
		return "", fmt.Errorf("model id is empty")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.ModelID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
