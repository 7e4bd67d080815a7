// Package genai 提供了调用生成模型（Gemini）的客户端。
package genai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"mind-mend-go/internal/config"
)

// Client 定义了生成模型客户端的接口。
// 调用是同步的请求/响应，不使用流式传输。
type Client interface {
	// GenerateContent 发送单条 prompt 并返回首个候选的文本。
	// 候选为空时返回空字符串而不是错误，由调用方决定兜底文案。
	GenerateContent(ctx context.Context, prompt string) (string, error)
	// Close 释放底层连接。
	Close() error
}

type geminiClient struct {
	client *genai.Client
	model  string
}

// NewClient 创建一个新的 Gemini 客户端实例。
func NewClient(cfg config.GeminiConfig) (Client, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("创建 Gemini 客户端失败: %w", err)
	}

	return &geminiClient{
		client: client,
		model:  cfg.Model,
	}, nil
}

// GenerateContent 调用固定模型生成一次回复，并拼接首个候选的所有文本分片。
func (c *geminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generateContent request failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}

	return text.String(), nil
}

func (c *geminiClient) Close() error {
	return c.client.Close()
}
