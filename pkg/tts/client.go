// Package tts 提供了一个与 ElevenLabs 语音合成服务交互的客户端。
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"mind-mend-go/internal/config"
	"mind-mend-go/pkg/log"
)

// Synthesizer 定义了语音合成客户端的接口。
type Synthesizer interface {
	// Synthesize 将文本合成为音频字节（audio/mpeg）。
	// 提供商通过 JSON 响应体表示错误（例如配额耗尽），此时返回 (nil, nil)，
	// 表示“本次无音频”，而不是请求失败。
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type elevenLabsClient struct {
	cfg    config.TTSConfig
	client *http.Client
}

// NewClient 创建一个新的语音合成客户端实例。
func NewClient(cfg config.TTSConfig) Synthesizer {
	return &elevenLabsClient{
		cfg:    cfg,
		client: &http.Client{},
	}
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// errorBody 覆盖提供商两种已知的错误负载形态。
type errorBody struct {
	Error  string `json:"error"`
	Detail struct {
		Code string `json:"code"`
	} `json:"detail"`
}

// Synthesize 调用 text-to-speech 接口。任何状态码都会被接受，
// 只根据响应的 Content-Type 区分音频和错误负载。
func (c *elevenLabsClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	reqBody := synthesizeRequest{
		Text:    text,
		ModelID: c.cfg.ModelID,
		VoiceSettings: voiceSettings{
			Stability:       c.cfg.Stability,
			SimilarityBoost: c.cfg.SimilarityBoost,
		},
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tts request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.cfg.BaseURL, c.cfg.VoiceID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create tts request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call tts api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tts response: %w", err)
	}

	// JSON 响应体意味着提供商返回了错误负载而不是音频
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var errBody errorBody
		if err := json.Unmarshal(body, &errBody); err == nil {
			code := errBody.Error
			if code == "" {
				code = errBody.Detail.Code
			}
			if code == "quota_exceeded" {
				log.Warnf("[TTSClient] 语音合成配额已耗尽")
			} else {
				log.Warnf("[TTSClient] 语音合成返回错误负载: %s", string(body))
			}
		}
		return nil, nil
	}

	return body, nil
}
