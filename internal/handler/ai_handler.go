package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mind-mend-go/internal/service"
	"mind-mend-go/pkg/log"
)

// AIHandler 负责处理对话生成和进展评估两个 API 请求。
type AIHandler struct {
	chatService     service.ChatService
	progressService service.ProgressService
}

// NewAIHandler 创建一个新的 AIHandler 实例。
func NewAIHandler(chatService service.ChatService, progressService service.ProgressService) *AIHandler {
	return &AIHandler{
		chatService:     chatService,
		progressService: progressService,
	}
}

// GenerateRequest 定义了对话生成 API 的请求体结构。
type GenerateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// Generate 处理一轮对话请求。
func (h *AIHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required"})
		return
	}

	uid := c.GetString("uid")
	result, err := h.chatService.Respond(c.Request.Context(), uid, req.Prompt)
	if err != nil {
		// 上游细节只记日志，客户端拿到统一的失败信息
		log.Errorf("Generate: failed for uid %s, error: %v", uid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI or TTS generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"aiMessage": result.Reply,
		"ttsAudio":  result.Audio,
	})
}

// Progress 处理一次进展评估请求。
func (h *AIHandler) Progress(c *gin.Context) {
	uid := c.GetString("uid")

	score, err := h.progressService.Evaluate(c.Request.Context(), uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoHistory):
			c.JSON(http.StatusNotFound, gin.H{"error": "No chats found for this user."})
		case errors.Is(err, service.ErrScoreNotFound), errors.Is(err, service.ErrScoreInvalid):
			// 提取失败必须是显式错误：错误的评分比没有评分更糟
			log.Warnf("Progress: extraction failed for uid %s, error: %v", uid, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not extract progress data."})
		default:
			log.Errorf("Progress: failed for uid %s, error: %v", uid, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate progress."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"progressData": score,
	})
}
