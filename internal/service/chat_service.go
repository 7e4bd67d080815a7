package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"mind-mend-go/internal/model"
	"mind-mend-go/internal/repository"
	"mind-mend-go/pkg/genai"
	"mind-mend-go/pkg/log"
	"mind-mend-go/pkg/tts"
)

const (
	// historyWindowSize 是发给生成模型的上下文窗口大小：固定取最近 5 轮。
	// 这是一个滑动窗口，不做摘要或相关性排序。
	historyWindowSize = 5

	// fallbackReply 在生成模型返回空候选时替代回复文本，而不是让请求失败。
	fallbackReply = "No response from AI."
)

// ChatService 定义了一轮对话的编排接口。
type ChatService interface {
	// Respond 生成一轮回复：取最近 5 轮历史构建 prompt，调用生成模型，
	// 尽力合成语音，返回结果后把新的一轮追加到存储。
	Respond(ctx context.Context, uid, prompt string) (*ChatResult, error)
}

// ChatResult 是一轮对话的产出。Audio 为 data URI，合成不可用时为 nil。
type ChatResult struct {
	Reply string
	Audio *string
}

type chatService struct {
	chatRepo    repository.ChatRepository
	genaiClient genai.Client
	synthesizer tts.Synthesizer
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(chatRepo repository.ChatRepository, genaiClient genai.Client, synthesizer tts.Synthesizer) ChatService {
	return &chatService{
		chatRepo:    chatRepo,
		genaiClient: genaiClient,
		synthesizer: synthesizer,
	}
}

// Respond 编排一轮完整的对话。
func (s *chatService) Respond(ctx context.Context, uid, prompt string) (*ChatResult, error) {
	// 1. 读取历史并截取上下文窗口；存储读取失败会让整个请求失败
	record, err := s.chatRepo.GetRecord(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation record: %w", err)
	}

	var turns []model.Turn
	if record != nil {
		turns = record.Turns
	}
	window := lastTurns(turns, historyWindowSize)

	// 2. 渲染窗口并拼装最终 prompt
	formattedHistory := renderTurns(window)
	if formattedHistory == "" {
		formattedHistory = noHistorySentinel
	}

	finalPrompt := fmt.Sprintf("%s\n\nPrevious Conversation:\n%s\n\nNew User Message:\n%s\n",
		therapySystemPrompt, formattedHistory, prompt)

	// 3. 同步调用生成模型；空候选用固定兜底文案代替
	reply, err := s.genaiClient.GenerateContent(ctx, finalPrompt)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}
	if reply == "" {
		reply = fallbackReply
	}

	// 4. 语音合成是尽力而为的增强：任何失败都只降级为“无音频”
	var audio *string
	audioBytes, err := s.synthesizer.Synthesize(ctx, reply)
	if err != nil {
		log.Warnf("[ChatService] 语音合成失败, uid: %s, error: %v", uid, err)
	} else if len(audioBytes) > 0 {
		dataURI := "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(audioBytes)
		audio = &dataURI
	}

	result := &ChatResult{Reply: reply, Audio: audio}

	// 5. 追加本轮对话。使用后台上下文，因为即使原始请求被取消，
	// 也希望已生成的回复能保存成功；失败只记录日志，不影响已产出的结果
	turn := model.Turn{
		UserMessage: prompt,
		AIResponse:  reply,
		Timestamp:   time.Now(),
	}
	if err := s.chatRepo.AppendTurn(context.Background(), uid, turn); err != nil {
		log.Errorf("[ChatService] 保存对话失败, uid: %s, error: %v", uid, err)
	}

	return result, nil
}

// lastTurns 返回历史中最近的 n 轮，保持时间顺序。
func lastTurns(turns []model.Turn, n int) []model.Turn {
	if len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}

// renderTurns 把对话轮渲染为 "User: …\nAI: …" 的区块，按时间先后排列，
// 区块之间用空行分隔。没有历史时返回空字符串。
func renderTurns(turns []model.Turn) string {
	if len(turns) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(turns))
	for _, t := range turns {
		blocks = append(blocks, fmt.Sprintf("User: %s\nAI: %s", t.UserMessage, t.AIResponse))
	}
	return strings.Join(blocks, "\n\n")
}
