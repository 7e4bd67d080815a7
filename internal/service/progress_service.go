package service

import (
	"context"
	"errors"
	"fmt"

	"mind-mend-go/internal/model"
	"mind-mend-go/internal/repository"
	"mind-mend-go/pkg/genai"
)

// ErrNoHistory 表示用户还没有任何对话，无法评估进展。
var ErrNoHistory = errors.New("no chat history for user")

// ProgressService 定义了心理进展评估的接口。
type ProgressService interface {
	// Evaluate 基于用户的全部对话历史生成一份五维评分，
	// 解析成功后写入存储并返回。
	Evaluate(ctx context.Context, uid string) (*model.ProgressScore, error)
}

type progressService struct {
	chatRepo    repository.ChatRepository
	genaiClient genai.Client
}

// NewProgressService 创建一个新的 ProgressService 实例。
func NewProgressService(chatRepo repository.ChatRepository, genaiClient genai.Client) ProgressService {
	return &progressService{
		chatRepo:    chatRepo,
		genaiClient: genaiClient,
	}
}

// Evaluate 执行一次进展评估。
func (s *progressService) Evaluate(ctx context.Context, uid string) (*model.ProgressScore, error) {
	// 1. 必须已有历史，否则直接失败，不调用生成模型
	record, err := s.chatRepo.GetRecord(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation record: %w", err)
	}
	if record == nil || len(record.Turns) == 0 {
		return nil, ErrNoHistory
	}

	// 2. 评估使用完整历史，不同于对话的 5 轮窗口：
	// 评分看重准确性，对话看重时延和成本，两个边界有意保持各自独立
	chatHistory := renderTurns(record.Turns)
	evaluationPrompt := fmt.Sprintf(evaluationPromptTemplate, chatHistory)

	// 3. 同步调用生成模型
	reply, err := s.genaiClient.GenerateContent(ctx, evaluationPrompt)
	if err != nil {
		return nil, fmt.Errorf("evaluation generation failed: %w", err)
	}

	// 4. 自由文本到结构化数据的提取是可失败的步骤；
	// 失败时返回显式错误，绝不存入残缺或默认的评分
	score, err := extractProgressScore(reply)
	if err != nil {
		return nil, err
	}

	// 5. 覆盖快照并追加历史
	if err := s.chatRepo.SetProgress(ctx, uid, *score); err != nil {
		return nil, fmt.Errorf("failed to persist progress: %w", err)
	}

	return score, nil
}
