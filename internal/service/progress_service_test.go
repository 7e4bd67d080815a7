package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mind-mend-go/internal/model"
)

const scoreReply = `Overall the user is making progress. {"emotionalRegulation":7,"selfAwareness":8,"copingSkills":6,"goalAchievement":5,"overallWellbeing":7,"assessment":"steady"}`

func TestEvaluateFailsWithoutHistory(t *testing.T) {
	tests := []struct {
		name   string
		record *model.ConversationRecord
	}{
		{name: "record absent", record: nil},
		{name: "record without turns", record: &model.ConversationRecord{UID: "u1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai := &stubGenai{reply: scoreReply}
			svc := NewProgressService(&fakeChatRepo{record: tt.record}, ai)

			_, err := svc.Evaluate(context.Background(), "u1")
			assert.ErrorIs(t, err, ErrNoHistory)
			// 没有历史时不允许调用生成模型
			assert.Empty(t, ai.prompts)
		})
	}
}

func TestEvaluateUsesEntireHistory(t *testing.T) {
	repo := &fakeChatRepo{record: &model.ConversationRecord{UID: "u1", Turns: turnsOf(12)}}
	ai := &stubGenai{reply: scoreReply}
	svc := NewProgressService(repo, ai)

	_, err := svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)

	// 评估不截断：12 轮全部进入 prompt
	require.Len(t, ai.prompts, 1)
	for i := 1; i <= 12; i++ {
		assert.Contains(t, ai.prompts[0], fmt.Sprintf("question-%d", i))
	}
}

func TestEvaluatePersistsExtractedScore(t *testing.T) {
	repo := &fakeChatRepo{record: &model.ConversationRecord{UID: "u1", Turns: turnsOf(3)}}
	svc := NewProgressService(repo, &stubGenai{reply: scoreReply})

	score, err := svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)

	expected := model.ProgressScore{
		EmotionalRegulation: 7,
		SelfAwareness:       8,
		CopingSkills:        6,
		GoalAchievement:     5,
		OverallWellbeing:    7,
		Assessment:          "steady",
	}
	assert.Equal(t, expected, *score)
	require.Len(t, repo.progress, 1)
	assert.Equal(t, expected, repo.progress[0])
}

func TestEvaluateRejectsUnextractableReply(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		wantErr error
	}{
		{name: "no json object", reply: "the user seems fine", wantErr: ErrScoreNotFound},
		{name: "partial object", reply: `{"emotionalRegulation":7,"assessment":"partial"}`, wantErr: ErrScoreInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeChatRepo{record: &model.ConversationRecord{UID: "u1", Turns: turnsOf(2)}}
			svc := NewProgressService(repo, &stubGenai{reply: tt.reply})

			_, err := svc.Evaluate(context.Background(), "u1")
			assert.ErrorIs(t, err, tt.wantErr)
			// 提取失败时什么都不落库
			assert.Empty(t, repo.progress)
		})
	}
}

func TestEvaluateFailsOnGenerationError(t *testing.T) {
	repo := &fakeChatRepo{record: &model.ConversationRecord{UID: "u1", Turns: turnsOf(2)}}
	svc := NewProgressService(repo, &stubGenai{err: errors.New("upstream down")})

	_, err := svc.Evaluate(context.Background(), "u1")
	require.Error(t, err)
	assert.Empty(t, repo.progress)
}
