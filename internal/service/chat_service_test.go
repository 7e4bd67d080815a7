package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mind-mend-go/internal/model"
)

// fakeChatRepo 是测试用的内存存储替身。
type fakeChatRepo struct {
	record    *model.ConversationRecord
	getErr    error
	appendErr error
	setErr    error
	appended  []model.Turn
	progress  []model.ProgressScore
}

func (f *fakeChatRepo) GetRecord(ctx context.Context, uid string) (*model.ConversationRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.record, nil
}

func (f *fakeChatRepo) AppendTurn(ctx context.Context, uid string, turn model.Turn) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, turn)
	return nil
}

func (f *fakeChatRepo) SetProgress(ctx context.Context, uid string, score model.ProgressScore) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.progress = append(f.progress, score)
	return nil
}

// stubGenai 捕获收到的 prompt 并返回预置的回复。
type stubGenai struct {
	prompts []string
	reply   string
	err     error
}

func (s *stubGenai) GenerateContent(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func (s *stubGenai) Close() error { return nil }

// stubTTS 返回预置的音频字节或错误。
type stubTTS struct {
	audio []byte
	err   error
	texts []string
}

func (s *stubTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	s.texts = append(s.texts, text)
	return s.audio, s.err
}

func turnsOf(n int) []model.Turn {
	turns := make([]model.Turn, 0, n)
	for i := 1; i <= n; i++ {
		turns = append(turns, model.Turn{
			UserMessage: fmt.Sprintf("question-%d", i),
			AIResponse:  fmt.Sprintf("answer-%d", i),
			Timestamp:   time.Now(),
		})
	}
	return turns
}

func TestRespondRendersSentinelForEmptyHistory(t *testing.T) {
	repo := &fakeChatRepo{}
	ai := &stubGenai{reply: "welcome"}
	svc := NewChatService(repo, ai, &stubTTS{})

	result, err := svc.Respond(context.Background(), "u1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "welcome", result.Reply)

	require.Len(t, ai.prompts, 1)
	assert.Contains(t, ai.prompts[0], noHistorySentinel)
	assert.Contains(t, ai.prompts[0], "New User Message:\nhello")
}

func TestRespondCapsContextWindowAtFiveTurns(t *testing.T) {
	repo := &fakeChatRepo{record: &model.ConversationRecord{UID: "u1", Turns: turnsOf(12)}}
	ai := &stubGenai{reply: "ok"}
	svc := NewChatService(repo, ai, &stubTTS{})

	_, err := svc.Respond(context.Background(), "u1", "hello")
	require.NoError(t, err)

	require.Len(t, ai.prompts, 1)
	prompt := ai.prompts[0]
	// 窗口必须正好是第 8 到 12 轮，且保持时间顺序
	for i := 8; i <= 12; i++ {
		assert.Contains(t, prompt, fmt.Sprintf("question-%d", i))
	}
	assert.NotContains(t, prompt, "question-7\n")
	assert.Less(t, strings.Index(prompt, "question-8"), strings.Index(prompt, "question-12"))
	assert.NotContains(t, prompt, noHistorySentinel)
}

func TestRespondAppendsTurnAfterReply(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := NewChatService(repo, &stubGenai{reply: "the reply"}, &stubTTS{})

	_, err := svc.Respond(context.Background(), "u1", "the prompt")
	require.NoError(t, err)

	require.Len(t, repo.appended, 1)
	assert.Equal(t, "the prompt", repo.appended[0].UserMessage)
	assert.Equal(t, "the reply", repo.appended[0].AIResponse)
	assert.False(t, repo.appended[0].Timestamp.IsZero())
}

func TestRespondSubstitutesFallbackForEmptyReply(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := NewChatService(repo, &stubGenai{reply: ""}, &stubTTS{})

	result, err := svc.Respond(context.Background(), "u1", "hello")
	require.NoError(t, err)
	assert.Equal(t, fallbackReply, result.Reply)

	// 兜底文案也会被当作本轮回复保存
	require.Len(t, repo.appended, 1)
	assert.Equal(t, fallbackReply, repo.appended[0].AIResponse)
}

func TestRespondReturnsAudioAsDataURI(t *testing.T) {
	audio := []byte{0x49, 0x44, 0x33, 0x04}
	synth := &stubTTS{audio: audio}
	svc := NewChatService(&fakeChatRepo{}, &stubGenai{reply: "spoken"}, synth)

	result, err := svc.Respond(context.Background(), "u1", "hello")
	require.NoError(t, err)

	require.NotNil(t, result.Audio)
	assert.Equal(t, "data:audio/mpeg;base64,"+base64.StdEncoding.EncodeToString(audio), *result.Audio)
	// 合成的是回复文本本身
	require.Len(t, synth.texts, 1)
	assert.Equal(t, "spoken", synth.texts[0])
}

func TestRespondDegradesToNoAudio(t *testing.T) {
	tests := []struct {
		name  string
		synth *stubTTS
	}{
		{name: "provider returned json error body", synth: &stubTTS{audio: nil, err: nil}},
		{name: "synthesis call failed", synth: &stubTTS{err: errors.New("connection refused")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewChatService(&fakeChatRepo{}, &stubGenai{reply: "still here"}, tt.synth)

			result, err := svc.Respond(context.Background(), "u1", "hello")
			require.NoError(t, err)
			assert.Equal(t, "still here", result.Reply)
			assert.Nil(t, result.Audio)
		})
	}
}

func TestRespondFailsOnGenerationError(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := NewChatService(repo, &stubGenai{err: errors.New("upstream down")}, &stubTTS{})

	_, err := svc.Respond(context.Background(), "u1", "hello")
	require.Error(t, err)
	assert.Empty(t, repo.appended)
}

func TestRespondFailsOnStoreReadError(t *testing.T) {
	ai := &stubGenai{reply: "unused"}
	svc := NewChatService(&fakeChatRepo{getErr: errors.New("store down")}, ai, &stubTTS{})

	_, err := svc.Respond(context.Background(), "u1", "hello")
	require.Error(t, err)
	assert.Empty(t, ai.prompts)
}

func TestRespondToleratesAppendFailure(t *testing.T) {
	// 回复已经产出，追加失败只降级为日志
	repo := &fakeChatRepo{appendErr: errors.New("write failed")}
	svc := NewChatService(repo, &stubGenai{reply: "delivered"}, &stubTTS{})

	result, err := svc.Respond(context.Background(), "u1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "delivered", result.Reply)
}
