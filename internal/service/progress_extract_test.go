package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractProgressScore(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{
			name: "embedded in prose",
			text: `Here is my assessment of the user. some prose {"emotionalRegulation":7,"selfAwareness":8,"copingSkills":6,"goalAchievement":5,"overallWellbeing":7,"assessment":"ok"} trailing`,
		},
		{
			name:    "no brace-delimited object",
			text:    "The user is doing well, steady improvement across sessions.",
			wantErr: ErrScoreNotFound,
		},
		{
			name:    "missing dimension",
			text:    `{"emotionalRegulation":7,"selfAwareness":8,"copingSkills":6,"goalAchievement":5,"assessment":"partial"}`,
			wantErr: ErrScoreInvalid,
		},
		{
			name:    "non-numeric dimension",
			text:    `{"emotionalRegulation":"high","selfAwareness":8,"copingSkills":6,"goalAchievement":5,"overallWellbeing":7,"assessment":"ok"}`,
			wantErr: ErrScoreInvalid,
		},
		{
			name:    "fractional dimension",
			text:    `{"emotionalRegulation":7.5,"selfAwareness":8,"copingSkills":6,"goalAchievement":5,"overallWellbeing":7,"assessment":"ok"}`,
			wantErr: ErrScoreInvalid,
		},
		{
			name:    "unparseable fragment",
			text:    "prefix {not json} suffix",
			wantErr: ErrScoreInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := extractProgressScore(tt.text)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, score)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 7, score.EmotionalRegulation)
			assert.Equal(t, 8, score.SelfAwareness)
			assert.Equal(t, 6, score.CopingSkills)
			assert.Equal(t, 5, score.GoalAchievement)
			assert.Equal(t, 7, score.OverallWellbeing)
			assert.Equal(t, "ok", score.Assessment)
		})
	}
}
