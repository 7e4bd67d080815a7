package service

import (
	"encoding/json"
	"errors"
	"regexp"

	"mind-mend-go/internal/model"
)

// 提取失败的两种显式结果：回复里没有 JSON 对象，或对象形状不完整。
var (
	ErrScoreNotFound = errors.New("no progress score found in model reply")
	ErrScoreInvalid  = errors.New("progress score failed shape validation")
)

// scorePattern 匹配回复中第一个最小花括号片段。
// 生成模型的输出格式没有保证，这里只做尽力而为的定位。
var scorePattern = regexp.MustCompile(`(?s)\{.*?\}`)

// rawScore 用 json.Number 指针接收字段，以便区分“缺失”“非数字”和合法值。
type rawScore struct {
	EmotionalRegulation *json.Number `json:"emotionalRegulation"`
	SelfAwareness       *json.Number `json:"selfAwareness"`
	CopingSkills        *json.Number `json:"copingSkills"`
	GoalAchievement     *json.Number `json:"goalAchievement"`
	OverallWellbeing    *json.Number `json:"overallWellbeing"`
	Assessment          string       `json:"assessment"`
}

// extractProgressScore 在自由文本中定位并解析 ProgressScore。
// 五个维度必须全部存在且为整数，残缺的对象一律拒绝，不做默认值填充。
func extractProgressScore(text string) (*model.ProgressScore, error) {
	match := scorePattern.FindString(text)
	if match == "" {
		return nil, ErrScoreNotFound
	}

	var raw rawScore
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return nil, ErrScoreInvalid
	}

	fields := []*json.Number{
		raw.EmotionalRegulation,
		raw.SelfAwareness,
		raw.CopingSkills,
		raw.GoalAchievement,
		raw.OverallWellbeing,
	}
	values := make([]int, 0, len(fields))
	for _, f := range fields {
		if f == nil {
			return nil, ErrScoreInvalid
		}
		n, err := f.Int64()
		if err != nil {
			return nil, ErrScoreInvalid
		}
		values = append(values, int(n))
	}

	return &model.ProgressScore{
		EmotionalRegulation: values[0],
		SelfAwareness:       values[1],
		CopingSkills:        values[2],
		GoalAchievement:     values[3],
		OverallWellbeing:    values[4],
		Assessment:          raw.Assessment,
	}, nil
}
