// Package model 包含了应用的数据模型定义。
package model

import "time"

// Turn 代表一次用户提问与 AI 回复的组合，写入后不可变更。
type Turn struct {
	UserMessage string    `bson:"userMessage" json:"userMessage"`
	AIResponse  string    `bson:"aiResponse" json:"aiResponse"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
}

// ProgressScore 是生成模型对用户心理进展的五维自评（1-10）加一段文字总结。
type ProgressScore struct {
	EmotionalRegulation int    `bson:"emotionalRegulation" json:"emotionalRegulation"`
	SelfAwareness       int    `bson:"selfAwareness" json:"selfAwareness"`
	CopingSkills        int    `bson:"copingSkills" json:"copingSkills"`
	GoalAchievement     int    `bson:"goalAchievement" json:"goalAchievement"`
	OverallWellbeing    int    `bson:"overallWellbeing" json:"overallWellbeing"`
	Assessment          string `bson:"assessment" json:"assessment"`
}

// ProgressEntry 是追加到历史记录中的评分，带服务端生成的时间戳。
type ProgressEntry struct {
	ProgressScore `bson:",inline"`
	Timestamp     time.Time `bson:"timestamp" json:"timestamp"`
}

// ConversationRecord 是 chats 集合中每个用户唯一的文档。
// chats 与 progressHistory 只追加不收缩，progressData 始终等于
// progressHistory 的最后一个元素（或从未评估时缺失）。
type ConversationRecord struct {
	UID             string          `bson:"uid" json:"uid"`
	Turns           []Turn          `bson:"chats" json:"chats"`
	ProgressData    *ProgressScore  `bson:"progressData,omitempty" json:"progressData,omitempty"`
	ProgressHistory []ProgressEntry `bson:"progressHistory,omitempty" json:"progressHistory,omitempty"`
}
