package model

import "time"

// ChatMessage 单条对话消息，role 取 system/user/assistant
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation 保存的对话记录
// title 缺省时由首条 user 消息自动生成（截断 50 字符加省略号）
type Conversation struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Messages  []ChatMessage `json:"messages"`
	Model     string        `json:"model"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ConversationSummary 对话列表项，preview 取最后一条 user/assistant 消息
type ConversationSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Preview      string    `json:"preview"`
	LastMessage  string    `json:"last_message"`
	MessageCount int       `json:"message_count"`
	Model        string    `json:"model"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
