package llm

import "github.com/promptstudio/backend/internal/model"

// ChatRequest OpenAI 兼容的对话请求体
type ChatRequest struct {
	Model       string              `json:"model"`
	Messages    []model.ChatMessage `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
}

// ChatResponse 对话响应体
type ChatResponse struct {
	ID      string    `json:"id"`
	Model   string    `json:"model"`
	Choices []Choice  `json:"choices"`
	Error   *APIError `json:"error,omitempty"`
}

// Choice 单条候选回复
type Choice struct {
	Index        int               `json:"index"`
	Message      model.ChatMessage `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

// APIError 上游返回的错误信息
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code,omitempty"`
}
