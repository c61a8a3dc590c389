// Package tokens 提供对话的 token 估算与上下文窗口管理。
// 估算采用固定的每 4 字符 1 token 启发式，刻意不做真实分词。
package tokens

import (
	"math"

	"github.com/promptstudio/backend/internal/model"
)

const (
	charsPerToken = 4

	// DefaultContextLimit 未知模型的兜底上下文上限
	DefaultContextLimit = 4096

	// DefaultTrimThreshold 触发裁剪的用量比例
	DefaultTrimThreshold = 0.9

	// DefaultKeepRecent 裁剪时保留的最近消息条数（system 消息另算）
	DefaultKeepRecent = 5

	warningPercentage = 80
)

// 各模型上下文上限（token 数）
var modelContextLimits = map[string]int{
	"gpt-4-turbo-preview": 128000,
	"gpt-4":               8192,
	"gpt-3.5-turbo":       4096,
	"gpt-3.5-turbo-16k":   16384,
}

// Usage 一次请求的 token 用量汇总
type Usage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	ContextLimit     int     `json:"context_limit"`
	Percentage       float64 `json:"percentage"`
	Warning          string  `json:"warning,omitempty"`
}

// EstimateTokens 按 4 字符/token 估算文本的 token 数
func EstimateTokens(text string) int {
	return len(text) / charsPerToken
}

// ContextLimit 查询模型上下文上限，未知模型返回 4096
func ContextLimit(model string) int {
	if limit, ok := modelContextLimits[model]; ok {
		return limit
	}
	return DefaultContextLimit
}

// ModelLimits 返回上限表的副本
func ModelLimits() map[string]int {
	out := make(map[string]int, len(modelContextLimits))
	for k, v := range modelContextLimits {
		out[k] = v
	}
	return out
}

// MessageTokens 估算消息列表的 token 总数
func MessageTokens(messages []model.ChatMessage) int {
	total := 0
	for _, m := range messages {
		total += EstimateTokens(m.Content)
	}
	return total
}

// UsagePercentage 计算上下文用量百分比，封顶 100
func UsagePercentage(tokens int, modelName string) float64 {
	limit := ContextLimit(modelName)
	pct := float64(tokens) / float64(limit) * 100
	return math.Min(100, pct)
}

// CalculateUsage 汇总一次请求的用量，超过 80% 附带告警
func CalculateUsage(messages []model.ChatMessage, modelName string) Usage {
	promptTokens := MessageTokens(messages)
	pct := UsagePercentage(promptTokens, modelName)

	u := Usage{
		PromptTokens: promptTokens,
		TotalTokens:  promptTokens,
		ContextLimit: ContextLimit(modelName),
		Percentage:   math.Round(pct*10) / 10,
	}
	if pct > warningPercentage {
		u.Warning = "Approaching context limit"
	}
	return u
}

// WithCompletion 补入生成文本的 token 数并更新总量
func (u Usage) WithCompletion(completion string) Usage {
	u.CompletionTokens = EstimateTokens(completion)
	u.TotalTokens = u.PromptTokens + u.CompletionTokens
	return u
}

// ShouldTrim 用量达到阈值比例即建议裁剪
func ShouldTrim(tokens int, modelName string, threshold float64) bool {
	return UsagePercentage(tokens, modelName) >= threshold*100
}

// TrimMessages 只保留最近 keepCount 条消息，返回裁剪后的列表和移除条数
// 首条 system 消息无条件保留，且不计入 keepCount
func TrimMessages(messages []model.ChatMessage, keepCount int) ([]model.ChatMessage, int) {
	if len(messages) <= keepCount+1 {
		return messages, 0
	}

	var system []model.ChatMessage
	remaining := messages
	if len(messages) > 0 && messages[0].Role == "system" {
		system = messages[:1]
		remaining = messages[1:]
	}

	if len(remaining) <= keepCount {
		return messages, 0
	}

	removed := len(remaining) - keepCount
	kept := remaining[len(remaining)-keepCount:]

	out := make([]model.ChatMessage, 0, len(system)+len(kept))
	out = append(out, system...)
	out = append(out, kept...)
	return out, removed
}

// CalculateKeepCount 计算裁剪时应保留的消息总数
// 始终为 system 消息预留一个位置，再加最近 keepRecent 条
func CalculateKeepCount(totalMessages, keepRecent int) int {
	if totalMessages <= 1 {
		return totalMessages
	}
	if totalMessages <= keepRecent+1 {
		return totalMessages
	}
	return keepRecent + 1
}
