package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"k8s.io/klog/v2"

	"github.com/promptstudio/backend/internal/model"
	"github.com/promptstudio/backend/internal/pkg/llm"
	"github.com/promptstudio/backend/internal/pkg/tokens"
)

var ErrEmptyMessage = errors.New("message cannot be empty")

// SendChatRequest 发送对话请求
type SendChatRequest struct {
	Message      string              `json:"message"`
	History      []model.ChatMessage `json:"history"`
	Model        string              `json:"model"`
	SystemPrompt string              `json:"system_prompt"`
	AutoTrim     bool                `json:"auto_trim"`
}

// ChatMetadata 响应附带的对话元信息
type ChatMetadata struct {
	MessageCount int `json:"message_count"`
}

// SendChatResult 发送对话结果
type SendChatResult struct {
	Response string       `json:"response"`
	Usage    tokens.Usage `json:"token_usage"`
	Metadata ChatMetadata `json:"metadata"`
	Trimmed  int          `json:"trimmed,omitempty"`
}

// ChatService 对话服务接口
type ChatService interface {
	BuildMessages(userMessage string, history []model.ChatMessage, systemPrompt string) []model.ChatMessage
	Send(ctx context.Context, req SendChatRequest) (*SendChatResult, error)
	EstimateTokens(message string, history []model.ChatMessage) int
}

// chatService 实现
type chatService struct {
	provider     llm.Provider
	settings     *SettingsService
	defaultModel string
}

// NewChatService 创建服务实例
func NewChatService(provider llm.Provider, settings *SettingsService, defaultModel string) ChatService {
	return &chatService{
		provider:     provider,
		settings:     settings,
		defaultModel: defaultModel,
	}
}

// BuildMessages 组装发给 LLM 的消息列表
// 顺序是硬性契约：system（可选）在先，历史消息居中，新消息最后
func (s *chatService) BuildMessages(userMessage string, history []model.ChatMessage, systemPrompt string) []model.ChatMessage {
	messages := make([]model.ChatMessage, 0, len(history)+2)
	if systemPrompt != "" {
		messages = append(messages, model.ChatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, history...)
	messages = append(messages, model.ChatMessage{Role: "user", Content: userMessage})
	return messages
}

// Send 发送对话并返回回复、token 用量和元信息
// auto_trim 开启且用量到达阈值时先裁剪历史再发送
func (s *chatService) Send(ctx context.Context, req SendChatRequest) (*SendChatResult, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	modelName := req.Model
	if modelName == "" {
		modelName = s.defaultModel
	}
	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = s.settings.SystemPrompt()
	}

	messages := s.BuildMessages(req.Message, req.History, systemPrompt)
	usage := tokens.CalculateUsage(messages, modelName)

	trimmed := 0
	if req.AutoTrim && tokens.ShouldTrim(usage.PromptTokens, modelName, tokens.DefaultTrimThreshold) {
		keep := tokens.CalculateKeepCount(len(messages), tokens.DefaultKeepRecent)
		messages, trimmed = tokens.TrimMessages(messages, keep-1)
		usage = tokens.CalculateUsage(messages, modelName)
		klog.V(6).Infof("自动裁剪历史消息: removed=%d, remaining=%d", trimmed, len(messages))
	}

	response, err := s.provider.Chat(ctx, modelName, messages)
	if err != nil {
		return nil, fmt.Errorf("LLM request failed: %w", err)
	}

	return &SendChatResult{
		Response: response,
		Usage:    usage.WithCompletion(response),
		Metadata: ChatMetadata{MessageCount: len(messages)},
		Trimmed:  trimmed,
	}, nil
}

// EstimateTokens 估算一条新消息加历史的 token 总数
func (s *chatService) EstimateTokens(message string, history []model.ChatMessage) int {
	total := tokens.EstimateTokens(message)
	total += tokens.MessageTokens(history)
	return total
}
