package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/promptstudio/backend/internal/model"
)

// fakeProvider 记录收到的请求并返回固定回复
type fakeProvider struct {
	gotModel    string
	gotMessages []model.ChatMessage
	response    string
	err         error
}

func (f *fakeProvider) Chat(ctx context.Context, modelName string, messages []model.ChatMessage) (string, error) {
	f.gotModel = modelName
	f.gotMessages = messages
	return f.response, f.err
}

func TestChatServiceBuildMessages(t *testing.T) {
	svc := NewChatService(&fakeProvider{}, NewSettingsService(), "gpt-4")

	history := []model.ChatMessage{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "reply"},
	}
	messages := svc.BuildMessages("second", history, "Be helpful")

	want := []string{"system", "user", "assistant", "user"}
	if len(messages) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(messages))
	}
	for i, role := range want {
		if messages[i].Role != role {
			t.Errorf("position %d: expected role %q, got %q", i, role, messages[i].Role)
		}
	}
	if messages[0].Content != "Be helpful" {
		t.Errorf("system content: %q", messages[0].Content)
	}
	if messages[3].Content != "second" {
		t.Errorf("new message must be last, got %q", messages[3].Content)
	}
}

func TestChatServiceBuildMessagesNoSystem(t *testing.T) {
	svc := NewChatService(&fakeProvider{}, NewSettingsService(), "gpt-4")

	messages := svc.BuildMessages("hello", nil, "")
	if len(messages) != 1 || messages[0].Role != "user" {
		t.Fatalf("expected single user message, got %+v", messages)
	}
}

func TestChatServiceSend(t *testing.T) {
	provider := &fakeProvider{response: "Hi there!"}
	svc := NewChatService(provider, NewSettingsService(), "gpt-4")

	result, err := svc.Send(context.Background(), SendChatRequest{Message: "Hello"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if result.Response != "Hi there!" {
		t.Errorf("response: %q", result.Response)
	}
	if provider.gotModel != "gpt-4" {
		t.Errorf("expected default model gpt-4, got %q", provider.gotModel)
	}
	// 默认 system prompt 生效
	if provider.gotMessages[0].Role != "system" || provider.gotMessages[0].Content != DefaultSystemPrompt {
		t.Errorf("system message: %+v", provider.gotMessages[0])
	}
	if result.Usage.PromptTokens <= 0 || result.Usage.TotalTokens <= result.Usage.PromptTokens {
		t.Errorf("usage not populated: %+v", result.Usage)
	}
	if result.Metadata.MessageCount != 2 {
		t.Errorf("message count: %d", result.Metadata.MessageCount)
	}
}

func TestChatServiceSendEmptyMessage(t *testing.T) {
	svc := NewChatService(&fakeProvider{}, NewSettingsService(), "gpt-4")

	if _, err := svc.Send(context.Background(), SendChatRequest{Message: "   "}); err != ErrEmptyMessage {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestChatServiceSendProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream down")}
	svc := NewChatService(provider, NewSettingsService(), "gpt-4")

	_, err := svc.Send(context.Background(), SendChatRequest{Message: "Hello"})
	if err == nil || !strings.Contains(err.Error(), "upstream down") {
		t.Errorf("expected wrapped provider error, got %v", err)
	}
}

func TestChatServiceSendAutoTrim(t *testing.T) {
	provider := &fakeProvider{response: "ok"}
	svc := NewChatService(provider, NewSettingsService(), "gpt-3.5-turbo")

	// gpt-3.5-turbo 上限 4096，90% 阈值约 3686 token ≈ 14744 字符
	big := strings.Repeat("x", 2000)
	history := make([]model.ChatMessage, 0, 10)
	for i := 0; i < 10; i++ {
		history = append(history, model.ChatMessage{Role: "user", Content: big})
	}

	result, err := svc.Send(context.Background(), SendChatRequest{
		Message:  "latest question",
		History:  history,
		AutoTrim: true,
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if result.Trimmed == 0 {
		t.Fatal("expected history to be trimmed")
	}
	// system 消息必须保留
	if provider.gotMessages[0].Role != "system" {
		t.Errorf("system message lost after trim: %+v", provider.gotMessages[0])
	}
	// 最新的 user 消息必须保留
	last := provider.gotMessages[len(provider.gotMessages)-1]
	if last.Content != "latest question" {
		t.Errorf("latest message lost after trim: %+v", last)
	}
}

func TestChatServiceSendCustomSystemPrompt(t *testing.T) {
	provider := &fakeProvider{response: "ok"}
	settings := NewSettingsService()
	settings.SetSystemPrompt("You are a pirate.")
	svc := NewChatService(provider, settings, "gpt-4")

	if _, err := svc.Send(context.Background(), SendChatRequest{Message: "hi"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if provider.gotMessages[0].Content != "You are a pirate." {
		t.Errorf("system prompt: %q", provider.gotMessages[0].Content)
	}

	// 请求里带 system_prompt 时优先于全局设置
	if _, err := svc.Send(context.Background(), SendChatRequest{Message: "hi", SystemPrompt: "Override"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if provider.gotMessages[0].Content != "Override" {
		t.Errorf("system prompt: %q", provider.gotMessages[0].Content)
	}
}

func TestChatServiceEstimateTokens(t *testing.T) {
	svc := NewChatService(&fakeProvider{}, NewSettingsService(), "gpt-4")

	history := []model.ChatMessage{{Role: "user", Content: strings.Repeat("b", 40)}}
	got := svc.EstimateTokens(strings.Repeat("a", 40), history)
	if got != 20 {
		t.Errorf("expected 20 tokens, got %d", got)
	}
}
