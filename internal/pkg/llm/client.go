// Package llm 封装 OpenAI 兼容的 chat completions 接口。
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"k8s.io/klog/v2"

	"github.com/promptstudio/backend/internal/model"
)

// Provider 文本生成接口，ChatService 依赖它而非具体实现
type Provider interface {
	Chat(ctx context.Context, modelName string, messages []model.ChatMessage) (string, error)
}

// Client LLM 客户端
type Client struct {
	BaseURL   string
	APIKey    string
	MaxTokens int
	Client    *http.Client
}

// NewClient 创建新的 LLM 客户端
func NewClient(baseURL, apiKey string, maxTokens int) *Client {
	return &Client{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		MaxTokens: maxTokens,
		Client: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// Chat 发送对话请求并返回首条回复文本
func (c *Client) Chat(ctx context.Context, modelName string, messages []model.ChatMessage) (string, error) {
	klog.V(6).Infof("Chat 请求: model=%s, messages=%d", modelName, len(messages))
	resp, err := c.sendRequest(ctx, ChatRequest{
		Model:       modelName,
		Messages:    messages,
		MaxTokens:   c.MaxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return resp.Choices[0].Message.Content, nil
}

// sendRequest 发送 HTTP 请求到 LLM API
func (c *Client) sendRequest(ctx context.Context, reqBody ChatRequest) (*ChatResponse, error) {
	url := c.BaseURL + "/chat/completions"
	klog.V(6).Infof("发送 LLM 请求: url=%s, model=%s", url, reqBody.Model)

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if chatResp.Error != nil {
		return nil, fmt.Errorf("API error: %s", chatResp.Error.Message)
	}

	return &chatResp, nil
}
