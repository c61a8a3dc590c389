package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/promptstudio/backend/internal/model"
	"github.com/promptstudio/backend/internal/repository"
)

var ErrConversationNotFound = errors.New("conversation not found")

const (
	titleMaxLength   = 50
	previewMaxLength = 100
	untitledFallback = "New Conversation"
)

// ConversationService 对话记录服务接口
type ConversationService interface {
	Save(conv model.Conversation) (*model.Conversation, error)
	Get(id string) (*model.Conversation, error)
	List(sortBy string) []model.ConversationSummary
	Search(query string) []model.ConversationSummary
	Delete(id string) error
	Count() int
}

// conversationService 实现
type conversationService struct {
	repo repository.ConversationRepository
}

// NewConversationService 创建服务实例
func NewConversationService(repo repository.ConversationRepository) ConversationService {
	return &conversationService{repo: repo}
}

// Save 保存对话（按 id upsert）
// id 缺省时生成；title 缺省时取首条 user 消息前 50 字符；created_at 只设一次
func (s *conversationService) Save(conv model.Conversation) (*model.Conversation, error) {
	if conv.ID == "" {
		conv.ID = "conv-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	}
	if conv.Title == "" {
		conv.Title = deriveTitle(conv.Messages)
	}

	now := time.Now()
	if existing, ok := s.repo.Get(conv.ID); ok {
		conv.CreatedAt = existing.CreatedAt
	} else if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	conv.UpdatedAt = now

	if !s.repo.Upsert(conv) {
		return nil, fmt.Errorf("failed to persist conversation %q", conv.ID)
	}
	return &conv, nil
}

// Get 按 id 读取对话
func (s *conversationService) Get(id string) (*model.Conversation, error) {
	conv, ok := s.repo.Get(id)
	if !ok {
		return nil, ErrConversationNotFound
	}
	return conv, nil
}

// List 返回对话摘要列表
// sortBy 为 "title" 时按标题排序，否则按更新时间倒序
func (s *conversationService) List(sortBy string) []model.ConversationSummary {
	all := s.repo.All()
	summaries := make([]model.ConversationSummary, 0, len(all))
	for _, conv := range all {
		summaries = append(summaries, summarize(conv))
	}

	if sortBy == "title" {
		sort.Slice(summaries, func(i, j int) bool {
			return summaries[i].Title < summaries[j].Title
		})
	} else {
		sort.Slice(summaries, func(i, j int) bool {
			return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
		})
	}
	return summaries
}

// Search 在标题和预览中做大小写不敏感的子串搜索
func (s *conversationService) Search(query string) []model.ConversationSummary {
	q := strings.ToLower(query)
	out := []model.ConversationSummary{}
	for _, summary := range s.List("") {
		if strings.Contains(strings.ToLower(summary.Title), q) ||
			strings.Contains(strings.ToLower(summary.Preview), q) {
			out = append(out, summary)
		}
	}
	return out
}

// Delete 删除对话
func (s *conversationService) Delete(id string) error {
	if !s.repo.Delete(id) {
		return ErrConversationNotFound
	}
	return nil
}

// Count 对话总数
func (s *conversationService) Count() int {
	return s.repo.Count()
}

// deriveTitle 取首条 user 消息生成标题，超长截断并加省略号
func deriveTitle(messages []model.ChatMessage) string {
	for _, m := range messages {
		if m.Role != "user" {
			continue
		}
		if len(m.Content) > titleMaxLength {
			return m.Content[:titleMaxLength] + "..."
		}
		return m.Content
	}
	return untitledFallback
}

// summarize 生成列表项，preview 取最后一条 user/assistant 消息
func summarize(conv model.Conversation) model.ConversationSummary {
	preview := ""
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		m := conv.Messages[i]
		if m.Role != "user" && m.Role != "assistant" {
			continue
		}
		preview = m.Content
		if len(preview) > previewMaxLength {
			preview = preview[:previewMaxLength] + "..."
		}
		break
	}

	title := conv.Title
	if title == "" {
		title = "Untitled"
	}
	modelName := conv.Model
	if modelName == "" {
		modelName = "unknown"
	}

	return model.ConversationSummary{
		ID:           conv.ID,
		Title:        title,
		Preview:      preview,
		LastMessage:  preview,
		MessageCount: len(conv.Messages),
		Model:        modelName,
		CreatedAt:    conv.CreatedAt,
		UpdatedAt:    conv.UpdatedAt,
	}
}
