package repository

import (
	"sync"

	"github.com/promptstudio/backend/internal/model"
	"github.com/promptstudio/backend/internal/storage"
)

// ConversationRepository 对话记录 Repository 接口
type ConversationRepository interface {
	Upsert(conv model.Conversation) bool
	Get(id string) (*model.Conversation, bool)
	All() map[string]model.Conversation
	Delete(id string) bool
	Count() int
}

// conversationRepository 实现，每次操作整体读写文件
type conversationRepository struct {
	mu    sync.Mutex
	store *storage.Store[model.Conversation]
}

// NewConversationRepository 创建 Repository 实例
func NewConversationRepository(store *storage.Store[model.Conversation]) ConversationRepository {
	return &conversationRepository{store: store}
}

// Upsert 按 id 写入或覆盖对话
func (r *conversationRepository) Upsert(conv model.Conversation) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversations := r.store.Load()
	conversations[conv.ID] = conv
	return r.store.Save(conversations)
}

// Get 按 id 读取对话
func (r *conversationRepository) Get(id string) (*model.Conversation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.store.Load()[id]
	if !ok {
		return nil, false
	}
	return &conv, true
}

// All 返回全部对话，键为对话 id
func (r *conversationRepository) All() map[string]model.Conversation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Load()
}

// Delete 删除对话，不存在返回 false
func (r *conversationRepository) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversations := r.store.Load()
	if _, ok := conversations[id]; !ok {
		return false
	}
	delete(conversations, id)
	return r.store.Save(conversations)
}

// Count 返回对话总数
func (r *conversationRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.store.Load())
}
