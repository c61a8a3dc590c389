package repository

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/promptstudio/backend/internal/model"
	"github.com/promptstudio/backend/internal/storage"
)

// PromptRepository 提示词 Repository 接口
type PromptRepository interface {
	Add(name, text, category string) *model.Prompt
	Get(id string) (*model.Prompt, bool)
	GetByName(name string) (*model.Prompt, bool)
	List(category string) []*model.Prompt
	Update(id string, name, text, category *string) bool
	Delete(id string) bool
	Search(query string) []*model.Prompt
	Categories() []string
}

// promptRepository 实现
// 构造时整体载入内存，每次变更整体写回；gin 并发处理请求，需要锁保护
type promptRepository struct {
	mu      sync.RWMutex
	store   *storage.Store[model.Prompt]
	prompts map[string]model.Prompt
	order   []string // 插入顺序，载入时按创建时间重建
}

// NewPromptRepository 创建 Repository 实例并载入存量数据
func NewPromptRepository(store *storage.Store[model.Prompt]) PromptRepository {
	r := &promptRepository{
		store:   store,
		prompts: store.Load(),
	}
	r.order = make([]string, 0, len(r.prompts))
	for id := range r.prompts {
		r.order = append(r.order, id)
	}
	// JSON 对象无序，按创建时间还原插入顺序
	sort.Slice(r.order, func(i, j int) bool {
		a, b := r.prompts[r.order[i]], r.prompts[r.order[j]]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return r.order[i] < r.order[j]
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return r
}

// Add 创建提示词并持久化，返回新记录
// 本层不做字段校验，校验由 Web 层在调用前完成
func (r *promptRepository) Add(name, text, category string) *model.Prompt {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	p := model.Prompt{
		ID:         uuid.New().String(),
		Name:       name,
		Text:       text,
		Category:   category,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	r.prompts[p.ID] = p
	r.order = append(r.order, p.ID)
	r.store.Save(r.prompts)

	out := p
	return &out
}

// Get 按 id 获取提示词
func (r *promptRepository) Get(id string) (*model.Prompt, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.prompts[id]
	if !ok {
		return nil, false
	}
	out := p
	return &out, true
}

// GetByName 按名称获取首个匹配的提示词，名称不保证唯一
func (r *promptRepository) GetByName(name string) (*model.Prompt, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if p := r.prompts[id]; p.Name == name {
			out := p
			return &out, true
		}
	}
	return nil, false
}

// List 按插入顺序列出提示词，category 非空时做精确匹配过滤
func (r *promptRepository) List(category string) []*model.Prompt {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Prompt, 0, len(r.order))
	for _, id := range r.order {
		p := r.prompts[id]
		if category != "" && p.Category != category {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	return out
}

// Update 更新提示词，nil 字段保持不变；text 变更会刷新 modified_at
func (r *promptRepository) Update(id string, name, text, category *string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.prompts[id]
	if !ok {
		return false
	}
	if name != nil {
		p.Name = *name
	}
	if text != nil {
		p.UpdateText(*text)
	}
	if category != nil {
		p.Category = *category
	}
	r.prompts[id] = p
	r.store.Save(r.prompts)
	return true
}

// Delete 删除提示词，id 不存在返回 false
func (r *promptRepository) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.prompts[id]; !ok {
		return false
	}
	delete(r.prompts, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.store.Save(r.prompts)
	return true
}

// Search 在 name 和 text 中做大小写不敏感的子串匹配
func (r *promptRepository) Search(query string) []*model.Prompt {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	out := []*model.Prompt{}
	for _, id := range r.order {
		p := r.prompts[id]
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Text), q) {
			cp := p
			out = append(out, &cp)
		}
	}
	return out
}

// Categories 返回去重后按字典序排列的分类列表
func (r *promptRepository) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]bool{}
	for _, p := range r.prompts {
		if p.Category != "" {
			seen[p.Category] = true
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
