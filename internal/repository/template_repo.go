package repository

import (
	"sync"

	"github.com/promptstudio/backend/internal/model"
	"github.com/promptstudio/backend/internal/storage"
)

// TemplateRepository 模板 Repository 接口
// 与提示词不同，模板每次操作都整体读写文件，文件是唯一权威数据源
type TemplateRepository interface {
	Save(tmpl model.Template) bool
	Get(name string) (*model.Template, bool)
	List() map[string]model.Template
	Delete(name string) bool
	Exists(name string) bool
	Count() int
}

// templateRepository 实现
type templateRepository struct {
	mu    sync.Mutex
	store *storage.Store[model.Template]
}

// NewTemplateRepository 创建 Repository 实例
func NewTemplateRepository(store *storage.Store[model.Template]) TemplateRepository {
	return &templateRepository{store: store}
}

// Save 写入模板（按 name 覆盖），唯一性由 Service 层保证
func (r *templateRepository) Save(tmpl model.Template) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	templates := r.store.Load()
	templates[tmpl.Name] = tmpl
	return r.store.Save(templates)
}

// Get 按名称读取模板
func (r *templateRepository) Get(name string) (*model.Template, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tmpl, ok := r.store.Load()[name]
	if !ok {
		return nil, false
	}
	return &tmpl, true
}

// List 返回全部模板，键为模板名
func (r *templateRepository) List() map[string]model.Template {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Load()
}

// Delete 删除模板，不存在返回 false
func (r *templateRepository) Delete(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	templates := r.store.Load()
	if _, ok := templates[name]; !ok {
		return false
	}
	delete(templates, name)
	return r.store.Save(templates)
}

// Exists 检查模板是否存在
func (r *templateRepository) Exists(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.store.Load()[name]
	return ok
}

// Count 返回模板数量
func (r *templateRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.store.Load())
}
