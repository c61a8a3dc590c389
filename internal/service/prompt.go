package service

import (
	"errors"

	"github.com/promptstudio/backend/internal/model"
	"github.com/promptstudio/backend/internal/pkg/validation"
	"github.com/promptstudio/backend/internal/repository"
)

var ErrPromptNotFound = errors.New("prompt not found")

// CreatePromptRequest 创建提示词请求
type CreatePromptRequest struct {
	Name     string `json:"name"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

// UpdatePromptRequest 更新提示词请求，nil 字段不修改
type UpdatePromptRequest struct {
	Name     *string `json:"name"`
	Text     *string `json:"text"`
	Category *string `json:"category"`
}

// PromptService 提示词服务接口
type PromptService interface {
	Create(req CreatePromptRequest) (*model.Prompt, []validation.FieldError)
	Get(id string) (*model.Prompt, error)
	GetByName(name string) (*model.Prompt, error)
	List(category string) []*model.Prompt
	Update(id string, req UpdatePromptRequest) (*model.Prompt, []validation.FieldError, error)
	Delete(id string) error
	Search(query string) []*model.Prompt
	Categories() []string
}

// promptService 实现
type promptService struct {
	repo repository.PromptRepository
}

// NewPromptService 创建服务实例
func NewPromptService(repo repository.PromptRepository) PromptService {
	return &promptService{repo: repo}
}

// Create 校验后创建提示词，校验失败返回字段错误列表
func (s *promptService) Create(req CreatePromptRequest) (*model.Prompt, []validation.FieldError) {
	if req.Category == "" {
		req.Category = "general"
	}
	if ok, errs := validation.ValidatePrompt(req.Name, req.Text, req.Category); !ok {
		return nil, errs
	}
	return s.repo.Add(req.Name, req.Text, req.Category), nil
}

// Get 按 id 获取提示词
func (s *promptService) Get(id string) (*model.Prompt, error) {
	p, ok := s.repo.Get(id)
	if !ok {
		return nil, ErrPromptNotFound
	}
	return p, nil
}

// GetByName 按名称获取首个匹配
func (s *promptService) GetByName(name string) (*model.Prompt, error) {
	p, ok := s.repo.GetByName(name)
	if !ok {
		return nil, ErrPromptNotFound
	}
	return p, nil
}

// List 列出提示词，category 非空时过滤
func (s *promptService) List(category string) []*model.Prompt {
	return s.repo.List(category)
}

// Update 校验后更新提示词
func (s *promptService) Update(id string, req UpdatePromptRequest) (*model.Prompt, []validation.FieldError, error) {
	if ok, errs := validation.ValidatePromptUpdate(req.Name, req.Text, req.Category); !ok {
		return nil, errs, nil
	}
	if ok := s.repo.Update(id, req.Name, req.Text, req.Category); !ok {
		return nil, nil, ErrPromptNotFound
	}
	p, _ := s.repo.Get(id)
	return p, nil, nil
}

// Delete 删除提示词
func (s *promptService) Delete(id string) error {
	if !s.repo.Delete(id) {
		return ErrPromptNotFound
	}
	return nil
}

// Search 大小写不敏感的子串搜索
func (s *promptService) Search(query string) []*model.Prompt {
	return s.repo.Search(query)
}

// Categories 全部分类
func (s *promptService) Categories() []string {
	return s.repo.Categories()
}
