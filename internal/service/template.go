package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/promptstudio/backend/internal/model"
	"github.com/promptstudio/backend/internal/pkg/linkage"
	"github.com/promptstudio/backend/internal/pkg/tags"
	"github.com/promptstudio/backend/internal/repository"
)

var (
	ErrTemplateNotFound  = errors.New("template not found")
	ErrTemplateExists    = errors.New("template name must be unique")
	ErrMalformedTemplate = errors.New("template text contains malformed tags")
)

// 单个模板允许的最大占位符数
const maxTemplateLevels = 16

// 常见 tag 的内置候选项，按小写 tag 名匹配
var defaultOptions = map[string][]string{
	"role":    {"Programmer", "Chef", "Soccer Coach", "Teacher", "Designer"},
	"what":    {"Write code", "Shop for food", "Create tests", "Prepare lunch", "Plan dinner party", "Refactor"},
	"why":     {"Build better software", "Cook delicious meals", "Improve code quality", "Feed my family", "Host friends"},
	"action":  {"Write code", "Create tests", "Refactor", "Shop for food", "Prepare lunch"},
	"context": {"Web development", "Mobile app", "Backend API", "Kitchen", "Restaurant"},
}

// SaveTemplateRequest 保存模板请求
type SaveTemplateRequest struct {
	Name           string                         `json:"name" binding:"required"`
	Description    string                         `json:"description"`
	TemplateText   string                         `json:"template_text" binding:"required"`
	ComboBoxValues map[string][]string            `json:"combo_box_values"`
	LinkageData    map[string]map[string][]string `json:"linkage_data"`
}

// UpdateTemplateRequest 更新模板请求，模板名不可改
type UpdateTemplateRequest struct {
	Description    *string                        `json:"description"`
	TemplateText   *string                        `json:"template_text"`
	ComboBoxValues map[string][]string            `json:"combo_box_values"`
	LinkageData    map[string]map[string][]string `json:"linkage_data"`
}

// Dropdown 模板生成结果中单个变量的下拉框描述
type Dropdown struct {
	Options  []string `json:"options"`
	Enabled  bool     `json:"enabled,omitempty"`
	Value    string   `json:"value"`
	IsCustom bool     `json:"is_custom,omitempty"`
}

// GenerateResult 模板生成结果
type GenerateResult struct {
	Template  string              `json:"template"`
	Variables []string            `json:"variables"`
	Dropdowns map[string]Dropdown `json:"dropdowns"`
	EditMode  bool                `json:"edit_mode"`
}

// ValidateReport 模板文本校验报告
type ValidateReport struct {
	Valid          bool     `json:"valid"`
	Variables      []string `json:"variables"`
	ComponentCount int      `json:"component_count"`
	MaxLevels      int      `json:"max_levels"`
	WithinLimits   bool     `json:"within_limits"`
}

// LinkageReport 模板联动状态报告
type LinkageReport struct {
	Chain  []linkage.Pair `json:"restoration_chain"`
	Errors []string       `json:"integrity_errors"`
}

// TemplateService 模板服务接口
type TemplateService interface {
	Save(req SaveTemplateRequest) (*model.Template, error)
	Update(name string, req UpdateTemplateRequest) (*model.Template, error)
	Get(name string) (*model.Template, error)
	List() map[string]model.Template
	Delete(name string) error
	Exists(name string) bool
	Count() int
	Parse(templateText string) []string
	Validate(templateText string) ValidateReport
	Generate(templateText string, editMode bool) (*GenerateResult, error)
	RenderFinal(templateText string, selections map[string]string) string
	Linkages(name string) (*LinkageReport, error)
}

// templateService 实现
type templateService struct {
	repo repository.TemplateRepository
}

// NewTemplateService 创建服务实例
func NewTemplateService(repo repository.TemplateRepository) TemplateService {
	return &templateService{repo: repo}
}

// Save 创建模板，名称重复或 tag 不良构时拒绝
func (s *templateService) Save(req SaveTemplateRequest) (*model.Template, error) {
	if s.repo.Exists(req.Name) {
		return nil, ErrTemplateExists
	}
	if !tags.Validate(req.TemplateText) {
		return nil, ErrMalformedTemplate
	}

	if req.ComboBoxValues == nil {
		req.ComboBoxValues = map[string][]string{}
	}
	if req.LinkageData == nil {
		req.LinkageData = map[string]map[string][]string{}
	}

	now := time.Now()
	tmpl := model.Template{
		Name:           req.Name,
		Description:    req.Description,
		TemplateText:   req.TemplateText,
		ComboBoxValues: req.ComboBoxValues,
		LinkageData:    req.LinkageData,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !s.repo.Save(tmpl) {
		return nil, fmt.Errorf("failed to persist template %q", req.Name)
	}
	return &tmpl, nil
}

// Update 更新已有模板，nil 字段不修改；template_text 变更会重新校验
func (s *templateService) Update(name string, req UpdateTemplateRequest) (*model.Template, error) {
	tmpl, ok := s.repo.Get(name)
	if !ok {
		return nil, ErrTemplateNotFound
	}

	if req.TemplateText != nil {
		if !tags.Validate(*req.TemplateText) {
			return nil, ErrMalformedTemplate
		}
		tmpl.TemplateText = *req.TemplateText
	}
	if req.Description != nil {
		tmpl.Description = *req.Description
	}
	if req.ComboBoxValues != nil {
		tmpl.ComboBoxValues = req.ComboBoxValues
	}
	if req.LinkageData != nil {
		tmpl.LinkageData = req.LinkageData
	}
	tmpl.UpdatedAt = time.Now()

	if !s.repo.Save(*tmpl) {
		return nil, fmt.Errorf("failed to persist template %q", name)
	}
	return tmpl, nil
}

// Get 按名称读取模板
func (s *templateService) Get(name string) (*model.Template, error) {
	tmpl, ok := s.repo.Get(name)
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return tmpl, nil
}

// List 全部模板
func (s *templateService) List() map[string]model.Template {
	return s.repo.List()
}

// Delete 删除模板
func (s *templateService) Delete(name string) error {
	if !s.repo.Delete(name) {
		return ErrTemplateNotFound
	}
	return nil
}

// Exists 模板是否存在
func (s *templateService) Exists(name string) bool {
	return s.repo.Exists(name)
}

// Count 模板数量
func (s *templateService) Count() int {
	return s.repo.Count()
}

// Parse 提取模板变量
func (s *templateService) Parse(templateText string) []string {
	return tags.Extract(templateText)
}

// Validate 生成模板文本校验报告
func (s *templateService) Validate(templateText string) ValidateReport {
	variables := tags.Extract(templateText)
	return ValidateReport{
		Valid:          tags.Validate(templateText),
		Variables:      variables,
		ComponentCount: len(variables),
		MaxLevels:      maxTemplateLevels,
		WithinLimits:   len(variables) <= maxTemplateLevels,
	}
}

// Generate 从模板文本生成各变量的下拉框
// 编辑模式下返回可增删项的自定义下拉框（默认空值），展示模式只给候选列表
func (s *templateService) Generate(templateText string, editMode bool) (*GenerateResult, error) {
	if !tags.Validate(templateText) {
		return nil, ErrMalformedTemplate
	}

	variables := tags.Extract(templateText)
	dropdowns := make(map[string]Dropdown, len(variables))
	for _, v := range variables {
		d := Dropdown{Options: optionsFor(v)}
		if editMode {
			d.Enabled = true
			d.IsCustom = true
		}
		dropdowns[v] = d
	}

	return &GenerateResult{
		Template:  templateText,
		Variables: variables,
		Dropdowns: dropdowns,
		EditMode:  editMode,
	}, nil
}

// RenderFinal 把模板中的每个 [tag] 替换为用户选值
func (s *templateService) RenderFinal(templateText string, selections map[string]string) string {
	out := templateText
	for tag, value := range selections {
		out = strings.ReplaceAll(out, "["+tag+"]", value)
	}
	return out
}

// Linkages 从已保存模板重建联动状态，返回恢复链和完整性错误
func (s *templateService) Linkages(name string) (*LinkageReport, error) {
	tmpl, ok := s.repo.Get(name)
	if !ok {
		return nil, ErrTemplateNotFound
	}

	mgr := linkage.NewManager()
	position := 0
	seen := map[string]bool{}
	for _, tag := range tags.Extract(tmpl.TemplateText) {
		// 模板中重复出现的 tag 共享同一个下拉框
		if seen[tag] {
			continue
		}
		seen[tag] = true
		if err := mgr.Register(tag, position); err != nil {
			return nil, fmt.Errorf("failed to rebuild linkage state: %w", err)
		}
		position++
		if opts, ok := tmpl.ComboBoxValues[tag]; ok {
			mgr.SetAvailableOptions(tag, opts)
		}
	}
	for parent, children := range tmpl.LinkageData {
		for child, options := range children {
			for _, opt := range options {
				mgr.CreateLinkage(parent, child, opt)
			}
		}
	}

	chain := []linkage.Pair{}
	for _, tag := range mgr.Registered() {
		chain = append(chain, mgr.GetRestorationChain(tag)...)
	}

	return &LinkageReport{
		Chain:  chain,
		Errors: mgr.ValidateIntegrity(),
	}, nil
}

func optionsFor(variable string) []string {
	if opts, ok := defaultOptions[strings.ToLower(variable)]; ok {
		return append([]string(nil), opts...)
	}
	return []string{
		fmt.Sprintf("Option 1 for %s", variable),
		fmt.Sprintf("Option 2 for %s", variable),
	}
}
