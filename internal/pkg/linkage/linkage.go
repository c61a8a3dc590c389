// Package linkage 维护模板下拉框之间的层级联动关系。
//
// 联动模型是一条按注册顺序排列的线性链：父框选值变化时，链上位于其后的
// 所有下拉框（不止直接子级）都要清空选择，宁可多清也不留下过期组合。
package linkage

import (
	"fmt"
	"sync"
)

// LinkageRule 一条父子联动规则，linked_options 保序且不重复
type LinkageRule struct {
	ParentTag     string
	ChildTag      string
	LinkedOptions []string
}

// AddLinkedOption 追加选项，已存在则忽略
func (r *LinkageRule) AddLinkedOption(option string) {
	for _, o := range r.LinkedOptions {
		if o == option {
			return
		}
	}
	r.LinkedOptions = append(r.LinkedOptions, option)
}

// RemoveLinkedOption 移除选项，不存在则忽略
func (r *LinkageRule) RemoveLinkedOption(option string) {
	for i, o := range r.LinkedOptions {
		if o == option {
			r.LinkedOptions = append(r.LinkedOptions[:i], r.LinkedOptions[i+1:]...)
			return
		}
	}
}

// HasLinkedOptions 是否存在至少一个联动选项
func (r *LinkageRule) HasLinkedOptions() bool {
	return len(r.LinkedOptions) > 0
}

// ComboBoxState 单个下拉框的当前状态
type ComboBoxState struct {
	Tag              string
	SelectedOption   string
	AvailableOptions []string
}

// IsSelected 选中值非空才算有选择
func (s *ComboBoxState) IsSelected() bool {
	return s.SelectedOption != ""
}

// ClearSelection 清空当前选择
func (s *ComboBoxState) ClearSelection() {
	s.SelectedOption = ""
}

// Pair 一对需要恢复联动的父子 tag
type Pair struct {
	ParentTag string `json:"parent_tag"`
	ChildTag  string `json:"child_tag"`
}

// Manager 联动状态机
// 持有规则表（parent -> child -> 规则）、各框状态和注册顺序
type Manager struct {
	mu     sync.RWMutex
	rules  map[string]map[string]*LinkageRule
	states map[string]*ComboBoxState
	order  []string
}

// NewManager 创建空的联动管理器
func NewManager() *Manager {
	return &Manager{
		rules:  make(map[string]map[string]*LinkageRule),
		states: make(map[string]*ComboBoxState),
	}
}

// Register 在指定序号注册下拉框
// 序号必须从 0 起严格递增且无空洞，乱序注册直接拒绝
func (m *Manager) Register(tag string, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.states[tag]; ok {
		return fmt.Errorf("combo box %q already registered", tag)
	}
	if position != len(m.order) {
		return fmt.Errorf("combo box %q registered out of order: position %d, expected %d", tag, position, len(m.order))
	}

	m.states[tag] = &ComboBoxState{Tag: tag}
	m.order = append(m.order, tag)
	return nil
}

// Registered 返回按注册顺序排列的全部 tag
func (m *Manager) Registered() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// CreateLinkage 为 (parent, child) 规则幂等追加一个选项
func (m *Manager) CreateLinkage(parentTag, childTag, option string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	children, ok := m.rules[parentTag]
	if !ok {
		children = make(map[string]*LinkageRule)
		m.rules[parentTag] = children
	}
	rule, ok := children[childTag]
	if !ok {
		rule = &LinkageRule{ParentTag: parentTag, ChildTag: childTag}
		children[childTag] = rule
	}
	rule.AddLinkedOption(option)
}

// RemoveLinkage 从 (parent, child) 规则中移除一个选项
func (m *Manager) RemoveLinkage(parentTag, childTag, option string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rule, ok := m.rules[parentTag][childTag]; ok {
		rule.RemoveLinkedOption(option)
	}
}

// GetLinkedOptions 获取父子规则的选项副本，无规则时返回空列表
func (m *Manager) GetLinkedOptions(parentTag, childTag string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rule, ok := m.rules[parentTag][childTag]
	if !ok {
		return []string{}
	}
	out := make([]string, len(rule.LinkedOptions))
	copy(out, rule.LinkedOptions)
	return out
}

// UpdateSelection 设置某个框的选中值，未注册的 tag 不做任何事
func (m *Manager) UpdateSelection(tag, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if state, ok := m.states[tag]; ok {
		state.SelectedOption = value
	}
}

// ClearSelection 清空某个框的选中值
func (m *Manager) ClearSelection(tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if state, ok := m.states[tag]; ok {
		state.ClearSelection()
	}
}

// Selection 返回某个框的当前选中值及是否有选择
func (m *Manager) Selection(tag string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.states[tag]
	if !ok {
		return "", false
	}
	return state.SelectedOption, state.IsSelected()
}

// SetAvailableOptions 设置某个框的候选项
func (m *Manager) SetAvailableOptions(tag string, options []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if state, ok := m.states[tag]; ok {
		state.AvailableOptions = append([]string(nil), options...)
	}
}

// GetAffectedComboBoxes 返回注册顺序中严格位于 parent 之后的全部 tag
func (m *Manager) GetAffectedComboBoxes(parentTag string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.affectedLocked(parentTag)
}

func (m *Manager) affectedLocked(parentTag string) []string {
	pos := -1
	for i, tag := range m.order {
		if tag == parentTag {
			pos = i
			break
		}
	}
	if pos == -1 {
		return []string{}
	}
	out := make([]string, len(m.order)-pos-1)
	copy(out, m.order[pos+1:])
	return out
}

// ClearSubsequentSelections 级联清空 parent 之后所有框的选择
// 父框选值变化时调用，避免下游残留过期组合
func (m *Manager) ClearSubsequentSelections(parentTag string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, tag := range m.affectedLocked(parentTag) {
		if state, ok := m.states[tag]; ok {
			state.ClearSelection()
		}
	}
}

// ShouldRestoreLinkages 父子规则存在且至少有一个选项时才需要恢复
func (m *Manager) ShouldRestoreLinkages(parentTag, childTag string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rule, ok := m.rules[parentTag][childTag]
	return ok && rule.HasLinkedOptions()
}

// GetRestorationChain 返回需要恢复联动的父子对，按链上顺序排列
// 页面重载后用它把已保存的联动回放到界面状态
func (m *Manager) GetRestorationChain(parentTag string) []Pair {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chain := []Pair{}
	for _, childTag := range m.affectedLocked(parentTag) {
		rule, ok := m.rules[parentTag][childTag]
		if ok && rule.HasLinkedOptions() {
			chain = append(chain, Pair{ParentTag: parentTag, ChildTag: childTag})
		}
	}
	return chain
}

// LinkageData 导出 {parent: {child: [options]}}，即模板 linkage_data 的持久化形态
func (m *Manager) LinkageData() map[string]map[string][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]map[string][]string, len(m.rules))
	for parentTag, children := range m.rules {
		out[parentTag] = make(map[string][]string, len(children))
		for childTag, rule := range children {
			opts := make([]string, len(rule.LinkedOptions))
			copy(opts, rule.LinkedOptions)
			out[parentTag][childTag] = opts
		}
	}
	return out
}

// CurrentSelections 导出 {tag: value}，只含有选择的框
func (m *Manager) CurrentSelections() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]string)
	for tag, state := range m.states {
		if state.IsSelected() {
			out[tag] = state.SelectedOption
		}
	}
	return out
}

// ValidateIntegrity 检查规则引用的父子框是否都已注册，返回错误描述列表
func (m *Manager) ValidateIntegrity() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	errs := []string{}
	for parentTag, children := range m.rules {
		if _, ok := m.states[parentTag]; !ok {
			errs = append(errs, fmt.Sprintf("parent combo box %q not registered", parentTag))
		}
		for childTag := range children {
			if _, ok := m.states[childTag]; !ok {
				errs = append(errs, fmt.Sprintf("child combo box %q not registered", childTag))
			}
		}
	}
	return errs
}
