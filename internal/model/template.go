package model

import "time"

// Template 提示词模板
// name 是全局唯一键，创建后不可改名；template_text 中的 [tag] 必须括号配对且非空
type Template struct {
	Name           string                         `json:"name"`
	Description    string                         `json:"description"`
	TemplateText   string                         `json:"template_text"`
	ComboBoxValues map[string][]string            `json:"combo_box_values"` // tag -> 候选项（有序）
	LinkageData    map[string]map[string][]string `json:"linkage_data"`     // parent -> child -> 选项列表
	CreatedAt      time.Time                      `json:"created_at"`
	UpdatedAt      time.Time                      `json:"updated_at"`
}
