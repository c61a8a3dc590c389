package model

import "time"

// Prompt 提示词记录
// id 创建时生成且不可变；modified_at 在文本变更时刷新，恒不早于 created_at
type Prompt struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Text       string    `json:"text"`
	Category   string    `json:"category"` // 默认 "general"
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// UpdateText 更新文本并刷新修改时间
func (p *Prompt) UpdateText(text string) {
	p.Text = text
	p.ModifiedAt = time.Now()
}
