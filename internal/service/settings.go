package service

import "sync"

// DefaultSystemPrompt 未配置时使用的系统提示词
const DefaultSystemPrompt = "You are a helpful assistant."

// SettingsService 进程内设置，生命周期从启动到退出
type SettingsService struct {
	mu           sync.RWMutex
	systemPrompt string
}

// NewSettingsService 创建设置服务
func NewSettingsService() *SettingsService {
	return &SettingsService{systemPrompt: DefaultSystemPrompt}
}

// SystemPrompt 当前系统提示词
func (s *SettingsService) SystemPrompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.systemPrompt
}

// SetSystemPrompt 更新系统提示词，空串恢复默认
func (s *SettingsService) SetSystemPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}
	s.systemPrompt = prompt
}
