package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptstudio/backend/internal/service"
)

type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler 创建设置处理器
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSystemPrompt 获取当前 system prompt
func (h *SettingsHandler) GetSystemPrompt(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"system_prompt": h.settings.SystemPrompt()})
}

// SetSystemPrompt 设置 system prompt，空值恢复默认
func (h *SettingsHandler) SetSystemPrompt(c *gin.Context) {
	var req struct {
		SystemPrompt string `json:"system_prompt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.settings.SetSystemPrompt(req.SystemPrompt)
	c.JSON(http.StatusOK, gin.H{"system_prompt": h.settings.SystemPrompt()})
}

// DefaultSystemPrompt 获取默认 system prompt
func (h *SettingsHandler) DefaultSystemPrompt(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"system_prompt": service.DefaultSystemPrompt})
}
