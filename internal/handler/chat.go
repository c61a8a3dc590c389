package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptstudio/backend/internal/model"
	"github.com/promptstudio/backend/internal/pkg/tokens"
	"github.com/promptstudio/backend/internal/service"
)

type ChatHandler struct {
	service service.ChatService
}

// NewChatHandler 创建对话处理器
func NewChatHandler(service service.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// Send 发送对话消息
func (h *ChatHandler) Send(c *gin.Context) {
	var req service.SendChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Send(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// EstimateTokens 估算 token 用量
func (h *ChatHandler) EstimateTokens(c *gin.Context) {
	var req struct {
		Message string              `json:"message"`
		History []model.ChatMessage `json:"history"`
		Model   string              `json:"model"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	total := h.service.EstimateTokens(req.Message, req.History)
	c.JSON(http.StatusOK, gin.H{
		"estimated_tokens": total,
		"context_limit":    tokens.ContextLimit(req.Model),
		"percentage":       tokens.UsagePercentage(total, req.Model),
	})
}

// ContextLimits 各模型上下文上限
func (h *ChatHandler) ContextLimits(c *gin.Context) {
	c.JSON(http.StatusOK, tokens.ModelLimits())
}
