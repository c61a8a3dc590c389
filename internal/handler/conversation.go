package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptstudio/backend/internal/model"
	"github.com/promptstudio/backend/internal/service"
)

type ConversationHandler struct {
	service service.ConversationService
}

// NewConversationHandler 创建对话记录处理器
func NewConversationHandler(service service.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// Save 保存对话（按 id upsert）
func (h *ConversationHandler) Save(c *gin.Context) {
	var conv model.Conversation
	if err := c.ShouldBindJSON(&conv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.service.Save(conv)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, saved)
}

// List 列出对话摘要，支持 ?sort=date|title 和 ?q= 搜索
func (h *ConversationHandler) List(c *gin.Context) {
	if q := c.Query("q"); q != "" {
		c.JSON(http.StatusOK, h.service.Search(q))
		return
	}

	c.JSON(http.StatusOK, h.service.List(c.Query("sort")))
}

// Get 按 id 获取完整对话
func (h *ConversationHandler) Get(c *gin.Context) {
	conv, err := h.service.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}

	c.JSON(http.StatusOK, conv)
}

// Delete 删除对话
func (h *ConversationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "conversation deleted"})
}
