package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptstudio/backend/internal/service"
)

type PromptHandler struct {
	service service.PromptService
}

// NewPromptHandler 创建提示词处理器
func NewPromptHandler(service service.PromptService) *PromptHandler {
	return &PromptHandler{service: service}
}

// Create 创建提示词
func (h *PromptHandler) Create(c *gin.Context) {
	var req service.CreatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prompt, fieldErrs := h.service.Create(req)
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fieldErrs})
		return
	}

	c.JSON(http.StatusCreated, prompt)
}

// List 列出提示词，支持 ?category= 过滤
func (h *PromptHandler) List(c *gin.Context) {
	prompts := h.service.List(c.Query("category"))
	c.JSON(http.StatusOK, prompts)
}

// Get 按 id 获取提示词
func (h *PromptHandler) Get(c *gin.Context) {
	prompt, err := h.service.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "prompt not found"})
		return
	}

	c.JSON(http.StatusOK, prompt)
}

// Update 部分更新提示词
func (h *PromptHandler) Update(c *gin.Context) {
	var req service.UpdatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prompt, fieldErrs, err := h.service.Update(c.Param("id"), req)
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fieldErrs})
		return
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "prompt not found"})
		return
	}

	c.JSON(http.StatusOK, prompt)
}

// Delete 删除提示词
func (h *PromptHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "prompt not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "prompt deleted"})
}

// Search 按关键词搜索提示词
func (h *PromptHandler) Search(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Search(c.Query("q")))
}

// Categories 列出全部分类
func (h *PromptHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Categories())
}
