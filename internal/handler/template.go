package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptstudio/backend/internal/service"
)

type TemplateHandler struct {
	service service.TemplateService
}

// NewTemplateHandler 创建模板处理器
func NewTemplateHandler(service service.TemplateService) *TemplateHandler {
	return &TemplateHandler{service: service}
}

// Save 保存模板
func (h *TemplateHandler) Save(c *gin.Context) {
	var req service.SaveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tmpl, err := h.service.Save(req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTemplateExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrMalformedTemplate):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, tmpl)
}

// List 列出全部模板
func (h *TemplateHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.List())
}

// Get 按名称获取模板
func (h *TemplateHandler) Get(c *gin.Context) {
	tmpl, err := h.service.Get(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}

	c.JSON(http.StatusOK, tmpl)
}

// Update 更新模板
func (h *TemplateHandler) Update(c *gin.Context) {
	var req service.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tmpl, err := h.service.Update(c.Param("name"), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTemplateNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		case errors.Is(err, service.ErrMalformedTemplate):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, tmpl)
}

// Delete 删除模板
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("name")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "template deleted"})
}

// Exists 模板是否存在
func (h *TemplateHandler) Exists(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"exists": h.service.Exists(c.Param("name"))})
}

// Linkages 获取模板的联动恢复链与完整性报告
func (h *TemplateHandler) Linkages(c *gin.Context) {
	report, err := h.service.Linkages(c.Param("name"))
	if err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// Parse 提取模板文本中的变量
func (h *TemplateHandler) Parse(c *gin.Context) {
	var req struct {
		Template string `json:"template" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"variables": h.service.Parse(req.Template)})
}

// Generate 为模板文本生成下拉框配置
func (h *TemplateHandler) Generate(c *gin.Context) {
	var req struct {
		Template string `json:"template" binding:"required"`
		EditMode bool   `json:"edit_mode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Generate(req.Template, req.EditMode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GenerateFinal 用选值渲染最终提示词
func (h *TemplateHandler) GenerateFinal(c *gin.Context) {
	var req struct {
		Template   string            `json:"template" binding:"required"`
		Selections map[string]string `json:"selections"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"prompt": h.service.RenderFinal(req.Template, req.Selections)})
}

// Validate 校验模板文本
func (h *TemplateHandler) Validate(c *gin.Context) {
	var req struct {
		Template string `json:"template" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.service.Validate(req.Template))
}
