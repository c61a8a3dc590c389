package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/promptstudio/backend/config"
	"github.com/promptstudio/backend/internal/embed"
	"github.com/promptstudio/backend/internal/handler"
)

func Setup(
	cfg *config.Config,
	promptHandler *handler.PromptHandler,
	templateHandler *handler.TemplateHandler,
	chatHandler *handler.ChatHandler,
	conversationHandler *handler.ConversationHandler,
	settingsHandler *handler.SettingsHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")
	{
		prompts := api.Group("/prompts")
		{
			prompts.POST("", promptHandler.Create)
			prompts.GET("", promptHandler.List)
			prompts.GET("/search", promptHandler.Search)
			prompts.GET("/categories", promptHandler.Categories)
			prompts.GET("/:id", promptHandler.Get)
			prompts.PUT("/:id", promptHandler.Update)
			prompts.DELETE("/:id", promptHandler.Delete)
		}

		templates := api.Group("/templates")
		{
			templates.POST("", templateHandler.Save)
			templates.GET("", templateHandler.List)
			templates.GET("/:name", templateHandler.Get)
			templates.PUT("/:name", templateHandler.Update)
			templates.DELETE("/:name", templateHandler.Delete)
			templates.GET("/:name/exists", templateHandler.Exists)
			templates.GET("/:name/linkages", templateHandler.Linkages)
		}

		// 模板文本的无状态操作
		template := api.Group("/template")
		{
			template.POST("/parse", templateHandler.Parse)
			template.POST("/generate", templateHandler.Generate)
			template.POST("/generate-final", templateHandler.GenerateFinal)
			template.POST("/validate", templateHandler.Validate)
		}

		chat := api.Group("/chat")
		{
			chat.POST("/send", chatHandler.Send)
			chat.POST("/estimate-tokens", chatHandler.EstimateTokens)
		}

		api.GET("/models/context-limits", chatHandler.ContextLimits)

		settings := api.Group("/settings")
		{
			settings.GET("/system-prompt", settingsHandler.GetSystemPrompt)
			settings.POST("/system-prompt", settingsHandler.SetSystemPrompt)
			settings.GET("/system-prompt/default", settingsHandler.DefaultSystemPrompt)
		}

		conversations := api.Group("/conversations")
		{
			conversations.POST("", conversationHandler.Save)
			conversations.GET("", conversationHandler.List)
			conversations.GET("/:id", conversationHandler.Get)
			conversations.DELETE("/:id", conversationHandler.Delete)
		}
	}

	// 前端静态文件路由必须在 API 之后注册，确保 API 请求优先匹配
	embed.SetupRouter(r)

	return r
}
