package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"k8s.io/klog/v2"

	"github.com/promptstudio/backend/config"
	"github.com/promptstudio/backend/internal/handler"
	"github.com/promptstudio/backend/internal/model"
	"github.com/promptstudio/backend/internal/pkg/llm"
	"github.com/promptstudio/backend/internal/repository"
	"github.com/promptstudio/backend/internal/router"
	"github.com/promptstudio/backend/internal/service"
	"github.com/promptstudio/backend/internal/storage"
)

func main() {
	// .env 存在时加载，环境变量优先于配置文件
	godotenv.Load()

	// 初始化 klog
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	klog.V(6).Info("服务启动中...")

	cfg := config.GetConfig()

	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// 初始化 Store
	promptStore := storage.NewStore[model.Prompt](cfg.Data.PromptsFile, "prompts")
	templateStore := storage.NewStore[model.Template](cfg.Data.TemplatesFile, "")
	conversationStore := storage.NewStore[model.Conversation](cfg.Data.ConversationsFile, "")

	// 初始化 Repository
	promptRepo := repository.NewPromptRepository(promptStore)
	templateRepo := repository.NewTemplateRepository(templateStore)
	conversationRepo := repository.NewConversationRepository(conversationStore)

	// 初始化 LLM 客户端
	llmClient := llm.NewClient(cfg.LLM.APIURL, cfg.LLM.APIKey, cfg.LLM.MaxTokens)

	// 初始化 Service
	settingsService := service.NewSettingsService()
	promptService := service.NewPromptService(promptRepo)
	templateService := service.NewTemplateService(templateRepo)
	chatService := service.NewChatService(llmClient, settingsService, cfg.LLM.Model)
	conversationService := service.NewConversationService(conversationRepo)

	// 初始化 Handler
	promptHandler := handler.NewPromptHandler(promptService)
	templateHandler := handler.NewTemplateHandler(templateService)
	chatHandler := handler.NewChatHandler(chatService)
	conversationHandler := handler.NewConversationHandler(conversationService)
	settingsHandler := handler.NewSettingsHandler(settingsService)

	// 设置路由
	r := router.Setup(cfg, promptHandler, templateHandler, chatHandler, conversationHandler, settingsHandler)

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
