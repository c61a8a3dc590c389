package config

import (
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	LLM    LLMConfig    `yaml:"llm"`
	Data   DataConfig   `yaml:"data"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release
}

type LLMConfig struct {
	APIURL    string `yaml:"api_url"`
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

type DataConfig struct {
	Dir               string `yaml:"dir"`
	PromptsFile       string `yaml:"prompts_file"`
	TemplatesFile     string `yaml:"templates_file"`
	ConversationsFile string `yaml:"conversations_file"`
}

var (
	cfg  *Config
	once sync.Once
)

func GetConfig() *Config {
	once.Do(func() {
		cfg = loadConfig()
	})
	return cfg
}

func loadConfig() *Config {
	config := &Config{
		Server: ServerConfig{
			Port: "8080",
			Mode: "debug",
		},
		LLM: LLMConfig{
			APIURL:    "https://api.openai.com/v1",
			Model:     "gpt-3.5-turbo",
			MaxTokens: 4096,
		},
		Data: DataConfig{
			Dir: "./data",
		},
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err == nil {
		yaml.Unmarshal(data, config)
	}

	// 环境变量优先级高于配置文件
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.LLM.APIURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL_NAME"); model != "" {
		config.LLM.Model = model
	}

	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		config.Data.Dir = dataDir
	}
	if port := os.Getenv("PORT"); port != "" {
		config.Server.Port = port
	}

	// 三个数据文件默认都放在数据目录下
	if config.Data.PromptsFile == "" {
		config.Data.PromptsFile = filepath.Join(config.Data.Dir, "prompts.json")
	}
	if config.Data.TemplatesFile == "" {
		config.Data.TemplatesFile = filepath.Join(config.Data.Dir, "templates.json")
	}
	if config.Data.ConversationsFile == "" {
		config.Data.ConversationsFile = filepath.Join(config.Data.Dir, "conversations.json")
	}

	return config
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func UpdateConfig(newCfg *Config) {
	cfg = newCfg
}
