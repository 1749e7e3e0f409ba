package config

import (
	"os"
	"strconv"
)

// Workflow constants fixed by the collaborators' contracts.
const (
	// MaxPages is the page-count ceiling for one uploaded document.
	MaxPages = 32
	// RenderDPI is the resolution every page is rasterized at.
	RenderDPI = 100
	// SignedURLTTL is the validity window of every signed URL, in seconds.
	SignedURLTTL = 60
)

type Config struct {
	Environment string
	Port        string
	LogLevel    string
	Storage     StorageConfig
	OpenAI      OpenAIConfig
}

type StorageConfig struct {
	URL        string
	Key        string
	BucketName string
}

type OpenAIConfig struct {
	Model     string
	MaxTokens int
}

func Load() *Config {
	maxTokens, _ := strconv.Atoi(getEnv("OPENAI_MAX_TOKENS", "1200"))

	return &Config{
		Environment: getEnv("ENV", "development"),
		Port:        getEnv("PORT", "3000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Storage: StorageConfig{
			URL:        getEnv("STORAGE_URL", ""),
			Key:        getEnv("STORAGE_KEY", ""),
			BucketName: getEnv("STORAGE_BUCKET_NAME", ""),
		},
		OpenAI: OpenAIConfig{
			Model:     getEnv("OPENAI_MODEL", "gpt-4-vision-preview"),
			MaxTokens: maxTokens,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
