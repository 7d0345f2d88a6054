package factory

import (
	"fmt"
	"strings"

	"bayan-ai-be/pkg/llm"
	"bayan-ai-be/pkg/llm/ollama"
	"bayan-ai-be/pkg/llm/openai"
)

// Config selects and parameterises an LLM backend
type Config struct {
	Provider string // ollama, openai
	Model    string
	BaseURL  string
	APIKey   string
}

func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "ollama":
		return ollama.NewOllamaProvider(cfg.BaseURL, cfg.Model), nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return openai.NewProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
