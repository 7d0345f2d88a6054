package embedding

import (
	"fmt"
	"strings"
)

// FactoryConfig selects and parameterises an embedding backend
type FactoryConfig struct {
	Provider   string // ollama, openai
	Model      string
	BaseURL    string
	APIKey     string
	Dimensions int
}

func NewEmbeddingProvider(cfg FactoryConfig) (EmbeddingProvider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "ollama":
		return NewOllamaProvider(cfg.BaseURL, cfg.Model), nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai embedding provider requires an API key")
		}
		return NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
