package ai

import (
	"fmt"

	"expenseflow-backend/pkg/gemini"
)

// Config holds static AI provider configuration
type Config struct {
	Provider      ProviderType
	GeminiAPIKey  string
	OllamaBaseURL string
	OllamaModel   string
}

// DynamicConfig holds AI provider configuration with runtime-resolvable
// Ollama settings, so the settings endpoint can change them without a restart
type DynamicConfig struct {
	Provider         ProviderType
	GeminiAPIKey     string
	GetOllamaBaseURL func() string
	GetOllamaModel   func() string
}

// NewClassifier creates a Classifier based on static configuration
func NewClassifier(cfg Config) (Classifier, error) {
	return NewClassifierWithDynamicConfig(DynamicConfig{
		Provider:         cfg.Provider,
		GeminiAPIKey:     cfg.GeminiAPIKey,
		GetOllamaBaseURL: func() string { return cfg.OllamaBaseURL },
		GetOllamaModel:   func() string { return cfg.OllamaModel },
	})
}

// NewClassifierWithDynamicConfig creates a Classifier whose Ollama settings
// are resolved per request
func NewClassifierWithDynamicConfig(cfg DynamicConfig) (Classifier, error) {
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return gemini.NewGeminiService(cfg.GeminiAPIKey), nil

	case ProviderOllama:
		return NewOllamaServiceWithGetters(cfg.GetOllamaBaseURL, cfg.GetOllamaModel), nil

	case ProviderAuto, "":
		ollama := NewOllamaServiceWithGetters(cfg.GetOllamaBaseURL, cfg.GetOllamaModel)
		if cfg.GeminiAPIKey == "" {
			return ollama, nil
		}
		return NewFallbackService(gemini.NewGeminiService(cfg.GeminiAPIKey), ollama), nil

	default:
		return nil, fmt.Errorf("unknown AI provider: %s", cfg.Provider)
	}
}
