package ai

import "context"

// Classifier is the interface for LLM-backed classification calls.
// Implement this interface to add new providers (Gemini, Ollama, OpenAI, etc.)
type Classifier interface {
	// Complete sends a rendered prompt and returns the model's raw text
	// response. Transport and provider errors come back as errors; parsing
	// the response is the caller's job.
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
