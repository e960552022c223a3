package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// FallbackService tries Gemini first and falls back to Ollama when Gemini is
// unreachable or out of quota
type FallbackService struct {
	gemini Classifier
	ollama Classifier
}

// NewFallbackService creates a service with Gemini primary and Ollama fallback
func NewFallbackService(gemini, ollama Classifier) *FallbackService {
	return &FallbackService{
		gemini: gemini,
		ollama: ollama,
	}
}

// Complete implements Classifier with automatic fallback
func (f *FallbackService) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := f.gemini.Complete(ctx, prompt)
	if err == nil {
		return resp, nil
	}

	if !isConnectionError(err) && !isQuotaError(err) {
		return "", err
	}

	log.Printf("[AI Fallback] Gemini unavailable (%v), falling back to Ollama", err)

	resp, ollamaErr := f.ollama.Complete(ctx, prompt)
	if ollamaErr != nil {
		return "", fmt.Errorf("both providers failed: gemini: %v, ollama: %w", err, ollamaErr)
	}
	return resp, nil
}

// isConnectionError checks if the error is a network/connection issue
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "eof")
}

// isQuotaError checks if the error indicates rate limiting or quota exhaustion
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "resource_exhausted") ||
		strings.Contains(errStr, "503")
}
