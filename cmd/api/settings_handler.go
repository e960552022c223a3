package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// SettingsHandler serves runtime-adjustable model settings. The getter
// methods feed the AI provider factory, so updates apply on the next
// model call without a restart.
type SettingsHandler struct {
	mu            sync.RWMutex
	ollamaBaseURL string
	ollamaModel   string
}

// NewSettingsHandler seeds the runtime settings from static config
func NewSettingsHandler(ollamaBaseURL, ollamaModel string) *SettingsHandler {
	return &SettingsHandler{
		ollamaBaseURL: ollamaBaseURL,
		ollamaModel:   ollamaModel,
	}
}

// OllamaBaseURL returns the current Ollama base URL
func (h *SettingsHandler) OllamaBaseURL() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ollamaBaseURL
}

// OllamaModel returns the current Ollama model name
func (h *SettingsHandler) OllamaModel() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ollamaModel
}

// UpdateOllamaSettingsRequest represents the request body for updating Ollama settings
type UpdateOllamaSettingsRequest struct {
	OllamaBaseURL string `json:"ollama_base_url" binding:"required"`
	OllamaModel   string `json:"ollama_model,omitempty"`
}

// GetOllamaSettings returns current Ollama configuration
// GET /api/settings/ollama
func (h *SettingsHandler) GetOllamaSettings(c *gin.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"ollama_base_url": h.ollamaBaseURL,
		"ollama_model":    h.ollamaModel,
	})
}

// UpdateOllamaSettings updates Ollama configuration at runtime
// PUT /api/settings/ollama
func (h *SettingsHandler) UpdateOllamaSettings(c *gin.Context) {
	var req UpdateOllamaSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	h.ollamaBaseURL = req.OllamaBaseURL
	if req.OllamaModel != "" {
		h.ollamaModel = req.OllamaModel
	}
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"message":         "Ollama settings updated successfully",
		"ollama_base_url": h.OllamaBaseURL(),
		"ollama_model":    h.OllamaModel(),
	})
}

// TestOllamaConnection tests if the Ollama server is reachable
// POST /api/settings/ollama/test
func (h *SettingsHandler) TestOllamaConnection(c *gin.Context) {
	var req struct {
		OllamaBaseURL string `json:"ollama_base_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		// If no body provided, use current config
		req.OllamaBaseURL = h.OllamaBaseURL()
	}
	if req.OllamaBaseURL == "" {
		req.OllamaBaseURL = h.OllamaBaseURL()
	}

	resp, err := http.Get(req.OllamaBaseURL + "/api/tags")
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected": false,
			"error":     err.Error(),
		})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected":   false,
			"status_code": resp.StatusCode,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":       true,
		"ollama_base_url": req.OllamaBaseURL,
	})
}
