package delivery

import (
	"net/http"

	"expenseflow-backend/internal/expense/taxonomy"
	"expenseflow-backend/pkg/prompts"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes prompt and taxonomy management endpoints
type AdminHandler struct {
	prompts  *prompts.Store
	taxonomy *taxonomy.Store
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(promptStore *prompts.Store, taxStore *taxonomy.Store) *AdminHandler {
	return &AdminHandler{prompts: promptStore, taxonomy: taxStore}
}

// ListPrompts returns metadata for every loaded prompt template
// GET /api/prompts
func (h *AdminHandler) ListPrompts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"prompts": h.prompts.List()})
}

// GetPrompt returns one prompt template with its content
// GET /api/prompts/:type
func (h *AdminHandler) GetPrompt(c *gin.Context) {
	promptType := c.Param("type")

	content, err := h.prompts.Get(promptType)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	info := h.prompts.GetInfo(promptType)
	c.JSON(http.StatusOK, gin.H{
		"type":    promptType,
		"version": info.Version,
		"content": content,
	})
}

// ReloadPrompts re-reads prompt templates from disk
// POST /api/prompts/reload
func (h *AdminHandler) ReloadPrompts(c *gin.Context) {
	h.prompts.Reload()
	c.JSON(http.StatusOK, gin.H{
		"message": "prompts reloaded",
		"prompts": h.prompts.List(),
	})
}

// GetTaxonomy returns the active category and payment-method vocabulary
// GET /api/taxonomy
func (h *AdminHandler) GetTaxonomy(c *gin.Context) {
	c.JSON(http.StatusOK, h.taxonomy.Current())
}

// ReloadTaxonomy re-reads the taxonomy file
// POST /api/taxonomy/reload
func (h *AdminHandler) ReloadTaxonomy(c *gin.Context) {
	if err := h.taxonomy.Reload(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "taxonomy reloaded",
		"version": h.taxonomy.Current().Version,
	})
}
