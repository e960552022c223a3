package api

import (
	"net/http"

	authDelivery "expenseflow-backend/internal/auth/delivery"
	expenseDelivery "expenseflow-backend/internal/expense/delivery"
	"expenseflow-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config, expenseHandler *expenseDelivery.ExpenseHandler, adminHandler *expenseDelivery.AdminHandler, settingsHandler *SettingsHandler) {
	authRequired := authDelivery.AuthMiddleware(cfg.JWTSecret)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Email ingestion (protected)
		emails := api.Group("/emails")
		emails.Use(authRequired)
		{
			emails.POST("/ingest", expenseHandler.IngestEmail)
			emails.POST("/ingest/batch", expenseHandler.IngestBatch)
		}

		// Expense queries (protected)
		expenses := api.Group("/expenses")
		expenses.Use(authRequired)
		{
			expenses.GET("", expenseHandler.GetExpenses)
			expenses.GET("/summary", expenseHandler.GetExpenseSummary)
		}

		// Processing audit log (protected)
		logs := api.Group("/logs")
		logs.Use(authRequired)
		{
			logs.GET("", expenseHandler.GetLogs)
			logs.GET("/:emailId", expenseHandler.GetLogsForEmail)
		}

		// Prompt and taxonomy management (protected)
		promptsGroup := api.Group("/prompts")
		promptsGroup.Use(authRequired)
		{
			promptsGroup.GET("", adminHandler.ListPrompts)
			promptsGroup.GET("/:type", adminHandler.GetPrompt)
			promptsGroup.POST("/reload", adminHandler.ReloadPrompts)
		}

		taxonomyGroup := api.Group("/taxonomy")
		taxonomyGroup.Use(authRequired)
		{
			taxonomyGroup.GET("", adminHandler.GetTaxonomy)
			taxonomyGroup.POST("/reload", adminHandler.ReloadTaxonomy)
		}

		// Runtime settings (protected)
		settings := api.Group("/settings")
		settings.Use(authRequired)
		{
			settings.GET("/ollama", settingsHandler.GetOllamaSettings)
			settings.PUT("/ollama", settingsHandler.UpdateOllamaSettings)
			settings.POST("/ollama/test", settingsHandler.TestOllamaConnection)
		}
	}
}
