package api

import (
	expenseDelivery "expenseflow-backend/internal/expense/delivery"
	"expenseflow-backend/internal/expense/taxonomy"
	expenseUsecasePkg "expenseflow-backend/internal/expense/usecase"
	"expenseflow-backend/pkg/config"
	"expenseflow-backend/pkg/prompts"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	config          *config.Config
	expenseHandler  *expenseDelivery.ExpenseHandler
	adminHandler    *expenseDelivery.AdminHandler
	settingsHandler *SettingsHandler
}

// NewHandler wires the HTTP surface around the pipeline services
func NewHandler(
	cfg *config.Config,
	expenseUc expenseUsecasePkg.ExpenseUsecase,
	workers *expenseUsecasePkg.WorkerService,
	promptStore *prompts.Store,
	taxStore *taxonomy.Store,
	settingsHandler *SettingsHandler,
) *Handler {
	return &Handler{
		config:          cfg,
		expenseHandler:  expenseDelivery.NewExpenseHandler(expenseUc, workers),
		adminHandler:    expenseDelivery.NewAdminHandler(promptStore, taxStore),
		settingsHandler: settingsHandler,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.config, h.expenseHandler, h.adminHandler, h.settingsHandler)

	return r.Run(addr)
}
