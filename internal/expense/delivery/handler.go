package delivery

import (
	"net/http"
	"strconv"
	"time"

	"expenseflow-backend/internal/expense/domain"
	"expenseflow-backend/internal/expense/repository"
	"expenseflow-backend/internal/expense/usecase"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler handles expense pipeline HTTP requests
type ExpenseHandler struct {
	expenseUsecase usecase.ExpenseUsecase
	workers        *usecase.WorkerService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseUsecase usecase.ExpenseUsecase, workers *usecase.WorkerService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseUsecase: expenseUsecase,
		workers:        workers,
	}
}

// IngestEmailRequest represents one email submitted for processing
type IngestEmailRequest struct {
	MessageID  string `json:"message_id" binding:"required"`
	Subject    string `json:"subject"`
	Sender     string `json:"sender"`
	Body       string `json:"body" binding:"required"`
	ReceivedAt string `json:"received_at"`
}

func (r *IngestEmailRequest) toDomain(userID string) domain.EmailMessage {
	received := time.Now()
	if r.ReceivedAt != "" {
		if t, err := time.Parse(time.RFC3339, r.ReceivedAt); err == nil {
			received = t
		}
	}
	return domain.EmailMessage{
		MessageID:  r.MessageID,
		UserID:     userID,
		Subject:    r.Subject,
		Sender:     r.Sender,
		Body:       r.Body,
		ReceivedAt: received,
	}
}

// IngestEmail processes one email synchronously and returns the outcome
// POST /api/emails/ingest
func (h *ExpenseHandler) IngestEmail(c *gin.Context) {
	userID := c.GetString("userID")

	var req IngestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.expenseUsecase.ProcessEmail(c.Request.Context(), req.toDomain(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if result.Status == domain.StatusCompleted && !result.Duplicate {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

// IngestBatch queues emails for background processing
// POST /api/emails/ingest/batch
func (h *ExpenseHandler) IngestBatch(c *gin.Context) {
	userID := c.GetString("userID")

	var req struct {
		Emails []IngestEmailRequest `json:"emails" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	queued := 0
	rejected := make([]string, 0)
	for _, item := range req.Emails {
		if item.MessageID == "" || item.Body == "" {
			rejected = append(rejected, item.MessageID)
			continue
		}
		if h.workers.Enqueue(item.toDomain(userID)) {
			queued++
		} else {
			rejected = append(rejected, item.MessageID)
		}
	}

	c.JSON(http.StatusAccepted, gin.H{
		"queued":   queued,
		"rejected": rejected,
	})
}

// GetExpenses returns the authenticated user's expenses
// GET /api/expenses?category=food_dining&from=2026-01-01&to=2026-01-31&limit=50&offset=0
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	filter, err := h.filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expenses, total, err := h.expenseUsecase.ListExpenses(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"expenses": expenses,
		"total":    total,
	})
}

// GetExpenseSummary returns spend totals grouped by category, month and
// payment method
// GET /api/expenses/summary?from=2026-01-01&to=2026-01-31
func (h *ExpenseHandler) GetExpenseSummary(c *gin.Context) {
	filter, err := h.filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.expenseUsecase.SummarizeExpenses(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetLogs returns the user's processing log entries
// GET /api/logs?limit=50&offset=0
func (h *ExpenseHandler) GetLogs(c *gin.Context) {
	userID := c.GetString("userID")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, total, err := h.expenseUsecase.ListLogs(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  entries,
		"total": total,
	})
}

// GetLogsForEmail returns every processing attempt for one email
// GET /api/logs/:emailId
func (h *ExpenseHandler) GetLogsForEmail(c *gin.Context) {
	emailID := c.Param("emailId")

	entries, err := h.expenseUsecase.LogsForEmail(emailID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": entries})
}

func (h *ExpenseHandler) filterFromQuery(c *gin.Context) (repository.ExpenseFilter, error) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := repository.ExpenseFilter{
		UserID:   c.GetString("userID"),
		Category: c.Query("category"),
		Limit:    limit,
		Offset:   offset,
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return filter, err
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return filter, err
		}
		// Inclusive end of day
		t = t.Add(24*time.Hour - time.Nanosecond)
		filter.To = &t
	}

	return filter, nil
}
