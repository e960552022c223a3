package repository

import (
	"time"

	"expenseflow-backend/internal/expense/domain"

	"github.com/shopspring/decimal"
)

// ExpenseFilter narrows expense queries
type ExpenseFilter struct {
	UserID   string
	Category string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// CategoryTotal is one row of a spend summary
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int64           `json:"count"`
}

// MonthTotal is spend aggregated over one calendar month (YYYY-MM)
type MonthTotal struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// PaymentMethodTotal is spend aggregated over one payment method
type PaymentMethodTotal struct {
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	Count         int64           `json:"count"`
}

// ExpenseSummary aggregates a user's spend over a period
type ExpenseSummary struct {
	TotalAmount     decimal.Decimal      `json:"total_amount"`
	Count           int64                `json:"count"`
	ByCategory      []CategoryTotal      `json:"by_category"`
	ByMonth         []MonthTotal         `json:"by_month"`
	ByPaymentMethod []PaymentMethodTotal `json:"by_payment_method"`
}

// ExpenseRepository defines the interface for expense data access
type ExpenseRepository interface {
	// InsertIfAbsent inserts the expense unless one already exists for its
	// email_source. Returns true when the row was inserted, false when a
	// duplicate was suppressed.
	InsertIfAbsent(expense *domain.ExpenseRecord) (bool, error)

	// FindByEmailSource finds the expense persisted for an email, if any
	FindByEmailSource(emailSource string) (*domain.ExpenseRecord, error)

	// List returns expenses matching the filter, newest transaction first
	List(filter ExpenseFilter) ([]*domain.ExpenseRecord, int64, error)

	// Summarize aggregates matching expenses by category, month and
	// payment method
	Summarize(filter ExpenseFilter) (*ExpenseSummary, error)
}

// ProcessingLogRepository defines the interface for the append-only audit log
type ProcessingLogRepository interface {
	// Create appends a new log entry. Entries are never updated.
	Create(entry *domain.ProcessingLogEntry) error

	// FindByEmailMessageID returns every attempt for an email, oldest first
	FindByEmailMessageID(emailMessageID string) ([]*domain.ProcessingLogEntry, error)

	// FindByUserID returns a user's recent entries with pagination
	FindByUserID(userID string, limit, offset int) ([]*domain.ProcessingLogEntry, int64, error)

	// HasCompleted reports whether any attempt for this email already
	// reached the completed status
	HasCompleted(emailMessageID string) (bool, error)
}
