package usecase

import (
	"context"

	"expenseflow-backend/internal/expense/domain"
	"expenseflow-backend/internal/expense/repository"
)

// ProcessResult is the outcome of processing one email
type ProcessResult struct {
	Status    domain.ProcessingStatus `json:"status"`
	Duplicate bool                    `json:"duplicate"`
	Detection *domain.DetectionResult `json:"detection,omitempty"`
	Expense   *domain.ExpenseRecord   `json:"expense,omitempty"`
}

// DedupFilter is an optional fast-path duplicate check in front of the
// database. It is advisory only; the unique index on email_source remains the
// idempotency authority.
type DedupFilter interface {
	// FirstSeen marks the key as seen and reports whether this call was the
	// first to see it
	FirstSeen(ctx context.Context, key string) (bool, error)
}

// ExpenseUsecase defines the expense pipeline business logic interface
type ExpenseUsecase interface {
	// ProcessEmail runs the full pipeline for one email. It records exactly
	// one terminal processing log entry per attempt; an error return means
	// even the audit log could not be written.
	ProcessEmail(ctx context.Context, email domain.EmailMessage) (*ProcessResult, error)

	// ListExpenses returns persisted expenses matching the filter
	ListExpenses(filter repository.ExpenseFilter) ([]*domain.ExpenseRecord, int64, error)

	// SummarizeExpenses aggregates matching expenses by category
	SummarizeExpenses(filter repository.ExpenseFilter) (*repository.ExpenseSummary, error)

	// ListLogs returns a user's processing log entries, newest first
	ListLogs(userID string, limit, offset int) ([]*domain.ProcessingLogEntry, int64, error)

	// LogsForEmail returns every processing attempt for one email
	LogsForEmail(emailMessageID string) ([]*domain.ProcessingLogEntry, error)
}
