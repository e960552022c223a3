package usecase

import (
	"context"
	"errors"
	"testing"

	"expenseflow-backend/internal/expense/domain"
	"expenseflow-backend/internal/expense/repository"
	"expenseflow-backend/internal/expense/taxonomy"
	"expenseflow-backend/pkg/currency"
	"expenseflow-backend/pkg/prompts"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExpenseRepo is an in-memory ExpenseRepository keyed by email_source
type fakeExpenseRepo struct {
	bySource  map[string]*domain.ExpenseRecord
	insertErr error
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{bySource: make(map[string]*domain.ExpenseRecord)}
}

func (r *fakeExpenseRepo) InsertIfAbsent(expense *domain.ExpenseRecord) (bool, error) {
	if r.insertErr != nil {
		return false, r.insertErr
	}
	if _, ok := r.bySource[expense.EmailSource]; ok {
		return false, nil
	}
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	r.bySource[expense.EmailSource] = expense
	return true, nil
}

func (r *fakeExpenseRepo) FindByEmailSource(emailSource string) (*domain.ExpenseRecord, error) {
	return r.bySource[emailSource], nil
}

func (r *fakeExpenseRepo) List(_ repository.ExpenseFilter) ([]*domain.ExpenseRecord, int64, error) {
	out := make([]*domain.ExpenseRecord, 0, len(r.bySource))
	for _, e := range r.bySource {
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *fakeExpenseRepo) Summarize(_ repository.ExpenseFilter) (*repository.ExpenseSummary, error) {
	summary := &repository.ExpenseSummary{}
	byCategory := make(map[string]*repository.CategoryTotal)
	byMonth := make(map[string]*repository.MonthTotal)
	byPayment := make(map[string]*repository.PaymentMethodTotal)

	for _, e := range r.bySource {
		summary.TotalAmount = summary.TotalAmount.Add(e.Amount)
		summary.Count++

		if row, ok := byCategory[e.Category]; ok {
			row.Total = row.Total.Add(e.Amount)
			row.Count++
		} else {
			byCategory[e.Category] = &repository.CategoryTotal{Category: e.Category, Total: e.Amount, Count: 1}
		}

		month := e.TransactionDate.Format("2006-01")
		if row, ok := byMonth[month]; ok {
			row.Total = row.Total.Add(e.Amount)
			row.Count++
		} else {
			byMonth[month] = &repository.MonthTotal{Month: month, Total: e.Amount, Count: 1}
		}

		if row, ok := byPayment[e.PaymentMethod]; ok {
			row.Total = row.Total.Add(e.Amount)
			row.Count++
		} else {
			byPayment[e.PaymentMethod] = &repository.PaymentMethodTotal{PaymentMethod: e.PaymentMethod, Total: e.Amount, Count: 1}
		}
	}

	for _, row := range byCategory {
		summary.ByCategory = append(summary.ByCategory, *row)
	}
	for _, row := range byMonth {
		summary.ByMonth = append(summary.ByMonth, *row)
	}
	for _, row := range byPayment {
		summary.ByPaymentMethod = append(summary.ByPaymentMethod, *row)
	}
	return summary, nil
}

// fakeLogRepo records appended entries
type fakeLogRepo struct {
	entries   []*domain.ProcessingLogEntry
	createErr error
}

func (r *fakeLogRepo) Create(entry *domain.ProcessingLogEntry) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeLogRepo) FindByEmailMessageID(id string) ([]*domain.ProcessingLogEntry, error) {
	var out []*domain.ProcessingLogEntry
	for _, e := range r.entries {
		if e.EmailMessageID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeLogRepo) FindByUserID(userID string, _, _ int) ([]*domain.ProcessingLogEntry, int64, error) {
	var out []*domain.ProcessingLogEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeLogRepo) HasCompleted(id string) (bool, error) {
	for _, e := range r.entries {
		if e.EmailMessageID == id && e.Status == domain.StatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

const (
	detectYes = `{"is_transaction": true, "confidence": 0.9, "transaction_type": "expense", "indicators": ["amount"], "reasoning": "payment"}`
	detectNo  = `{"is_transaction": false, "confidence": 0.85, "transaction_type": "unknown", "indicators": [], "reasoning": "promo"}`
	extractOK = `{"amount": 250, "currency": "INR", "description": "Lunch", "category": "food_dining", "merchant": "Swiggy", "transaction_date": "2026-08-10", "payment_method": "upi", "confidence_score": 0.9}`
)

type pipelineFixture struct {
	usecase  ExpenseUsecase
	expenses *fakeExpenseRepo
	logs     *fakeLogRepo
}

func newPipeline(t *testing.T, classifier *scriptedClassifier, dedup DedupFilter) *pipelineFixture {
	t.Helper()

	taxStore, err := taxonomy.NewStore("")
	require.NoError(t, err)

	expenses := newFakeExpenseRepo()
	logs := &fakeLogRepo{}

	uc := NewExpenseUsecase(
		classifier,
		prompts.NewStore(""),
		taxStore,
		currency.NewConverter(),
		expenses,
		logs,
		dedup,
		PipelineConfig{},
		zerolog.Nop(),
	)
	return &pipelineFixture{usecase: uc, expenses: expenses, logs: logs}
}

func TestProcessEmailCompletes(t *testing.T) {
	f := newPipeline(t, &scriptedClassifier{responses: []string{detectYes, extractOK}}, nil)

	result, err := f.usecase.ProcessEmail(context.Background(), testEmail())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, result.Status)
	assert.False(t, result.Duplicate)
	require.NotNil(t, result.Expense)
	assert.Equal(t, "food_dining", result.Expense.Category)
	assert.Equal(t, "msg-123", result.Expense.EmailSource)

	// Exactly one terminal log entry
	require.Len(t, f.logs.entries, 1)
	assert.Equal(t, domain.StatusCompleted, f.logs.entries[0].Status)
	assert.Equal(t, "msg-123", f.logs.entries[0].EmailMessageID)
	assert.NotEmpty(t, f.logs.entries[0].LLMResponse)
}

func TestProcessEmailSkipsNonTransaction(t *testing.T) {
	f := newPipeline(t, &scriptedClassifier{responses: []string{detectNo}}, nil)

	result, err := f.usecase.ProcessEmail(context.Background(), testEmail())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSkipped, result.Status)
	assert.Nil(t, result.Expense)

	// No expense row, one skipped log entry
	assert.Empty(t, f.expenses.bySource)
	require.Len(t, f.logs.entries, 1)
	assert.Equal(t, domain.StatusSkipped, f.logs.entries[0].Status)
}

func TestProcessEmailFailsOnMalformedDetection(t *testing.T) {
	f := newPipeline(t, &scriptedClassifier{responses: []string{"not json at all"}}, nil)

	result, err := f.usecase.ProcessEmail(context.Background(), testEmail())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFailed, result.Status)
	require.Len(t, f.logs.entries, 1)
	assert.Equal(t, domain.StatusFailed, f.logs.entries[0].Status)
	assert.NotEmpty(t, f.logs.entries[0].ErrorMessage)
	// The raw non-JSON model output is kept verbatim for the audit trail
	assert.Equal(t, "not json at all", f.logs.entries[0].LLMResponse)
	assert.Empty(t, f.expenses.bySource)
}

func TestProcessEmailFailsOnProviderError(t *testing.T) {
	f := newPipeline(t, &scriptedClassifier{errs: []error{errors.New("connection refused")}}, nil)

	result, err := f.usecase.ProcessEmail(context.Background(), testEmail())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFailed, result.Status)
	require.Len(t, f.logs.entries, 1)
	assert.Contains(t, f.logs.entries[0].ErrorMessage, "classification failed")
}

func TestProcessEmailFailsOnValidation(t *testing.T) {
	// Extraction succeeds but has no amount
	f := newPipeline(t, &scriptedClassifier{responses: []string{detectYes, `{"description": "mystery"}`}}, nil)

	result, err := f.usecase.ProcessEmail(context.Background(), testEmail())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFailed, result.Status)
	require.Len(t, f.logs.entries, 1)
	assert.Contains(t, f.logs.entries[0].ErrorMessage, "amount")
	assert.Empty(t, f.expenses.bySource)
}

func TestProcessEmailIdempotent(t *testing.T) {
	f := newPipeline(t, &scriptedClassifier{responses: []string{detectYes, extractOK, detectYes, extractOK}}, nil)

	first, err := f.usecase.ProcessEmail(context.Background(), testEmail())
	require.NoError(t, err)
	require.False(t, first.Duplicate)

	second, err := f.usecase.ProcessEmail(context.Background(), testEmail())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, second.Status)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Expense.ID, second.Expense.ID)

	// One expense row, two audit entries
	assert.Len(t, f.expenses.bySource, 1)
	assert.Len(t, f.logs.entries, 2)
}

func TestProcessEmailStoreFailureStillLogged(t *testing.T) {
	f := newPipeline(t, &scriptedClassifier{responses: []string{detectYes, extractOK}}, nil)
	f.expenses.insertErr = errors.New("connection reset")

	result, err := f.usecase.ProcessEmail(context.Background(), testEmail())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFailed, result.Status)
	require.Len(t, f.logs.entries, 1)
	assert.Contains(t, f.logs.entries[0].ErrorMessage, "store failure")
}

func TestProcessEmailLogWriteFailureSurfaces(t *testing.T) {
	f := newPipeline(t, &scriptedClassifier{responses: []string{detectYes, extractOK}}, nil)
	f.logs.createErr = errors.New("disk full")

	_, err := f.usecase.ProcessEmail(context.Background(), testEmail())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStore)
}

func TestProcessEmailRejectsMissingMessageID(t *testing.T) {
	f := newPipeline(t, &scriptedClassifier{}, nil)

	email := testEmail()
	email.MessageID = ""
	_, err := f.usecase.ProcessEmail(context.Background(), email)
	require.Error(t, err)
}

func TestSummarizeExpensesGroupings(t *testing.T) {
	extractMovie := `{"amount": 600, "currency": "INR", "description": "Movie tickets", "category": "entertainment", "merchant": "BookMyShow", "transaction_date": "2026-07-15", "payment_method": "credit_card", "confidence_score": 0.8}`
	f := newPipeline(t, &scriptedClassifier{responses: []string{detectYes, extractOK, detectYes, extractMovie}}, nil)

	first := testEmail()
	_, err := f.usecase.ProcessEmail(context.Background(), first)
	require.NoError(t, err)

	second := testEmail()
	second.MessageID = "msg-456"
	_, err = f.usecase.ProcessEmail(context.Background(), second)
	require.NoError(t, err)

	summary, err := f.usecase.SummarizeExpenses(repository.ExpenseFilter{UserID: "user-1"})
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.Count)
	assert.True(t, decimal.NewFromInt(850).Equal(summary.TotalAmount), "got %s", summary.TotalAmount)

	// One bucket per category, month and payment method
	require.Len(t, summary.ByCategory, 2)
	require.Len(t, summary.ByMonth, 2)
	require.Len(t, summary.ByPaymentMethod, 2)

	months := make(map[string]int64)
	for _, row := range summary.ByMonth {
		months[row.Month] = row.Count
	}
	assert.Equal(t, map[string]int64{"2026-08": 1, "2026-07": 1}, months)

	payments := make(map[string]int64)
	for _, row := range summary.ByPaymentMethod {
		payments[row.PaymentMethod] = row.Count
	}
	assert.Equal(t, map[string]int64{"upi": 1, "credit_card": 1}, payments)
}

// staticDedup always answers the same
type staticDedup struct{ first bool }

func (d staticDedup) FirstSeen(_ context.Context, _ string) (bool, error) {
	return d.first, nil
}

func TestProcessEmailDedupFastPath(t *testing.T) {
	// Seed a persisted expense, then present the same email as already seen
	f := newPipeline(t, &scriptedClassifier{responses: []string{detectYes, extractOK}}, staticDedup{first: true})

	_, err := f.usecase.ProcessEmail(context.Background(), testEmail())
	require.NoError(t, err)

	uc := f.usecase.(*expenseUsecase)
	uc.dedup = staticDedup{first: false}

	result, err := f.usecase.ProcessEmail(context.Background(), testEmail())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, result.Status)
	assert.True(t, result.Duplicate)
	// The fast path short-circuits before any new log entry
	assert.Len(t, f.logs.entries, 1)
}
