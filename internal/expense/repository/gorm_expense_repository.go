package repository

import (
	"errors"
	"time"

	"expenseflow-backend/internal/expense/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// gormExpenseRepository implements ExpenseRepository using GORM
type gormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GORM-based ExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &gormExpenseRepository{db: db}
}

func (r *gormExpenseRepository) InsertIfAbsent(expense *domain.ExpenseRecord) (bool, error) {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now()
	}

	err := r.db.Create(expense).Error
	if err != nil {
		// The unique index on email_source is the idempotency authority:
		// concurrent duplicates race to insert and exactly one wins.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *gormExpenseRepository) FindByEmailSource(emailSource string) (*domain.ExpenseRecord, error) {
	var expense domain.ExpenseRecord
	err := r.db.Where("email_source = ?", emailSource).First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &expense, nil
}

func (r *gormExpenseRepository) List(filter ExpenseFilter) ([]*domain.ExpenseRecord, int64, error) {
	var expenses []*domain.ExpenseRecord
	var total int64

	query := r.filtered(filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	err := query.Order("transaction_date DESC, created_at DESC").
		Limit(limit).Offset(filter.Offset).Find(&expenses).Error

	return expenses, total, err
}

func (r *gormExpenseRepository) Summarize(filter ExpenseFilter) (*ExpenseSummary, error) {
	type row struct {
		Key   string
		Total decimal.Decimal
		Count int64
	}

	var byCategory []row
	err := r.filtered(filter).
		Select("category AS key, SUM(amount) AS total, COUNT(*) AS count").
		Group("category").
		Order("total DESC").
		Scan(&byCategory).Error
	if err != nil {
		return nil, err
	}

	var byMonth []row
	err = r.filtered(filter).
		Select("to_char(transaction_date, 'YYYY-MM') AS key, SUM(amount) AS total, COUNT(*) AS count").
		Group("key").
		Order("key").
		Scan(&byMonth).Error
	if err != nil {
		return nil, err
	}

	var byPayment []row
	err = r.filtered(filter).
		Select("payment_method AS key, SUM(amount) AS total, COUNT(*) AS count").
		Group("payment_method").
		Order("total DESC").
		Scan(&byPayment).Error
	if err != nil {
		return nil, err
	}

	summary := &ExpenseSummary{
		TotalAmount:     decimal.Zero,
		ByCategory:      make([]CategoryTotal, 0, len(byCategory)),
		ByMonth:         make([]MonthTotal, 0, len(byMonth)),
		ByPaymentMethod: make([]PaymentMethodTotal, 0, len(byPayment)),
	}
	for _, row := range byCategory {
		summary.TotalAmount = summary.TotalAmount.Add(row.Total)
		summary.Count += row.Count
		summary.ByCategory = append(summary.ByCategory, CategoryTotal{
			Category: row.Key,
			Total:    row.Total,
			Count:    row.Count,
		})
	}
	for _, row := range byMonth {
		summary.ByMonth = append(summary.ByMonth, MonthTotal{
			Month: row.Key,
			Total: row.Total,
			Count: row.Count,
		})
	}
	for _, row := range byPayment {
		summary.ByPaymentMethod = append(summary.ByPaymentMethod, PaymentMethodTotal{
			PaymentMethod: row.Key,
			Total:         row.Total,
			Count:         row.Count,
		})
	}
	return summary, nil
}

func (r *gormExpenseRepository) filtered(filter ExpenseFilter) *gorm.DB {
	query := r.db.Model(&domain.ExpenseRecord{}).Where("user_id = ?", filter.UserID)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.From != nil {
		query = query.Where("transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("transaction_date <= ?", *filter.To)
	}
	return query
}
