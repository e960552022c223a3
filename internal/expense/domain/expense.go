package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseRecord is the validated, enriched expense persisted for an email.
// The unique index on email_source enforces one expense per email even under
// concurrent duplicate delivery.
type ExpenseRecord struct {
	ID              string          `json:"id" gorm:"primaryKey"`
	UserID          string          `json:"user_id" gorm:"index;not null"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:numeric(14,2);not null"`
	Currency        string          `json:"currency" gorm:"not null;default:INR"`
	Description     string          `json:"description" gorm:"not null"`
	Category        string          `json:"category" gorm:"index;not null"`
	Merchant        string          `json:"merchant"`
	TransactionDate time.Time       `json:"transaction_date" gorm:"index;not null"`
	PaymentMethod   string          `json:"payment_method"`
	City            string          `json:"city,omitempty"`
	State           string          `json:"state,omitempty"`
	GSTAmount       decimal.Decimal `json:"gst_amount" gorm:"type:numeric(14,2)"`
	GSTPercentage   decimal.Decimal `json:"gst_percentage" gorm:"type:numeric(5,2)"`
	ConfidenceScore float64         `json:"confidence_score"`

	// Provenance
	EmailSubject    string `json:"email_subject"`
	EmailSender     string `json:"email_sender"`
	EmailSource     string `json:"email_source" gorm:"uniqueIndex;not null"`
	RawEmailContent string `json:"raw_email_content" gorm:"type:text"`
	ParsedData      string `json:"parsed_data" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (ExpenseRecord) TableName() string {
	return "expenses"
}
