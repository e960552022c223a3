package domain

import "github.com/shopspring/decimal"

// RawExtraction mirrors the expense fields as the model reports them. Every
// field is optional and untrusted until the enricher has validated it; never
// hand this struct to persistence directly.
type RawExtraction struct {
	Amount          *decimal.Decimal `json:"amount"`
	Currency        *string          `json:"currency"`
	Description     *string          `json:"description"`
	Category        *string          `json:"category"`
	Merchant        *string          `json:"merchant"`
	TransactionDate *string          `json:"transaction_date"`
	PaymentMethod   *string          `json:"payment_method"`
	City            *string          `json:"city"`
	State           *string          `json:"state"`
	GSTAmount       *decimal.Decimal `json:"gst_amount"`
	GSTPercentage   *decimal.Decimal `json:"gst_percentage"`
	ConfidenceScore *float64         `json:"confidence_score"`

	// Reported when the transaction is not in INR
	OriginalAmount   *decimal.Decimal `json:"original_amount"`
	OriginalCurrency *string          `json:"original_currency"`
	ExchangeRate     *decimal.Decimal `json:"exchange_rate"`
}
