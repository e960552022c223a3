package usecase

import (
	"context"
	"testing"
	"time"

	"expenseflow-backend/internal/expense/domain"
	"expenseflow-backend/internal/expense/taxonomy"
	"expenseflow-backend/pkg/currency"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnricher(t *testing.T) *enricher {
	t.Helper()
	taxStore, err := taxonomy.NewStore("")
	require.NoError(t, err)
	return newEnricher(taxStore, currency.NewConverter(), zerolog.Nop())
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func floatPtr(f float64) *float64 { return &f }

func TestEnrichHappyPath(t *testing.T) {
	e := newTestEnricher(t)
	email := testEmail()

	raw := &domain.RawExtraction{
		Amount:          decPtr("249.50"),
		Currency:        strPtr("INR"),
		Description:     strPtr("Lunch order"),
		Category:        strPtr("food_dining"),
		Merchant:        strPtr("Swiggy"),
		TransactionDate: strPtr("2026-08-09"),
		PaymentMethod:   strPtr("UPI"),
		GSTAmount:       decPtr("11.88"),
		GSTPercentage:   decPtr("5"),
		ConfidenceScore: floatPtr(0.92),
	}

	record, err := e.Enrich(context.Background(), email, raw)
	require.NoError(t, err)

	assert.Equal(t, "user-1", record.UserID)
	assert.True(t, decimal.RequireFromString("249.50").Equal(record.Amount))
	assert.Equal(t, "INR", record.Currency)
	assert.Equal(t, "Lunch order", record.Description)
	assert.Equal(t, "food_dining", record.Category)
	assert.Equal(t, "Swiggy", record.Merchant)
	assert.Equal(t, "upi", record.PaymentMethod)
	assert.Equal(t, time.Date(2026, 8, 9, 0, 0, 0, 0, time.UTC), record.TransactionDate)
	assert.Equal(t, 0.92, record.ConfidenceScore)

	// Provenance stamped from the email
	assert.Equal(t, "msg-123", record.EmailSource)
	assert.Equal(t, "Payment successful", record.EmailSubject)
	assert.Equal(t, "noreply@upi.example", record.EmailSender)
	assert.NotEmpty(t, record.ParsedData)
}

func TestEnrichMissingAmount(t *testing.T) {
	e := newTestEnricher(t)

	_, err := e.Enrich(context.Background(), testEmail(), &domain.RawExtraction{
		Description: strPtr("something"),
	})
	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, domain.MissingRequiredField, ve.Kind)
	assert.Equal(t, "amount", ve.Field)
}

func TestEnrichZeroAmount(t *testing.T) {
	e := newTestEnricher(t)

	// Fully discounted orders are real transactions with a zero amount
	record, err := e.Enrich(context.Background(), testEmail(), &domain.RawExtraction{
		Amount:      decPtr("0"),
		Description: strPtr("Free promotional order"),
	})
	require.NoError(t, err)
	assert.True(t, record.Amount.IsZero())
}

func TestEnrichNegativeAmount(t *testing.T) {
	e := newTestEnricher(t)

	_, err := e.Enrich(context.Background(), testEmail(), &domain.RawExtraction{
		Amount: decPtr("-50"),
	})
	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, domain.OutOfRange, ve.Kind)
}

func TestEnrichNilExtraction(t *testing.T) {
	e := newTestEnricher(t)

	_, err := e.Enrich(context.Background(), testEmail(), nil)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestEnrichDefaults(t *testing.T) {
	e := newTestEnricher(t)

	record, err := e.Enrich(context.Background(), testEmail(), &domain.RawExtraction{
		Amount: decPtr("100"),
	})
	require.NoError(t, err)

	assert.Equal(t, "INR", record.Currency)
	assert.Equal(t, taxonomy.CategoryOther, record.Category)
	assert.Equal(t, taxonomy.PaymentOther, record.PaymentMethod)
	assert.Equal(t, "Unknown", record.Merchant)
	// Description falls back to the subject
	assert.Equal(t, "Payment successful", record.Description)
	// Date falls back to the received time
	assert.Equal(t, testEmail().ReceivedAt, record.TransactionDate)
	assert.Equal(t, 0.0, record.ConfidenceScore)
	assert.True(t, record.GSTAmount.IsZero())
}

func TestEnrichMerchantBackfillsCategory(t *testing.T) {
	e := newTestEnricher(t)

	record, err := e.Enrich(context.Background(), testEmail(), &domain.RawExtraction{
		Amount:   decPtr("500"),
		Merchant: strPtr("Zomato Online Order"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Zomato Online Order", record.Merchant)
	assert.Equal(t, "food_dining", record.Category)
}

func TestEnrichKeepsMerchantCasing(t *testing.T) {
	e := newTestEnricher(t)

	record, err := e.Enrich(context.Background(), testEmail(), &domain.RawExtraction{
		Amount:   decPtr("1299"),
		Merchant: strPtr("Amazon"),
	})
	require.NoError(t, err)

	// Taxonomy backfills classification, never rewrites the merchant name
	assert.Equal(t, "Amazon", record.Merchant)
	assert.Equal(t, "online_shopping", record.Category)
}

func TestEnrichModelCategoryWinsOverMerchant(t *testing.T) {
	e := newTestEnricher(t)

	// An explicit valid category is kept even for a known merchant
	record, err := e.Enrich(context.Background(), testEmail(), &domain.RawExtraction{
		Amount:   decPtr("500"),
		Merchant: strPtr("Amazon"),
		Category: strPtr("groceries"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Amazon", record.Merchant)
	assert.Equal(t, "groceries", record.Category)
}

func TestEnrichForeignCurrencyWithReportedRate(t *testing.T) {
	e := newTestEnricher(t)

	record, err := e.Enrich(context.Background(), testEmail(), &domain.RawExtraction{
		Amount:       decPtr("10"),
		Currency:     strPtr("USD"),
		ExchangeRate: decPtr("83.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "INR", record.Currency)
	assert.True(t, decimal.RequireFromString("830.00").Equal(record.Amount), "got %s", record.Amount)
}

func TestEnrichFallsBackToOriginalAmountFields(t *testing.T) {
	e := newTestEnricher(t)

	record, err := e.Enrich(context.Background(), testEmail(), &domain.RawExtraction{
		OriginalAmount:   decPtr("20"),
		OriginalCurrency: strPtr("USD"),
		ExchangeRate:     decPtr("80"),
	})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("1600.00").Equal(record.Amount))
}

func TestEnrichClampsGST(t *testing.T) {
	e := newTestEnricher(t)

	record, err := e.Enrich(context.Background(), testEmail(), &domain.RawExtraction{
		Amount:        decPtr("100"),
		GSTAmount:     decPtr("-5"),
		GSTPercentage: decPtr("250"),
	})
	require.NoError(t, err)

	assert.True(t, record.GSTAmount.IsZero())
	assert.True(t, decimal.NewFromInt(100).Equal(record.GSTPercentage))
}

func TestEnrichClampsConfidence(t *testing.T) {
	e := newTestEnricher(t)

	record, err := e.Enrich(context.Background(), testEmail(), &domain.RawExtraction{
		Amount:          decPtr("100"),
		ConfidenceScore: floatPtr(1.7),
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, record.ConfidenceScore)
}

func TestEnrichUnparseableDate(t *testing.T) {
	e := newTestEnricher(t)

	record, err := e.Enrich(context.Background(), testEmail(), &domain.RawExtraction{
		Amount:          decPtr("100"),
		TransactionDate: strPtr("yesterday-ish"),
	})
	require.NoError(t, err)
	assert.Equal(t, testEmail().ReceivedAt, record.TransactionDate)
}
