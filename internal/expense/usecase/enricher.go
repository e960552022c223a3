package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"expenseflow-backend/internal/expense/domain"
	"expenseflow-backend/internal/expense/taxonomy"
	"expenseflow-backend/pkg/currency"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order when parsing the model's transaction date
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
	"02-01-2006",
	"January 2, 2006",
	"2 January 2006",
}

// enricher validates a raw extraction and turns it into a persistable expense
type enricher struct {
	taxonomy  *taxonomy.Store
	converter *currency.Converter
	log       zerolog.Logger
}

func newEnricher(taxStore *taxonomy.Store, converter *currency.Converter, log zerolog.Logger) *enricher {
	return &enricher{taxonomy: taxStore, converter: converter, log: log}
}

// Enrich validates the extraction, fills defaults, normalizes vocabulary and
// converts foreign amounts to INR. A ValidationError means the email cannot
// yield a usable expense and the attempt should fail.
func (e *enricher) Enrich(ctx context.Context, email domain.EmailMessage, raw *domain.RawExtraction) (*domain.ExpenseRecord, error) {
	if raw == nil {
		return nil, domain.NewMissingFieldError("amount", "extraction is empty")
	}

	amount, cur, err := e.resolveAmount(ctx, raw)
	if err != nil {
		return nil, err
	}

	tax := e.taxonomy.Current()

	record := &domain.ExpenseRecord{
		UserID:   email.UserID,
		Amount:   amount,
		Currency: cur,
	}

	record.Description = deref(raw.Description)
	if strings.TrimSpace(record.Description) == "" {
		record.Description = email.Subject
	}
	if strings.TrimSpace(record.Description) == "" {
		return nil, domain.NewMissingFieldError("description", "no description extracted and email has no subject")
	}

	record.Category = tax.CanonicalCategory(deref(raw.Category))
	record.PaymentMethod = tax.CanonicalPaymentMethod(deref(raw.PaymentMethod))
	record.Merchant = strings.TrimSpace(deref(raw.Merchant))
	record.City = strings.TrimSpace(deref(raw.City))
	record.State = strings.TrimSpace(deref(raw.State))

	// Known merchants carry better classification than the model's guess.
	// The merchant name itself keeps the extracted casing; only the
	// classification fields are backfilled from the taxonomy.
	if record.Merchant != "" {
		if info, ok := tax.MatchMerchant(record.Merchant); ok {
			if record.Category == taxonomy.CategoryOther && info.Category != "" {
				record.Category = info.Category
			}
			if record.City == "" {
				record.City = info.City
			}
			if record.State == "" {
				record.State = info.State
			}
		}
	}
	if record.Merchant == "" {
		record.Merchant = "Unknown"
	}

	record.TransactionDate = e.resolveDate(email, raw.TransactionDate)
	record.GSTAmount = clampMoney(derefDecimal(raw.GSTAmount))
	record.GSTPercentage = clampPercent(derefDecimal(raw.GSTPercentage))

	if raw.ConfidenceScore != nil {
		record.ConfidenceScore = clamp01(*raw.ConfidenceScore)
	}

	// Provenance
	record.EmailSubject = email.Subject
	record.EmailSender = email.Sender
	record.EmailSource = email.MessageID
	record.RawEmailContent = email.Body
	if parsed, err := json.Marshal(raw); err == nil {
		record.ParsedData = string(parsed)
	}

	return record, nil
}

// resolveAmount settles the final INR amount. Foreign amounts are converted
// using the model's reported exchange rate when present, the live converter
// otherwise.
func (e *enricher) resolveAmount(ctx context.Context, raw *domain.RawExtraction) (decimal.Decimal, string, error) {
	cur := strings.ToUpper(strings.TrimSpace(deref(raw.Currency)))
	if cur == "" {
		cur = "INR"
	}

	// Amount must be present; zero is a legitimate value (free orders,
	// fully discounted bills). Only negative amounts are rejected.
	var amount decimal.Decimal
	switch {
	case raw.Amount != nil && !raw.Amount.IsZero():
		amount = *raw.Amount
	case raw.OriginalAmount != nil && raw.OriginalCurrency != nil:
		// An absent or zero converted amount falls back to the
		// original-currency fields
		amount = *raw.OriginalAmount
		cur = strings.ToUpper(strings.TrimSpace(*raw.OriginalCurrency))
	case raw.Amount != nil:
		amount = *raw.Amount
	default:
		return decimal.Zero, "", domain.NewMissingFieldError("amount", "no amount extracted")
	}

	if amount.IsNegative() {
		return decimal.Zero, "", &domain.ValidationError{
			Kind: domain.OutOfRange, Field: "amount", Reason: "amount must not be negative",
		}
	}

	if cur == "INR" {
		return amount.Round(2), "INR", nil
	}

	rate := derefDecimal(raw.ExchangeRate)
	if !rate.IsPositive() {
		r, err := e.converter.RateToINR(ctx, cur)
		if err != nil {
			return decimal.Zero, "", &domain.ValidationError{
				Kind: domain.OutOfRange, Field: "currency",
				Reason: fmt.Sprintf("cannot convert %s to INR: %v", cur, err),
			}
		}
		rate = r
	}

	e.log.Debug().
		Str("from_currency", cur).
		Str("rate", rate.String()).
		Msg("converting foreign amount to INR")

	return amount.Mul(rate).Round(2), "INR", nil
}

func (e *enricher) resolveDate(email domain.EmailMessage, reported *string) time.Time {
	if reported != nil {
		s := strings.TrimSpace(*reported)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		if s != "" {
			e.log.Debug().
				Str("email_id", email.MessageID).
				Str("date", s).
				Msg("unparseable transaction date, using received time")
		}
	}
	if !email.ReceivedAt.IsZero() {
		return email.ReceivedAt
	}
	return time.Now()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefDecimal(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func clampMoney(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(2)
}

func clampPercent(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return d.Round(2)
}
