package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"expenseflow-backend/internal/expense/domain"
	"expenseflow-backend/pkg/ai"
	"expenseflow-backend/pkg/prompts"

	"github.com/rs/zerolog"
)

// detector asks the model whether an email describes a financial transaction
type detector struct {
	classifier ai.Classifier
	prompts    *prompts.Store
	log        zerolog.Logger
}

func newDetector(classifier ai.Classifier, promptStore *prompts.Store, log zerolog.Logger) *detector {
	return &detector{classifier: classifier, prompts: promptStore, log: log}
}

// Detect returns the model's verdict plus the raw model response for the
// audit log. The boolean verdict is authoritative; confidence is clamped to
// [0,1] and kept for reporting only.
func (d *detector) Detect(ctx context.Context, email domain.EmailMessage) (*domain.DetectionResult, string, error) {
	template, err := d.prompts.Get(prompts.TransactionDetection)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrClassification, err)
	}

	raw, err := d.classifier.Complete(ctx, renderPrompt(template, email))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrClassification, err)
	}

	jsonStr, err := extractJSON(raw)
	if err != nil {
		return nil, raw, err
	}

	var result domain.DetectionResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, raw, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	if result.Confidence < 0 || result.Confidence > 1 {
		d.log.Warn().
			Str("email_id", email.MessageID).
			Float64("confidence", result.Confidence).
			Msg("detection confidence out of range, clamping")
		result.Confidence = clamp01(result.Confidence)
	}

	switch result.TransactionType {
	case domain.TransactionExpense, domain.TransactionIncome, domain.TransactionTransfer:
	default:
		result.TransactionType = domain.TransactionUnknown
	}

	return &result, jsonStr, nil
}
