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

// extractor asks the model for structured expense fields
type extractor struct {
	classifier ai.Classifier
	prompts    *prompts.Store
	log        zerolog.Logger
}

func newExtractor(classifier ai.Classifier, promptStore *prompts.Store, log zerolog.Logger) *extractor {
	return &extractor{classifier: classifier, prompts: promptStore, log: log}
}

// Extract returns the untrusted field values the model reported, plus the
// JSON it reported them in. Validation happens later in enrichment.
func (e *extractor) Extract(ctx context.Context, email domain.EmailMessage) (*domain.RawExtraction, string, error) {
	template, err := e.prompts.Get(prompts.ExpenseExtraction)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrClassification, err)
	}

	raw, err := e.classifier.Complete(ctx, renderPrompt(template, email))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrClassification, err)
	}

	jsonStr, err := extractJSON(raw)
	if err != nil {
		return nil, raw, err
	}

	var extraction domain.RawExtraction
	if err := json.Unmarshal([]byte(jsonStr), &extraction); err != nil {
		return nil, raw, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	return &extraction, jsonStr, nil
}
