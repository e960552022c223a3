package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"expenseflow-backend/internal/expense/domain"
	"expenseflow-backend/internal/expense/repository"
	"expenseflow-backend/internal/expense/taxonomy"
	"expenseflow-backend/pkg/ai"
	"expenseflow-backend/pkg/currency"
	"expenseflow-backend/pkg/prompts"

	"github.com/rs/zerolog"
)

const defaultStageTimeout = 45 * time.Second

// PipelineConfig tunes the expense pipeline
type PipelineConfig struct {
	// StageTimeout bounds each model call (detection, extraction)
	StageTimeout time.Duration
}

// expenseUsecase implements ExpenseUsecase
type expenseUsecase struct {
	detector  *detector
	extractor *extractor
	enricher  *enricher

	expenseRepo repository.ExpenseRepository
	logRepo     repository.ProcessingLogRepository
	dedup       DedupFilter

	stageTimeout time.Duration
	log          zerolog.Logger
}

// NewExpenseUsecase wires the pipeline stages together
func NewExpenseUsecase(
	classifier ai.Classifier,
	promptStore *prompts.Store,
	taxStore *taxonomy.Store,
	converter *currency.Converter,
	expenseRepo repository.ExpenseRepository,
	logRepo repository.ProcessingLogRepository,
	dedup DedupFilter,
	cfg PipelineConfig,
	log zerolog.Logger,
) ExpenseUsecase {
	timeout := cfg.StageTimeout
	if timeout <= 0 {
		timeout = defaultStageTimeout
	}

	return &expenseUsecase{
		detector:     newDetector(classifier, promptStore, log),
		extractor:    newExtractor(classifier, promptStore, log),
		enricher:     newEnricher(taxStore, converter, log),
		expenseRepo:  expenseRepo,
		logRepo:      logRepo,
		dedup:        dedup,
		stageTimeout: timeout,
		log:          log,
	}
}

func (u *expenseUsecase) ProcessEmail(ctx context.Context, email domain.EmailMessage) (*ProcessResult, error) {
	started := time.Now()

	if email.MessageID == "" {
		return nil, fmt.Errorf("email has no message ID")
	}

	// Fast-path dedup. A dedup miss or error never blocks processing; the
	// unique index on email_source catches duplicates that slip through.
	if u.dedup != nil {
		first, err := u.dedup.FirstSeen(ctx, email.MessageID)
		if err != nil {
			u.log.Warn().Err(err).Str("email_id", email.MessageID).Msg("dedup check failed, continuing")
		} else if !first {
			if done, err := u.logRepo.HasCompleted(email.MessageID); err == nil && done {
				existing, _ := u.expenseRepo.FindByEmailSource(email.MessageID)
				u.log.Info().Str("email_id", email.MessageID).Msg("duplicate email, already processed")
				return &ProcessResult{Status: domain.StatusCompleted, Duplicate: true, Expense: existing}, nil
			}
		}
	}

	// Stage 1: detection
	detection, detectRaw, err := u.withTimeout(ctx, func(sctx context.Context) (*domain.DetectionResult, string, error) {
		return u.detector.Detect(sctx, email)
	})
	if err != nil {
		return u.finishFailed(email, started, detectRaw, err)
	}

	if !detection.IsTransaction {
		u.log.Info().
			Str("email_id", email.MessageID).
			Float64("confidence", detection.Confidence).
			Msg("email is not a transaction, skipping")
		result := &ProcessResult{Status: domain.StatusSkipped, Detection: detection}
		if err := u.writeLog(email, started, domain.StatusSkipped, detectRaw, ""); err != nil {
			return nil, err
		}
		return result, nil
	}

	// Stage 2: extraction
	extraction, extractRaw, err := u.withTimeoutExtract(ctx, email)
	if err != nil {
		return u.finishFailed(email, started, extractRaw, err)
	}

	// Stage 3: validation and enrichment
	record, err := u.enricher.Enrich(ctx, email, extraction)
	if err != nil {
		return u.finishFailed(email, started, extractRaw, err)
	}

	// Stage 4: persistence
	inserted, err := u.expenseRepo.InsertIfAbsent(record)
	if err != nil {
		return u.finishFailed(email, started, extractRaw, fmt.Errorf("%w: %v", domain.ErrStore, err))
	}
	if !inserted {
		u.log.Info().Str("email_id", email.MessageID).Msg("duplicate email, insert suppressed")
		if existing, err := u.expenseRepo.FindByEmailSource(email.MessageID); err == nil && existing != nil {
			record = existing
		}
	}

	if err := u.writeLog(email, started, domain.StatusCompleted, extractRaw, ""); err != nil {
		return nil, err
	}

	u.log.Info().
		Str("email_id", email.MessageID).
		Str("category", record.Category).
		Str("amount", record.Amount.String()).
		Bool("duplicate", !inserted).
		Dur("took", time.Since(started)).
		Msg("email processed")

	return &ProcessResult{
		Status:    domain.StatusCompleted,
		Duplicate: !inserted,
		Detection: detection,
		Expense:   record,
	}, nil
}

// finishFailed records the failed attempt and reports the pipeline outcome.
// Only a failure to write the audit log itself is returned as an error.
func (u *expenseUsecase) finishFailed(email domain.EmailMessage, started time.Time, llmResponse string, cause error) (*ProcessResult, error) {
	u.log.Error().
		Err(cause).
		Str("email_id", email.MessageID).
		Msg("email processing failed")

	if err := u.writeLog(email, started, domain.StatusFailed, llmResponse, cause.Error()); err != nil {
		return nil, err
	}
	return &ProcessResult{Status: domain.StatusFailed}, nil
}

// writeLog appends the single terminal audit entry for this attempt
func (u *expenseUsecase) writeLog(email domain.EmailMessage, started time.Time, status domain.ProcessingStatus, llmResponse, errMsg string) error {
	entry := &domain.ProcessingLogEntry{
		EmailMessageID:   email.MessageID,
		UserID:           email.UserID,
		Status:           status,
		LLMResponse:      llmResponse,
		ErrorMessage:     errMsg,
		ProcessingTimeMs: time.Since(started).Milliseconds(),
	}
	if err := u.logRepo.Create(entry); err != nil {
		return fmt.Errorf("%w: write processing log: %v", domain.ErrStore, err)
	}
	return nil
}

func (u *expenseUsecase) withTimeout(ctx context.Context, fn func(context.Context) (*domain.DetectionResult, string, error)) (*domain.DetectionResult, string, error) {
	sctx, cancel := context.WithTimeout(ctx, u.stageTimeout)
	defer cancel()
	return fn(sctx)
}

func (u *expenseUsecase) withTimeoutExtract(ctx context.Context, email domain.EmailMessage) (*domain.RawExtraction, string, error) {
	sctx, cancel := context.WithTimeout(ctx, u.stageTimeout)
	defer cancel()
	return u.extractor.Extract(sctx, email)
}

func (u *expenseUsecase) ListExpenses(filter repository.ExpenseFilter) ([]*domain.ExpenseRecord, int64, error) {
	return u.expenseRepo.List(filter)
}

func (u *expenseUsecase) SummarizeExpenses(filter repository.ExpenseFilter) (*repository.ExpenseSummary, error) {
	return u.expenseRepo.Summarize(filter)
}

func (u *expenseUsecase) ListLogs(userID string, limit, offset int) ([]*domain.ProcessingLogEntry, int64, error) {
	return u.logRepo.FindByUserID(userID, limit, offset)
}

func (u *expenseUsecase) LogsForEmail(emailMessageID string) ([]*domain.ProcessingLogEntry, error) {
	return u.logRepo.FindByEmailMessageID(emailMessageID)
}

// IsValidationError reports whether the pipeline failure was a data problem
// rather than an infrastructure one
func IsValidationError(err error) bool {
	var ve *domain.ValidationError
	return errors.As(err, &ve)
}
