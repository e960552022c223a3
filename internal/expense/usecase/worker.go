package usecase

import (
	"context"
	"sync"

	"expenseflow-backend/internal/expense/domain"

	"github.com/rs/zerolog"
)

// Notifier is told about terminal pipeline outcomes (push notifications).
// Implementations must tolerate being called concurrently.
type Notifier interface {
	NotifyProcessed(ctx context.Context, email domain.EmailMessage, result *ProcessResult)
}

// WorkerService processes emails in the background on a fixed worker pool
type WorkerService struct {
	usecase  ExpenseUsecase
	notifier Notifier

	jobQueue    chan domain.EmailMessage
	workerWg    sync.WaitGroup
	workerCount int
	started     bool
	mu          sync.Mutex
	log         zerolog.Logger
}

// NewWorkerService creates a new background worker service
func NewWorkerService(usecase ExpenseUsecase, notifier Notifier, workerCount int, log zerolog.Logger) *WorkerService {
	if workerCount <= 0 {
		workerCount = 3
	}

	return &WorkerService{
		usecase:     usecase,
		notifier:    notifier,
		jobQueue:    make(chan domain.EmailMessage, 500),
		workerCount: workerCount,
		log:         log,
	}
}

// Start starts the workers
func (s *WorkerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}

	for i := 0; i < s.workerCount; i++ {
		s.workerWg.Add(1)
		go s.worker(i)
	}
	s.started = true
	s.log.Info().Int("workers", s.workerCount).Msg("expense workers started")
}

// Stop drains the queue and waits for all workers to finish
func (s *WorkerService) Stop() {
	close(s.jobQueue)
	s.workerWg.Wait()
	s.log.Info().Msg("expense workers stopped")
}

// Enqueue adds an email to the queue (non-blocking). Returns false when the
// queue is full; callers decide whether to retry or report backpressure.
func (s *WorkerService) Enqueue(email domain.EmailMessage) bool {
	select {
	case s.jobQueue <- email:
		return true
	default:
		return false
	}
}

// QueueDepth reports how many emails are waiting
func (s *WorkerService) QueueDepth() int {
	return len(s.jobQueue)
}

func (s *WorkerService) worker(id int) {
	defer s.workerWg.Done()

	for email := range s.jobQueue {
		s.processJob(email)
	}

	s.log.Debug().Int("worker", id).Msg("worker stopped")
}

func (s *WorkerService) processJob(email domain.EmailMessage) {
	ctx := context.Background()

	result, err := s.usecase.ProcessEmail(ctx, email)
	if err != nil {
		// Audit log write failed; nothing more we can do for this email here
		s.log.Error().Err(err).Str("email_id", email.MessageID).Msg("pipeline error")
		return
	}

	if s.notifier != nil && result.Status.IsTerminal() {
		s.notifier.NotifyProcessed(ctx, email, result)
	}
}
