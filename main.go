package main

import (
	"context"
	"strings"
	"time"

	api "expenseflow-backend/cmd/api"
	"expenseflow-backend/internal/dedup"
	expensedomain "expenseflow-backend/internal/expense/domain"
	expenseRepo "expenseflow-backend/internal/expense/repository"
	"expenseflow-backend/internal/expense/taxonomy"
	expenseUsecase "expenseflow-backend/internal/expense/usecase"
	"expenseflow-backend/internal/notification"
	imapTrigger "expenseflow-backend/internal/trigger/imap"
	pubsubTrigger "expenseflow-backend/internal/trigger/pubsub"
	"expenseflow-backend/pkg/ai"
	"expenseflow-backend/pkg/config"
	"expenseflow-backend/pkg/currency"
	"expenseflow-backend/pkg/database"
	"expenseflow-backend/pkg/fcm"
	"expenseflow-backend/pkg/logger"
	"expenseflow-backend/pkg/prompts"
)

func main() {
	log := logger.New()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&expensedomain.ExpenseRecord{}, &expensedomain.ProcessingLogEntry{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Initialize repositories (dependency injection)
	expenseRepository := expenseRepo.NewGormExpenseRepository(db)
	logRepository := expenseRepo.NewGormProcessingLogRepository(db)

	// Prompt templates and vocabulary
	promptStore := prompts.NewStore(cfg.PromptDir)
	taxStore, err := taxonomy.NewStore(cfg.TaxonomyPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load taxonomy")
	}

	// Runtime settings for the settings API
	settingsHandler := api.NewSettingsHandler(cfg.OllamaBaseURL, cfg.OllamaModel)

	// Initialize AI service with dynamic config getters for runtime updates
	classifier, err := ai.NewClassifierWithDynamicConfig(ai.DynamicConfig{
		Provider:         ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:     cfg.GeminiApiKey,
		GetOllamaBaseURL: settingsHandler.OllamaBaseURL,
		GetOllamaModel:   settingsHandler.OllamaModel,
	})
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.AIProvider).Msg("failed to initialize AI provider")
	}
	log.Info().Str("provider", cfg.AIProvider).Msg("AI provider initialized")

	// Optional Redis fast-path dedup
	var dedupFilter expenseUsecase.DedupFilter
	if cfg.RedisURL != "" {
		filter, err := dedup.NewFilter(cfg.RedisURL, 7*24*time.Hour)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, continuing without fast-path dedup")
		} else {
			dedupFilter = filter
			defer filter.Close()
		}
	}

	// Pipeline usecase
	converter := currency.NewConverter()
	usecaseInstance := expenseUsecase.NewExpenseUsecase(
		classifier,
		promptStore,
		taxStore,
		converter,
		expenseRepository,
		logRepository,
		dedupFilter,
		expenseUsecase.PipelineConfig{StageTimeout: cfg.StageTimeout},
		logger.For(log, "pipeline"),
	)

	// Optional FCM push notifications
	var notifier expenseUsecase.Notifier
	if cfg.FirebaseCredentials != "" {
		fcmClient, err := fcm.NewClient(context.Background(), cfg.FirebaseCredentials)
		if err != nil {
			log.Warn().Err(err).Msg("FCM unavailable, push notifications disabled")
		} else {
			notifier = notification.NewFCMNotifier(fcmClient, cfg.FCMTopic, logger.For(log, "fcm"))
		}
	}

	// Background workers
	workers := expenseUsecase.NewWorkerService(usecaseInstance, notifier, cfg.WorkerCount, logger.For(log, "workers"))
	workers.Start()
	defer workers.Stop()

	// Optional IMAP polling trigger
	if cfg.IMAPHost != "" {
		poller := imapTrigger.NewPoller(imapTrigger.Config{
			Host:     cfg.IMAPHost,
			Username: cfg.IMAPUsername,
			Password: cfg.IMAPPassword,
			UserID:   cfg.IMAPUserID,
			Interval: cfg.IMAPInterval,
		}, workers, logger.For(log, "imap"))
		poller.Start()
		defer poller.Stop()
	}

	// Optional Pub/Sub push trigger
	if cfg.GoogleProjectID != "" {
		topicName := cfg.GooglePubSubTopic
		if parts := strings.Split(topicName, "/"); len(parts) > 1 {
			topicName = parts[len(parts)-1]
		}

		subscriber, err := pubsubTrigger.NewSubscriber(
			context.Background(),
			cfg.GoogleProjectID,
			topicName,
			cfg.GoogleCredentials,
			workers,
			logger.For(log, "pubsub"),
		)
		if err != nil {
			log.Warn().Err(err).Msg("pubsub unavailable, push trigger disabled")
		} else {
			go subscriber.Start(context.Background())
			defer subscriber.Close()
		}
	}

	// HTTP surface
	handler := api.NewHandler(cfg, usecaseInstance, workers, promptStore, taxStore, settingsHandler)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
