package pubsub

import (
	"context"
	"encoding/json"
	"time"

	"expenseflow-backend/internal/expense/domain"
	"expenseflow-backend/internal/expense/usecase"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// inboundEmail is the message shape published by mail gateways
type inboundEmail struct {
	MessageID  string    `json:"message_id"`
	UserID     string    `json:"user_id"`
	Subject    string    `json:"subject"`
	Sender     string    `json:"sender"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

// Subscriber pulls inbound emails from a Pub/Sub topic and queues them for
// the expense pipeline
type Subscriber struct {
	client    *pubsub.Client
	workers   *usecase.WorkerService
	topicName string
	subName   string
	log       zerolog.Logger
}

// NewSubscriber creates a subscriber on the given project and topic
func NewSubscriber(ctx context.Context, projectID, topicName, credentialsFile string, workers *usecase.WorkerService, log zerolog.Logger) (*Subscriber, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, err
	}

	return &Subscriber{
		client:    client,
		workers:   workers,
		topicName: topicName,
		subName:   topicName + "-sub",
		log:       log,
	}, nil
}

// Start blocks receiving messages until the context is cancelled
func (s *Subscriber) Start(ctx context.Context) {
	s.log.Info().Str("topic", s.topicName).Str("subscription", s.subName).Msg("pubsub trigger starting")

	sub := s.client.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("pubsub subscription check failed")
		return
	}

	if !exists {
		topic := s.client.Topic(s.topicName)
		topicExists, err := topic.Exists(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("pubsub topic check failed")
			return
		}
		if !topicExists {
			s.log.Error().Str("topic", s.topicName).Msg("pubsub topic does not exist")
			return
		}

		sub, err = s.client.CreateSubscription(ctx, s.subName, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 10 * time.Second,
		})
		if err != nil {
			s.log.Error().Err(err).Msg("pubsub subscription create failed")
			return
		}
		s.log.Info().Str("subscription", s.subName).Msg("created pubsub subscription")
	}

	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		s.handleMessage(msg)
	})
	if err != nil {
		s.log.Error().Err(err).Msg("pubsub receive stopped")
	}
}

func (s *Subscriber) handleMessage(msg *pubsub.Message) {
	var inbound inboundEmail
	if err := json.Unmarshal(msg.Data, &inbound); err != nil {
		// Malformed payloads will never parse; drop them
		s.log.Warn().Err(err).Msg("unparseable pubsub message, dropping")
		msg.Ack()
		return
	}

	if inbound.MessageID == "" || inbound.Body == "" {
		s.log.Warn().Str("message_id", inbound.MessageID).Msg("incomplete email payload, dropping")
		msg.Ack()
		return
	}

	email := domain.EmailMessage{
		MessageID:  inbound.MessageID,
		UserID:     inbound.UserID,
		Subject:    inbound.Subject,
		Sender:     inbound.Sender,
		Body:       inbound.Body,
		ReceivedAt: inbound.ReceivedAt,
	}

	if !s.workers.Enqueue(email) {
		// Queue full. Nack so Pub/Sub redelivers once workers catch up.
		s.log.Warn().Str("email_id", email.MessageID).Msg("worker queue full, nacking")
		msg.Nack()
		return
	}
	msg.Ack()
}

// Close releases the Pub/Sub client
func (s *Subscriber) Close() error {
	return s.client.Close()
}
