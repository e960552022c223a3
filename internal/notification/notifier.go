package notification

import (
	"context"
	"fmt"

	"expenseflow-backend/internal/expense/domain"
	"expenseflow-backend/internal/expense/usecase"
	"expenseflow-backend/pkg/fcm"

	"github.com/rs/zerolog"
)

// FCMNotifier pushes terminal pipeline outcomes to an FCM topic. Clients
// interested in expense events subscribe to the topic; no device token
// registry is needed.
type FCMNotifier struct {
	client *fcm.Client
	topic  string
	log    zerolog.Logger
}

// NewFCMNotifier creates a notifier publishing to the given topic
func NewFCMNotifier(client *fcm.Client, topic string, log zerolog.Logger) *FCMNotifier {
	return &FCMNotifier{client: client, topic: topic, log: log}
}

// NotifyProcessed implements usecase.Notifier
func (n *FCMNotifier) NotifyProcessed(ctx context.Context, email domain.EmailMessage, result *usecase.ProcessResult) {
	if n.client == nil {
		return
	}

	data := fcm.NotificationData{
		Data: map[string]string{
			"email_id": email.MessageID,
			"user_id":  email.UserID,
			"status":   string(result.Status),
		},
	}

	switch result.Status {
	case domain.StatusCompleted:
		if result.Expense == nil {
			return
		}
		data.Title = "Expense recorded"
		data.Body = fmt.Sprintf("₹%s at %s (%s)", result.Expense.Amount.StringFixed(2), result.Expense.Merchant, result.Expense.Category)
		data.Data["expense_id"] = result.Expense.ID
	case domain.StatusFailed:
		data.Title = "Expense processing failed"
		data.Body = fmt.Sprintf("Could not process email %q", email.Subject)
	default:
		// Skipped emails are not worth a push
		return
	}

	if err := n.client.SendToTopic(ctx, n.topic, data); err != nil {
		n.log.Warn().Err(err).Str("email_id", email.MessageID).Msg("push notification failed")
	}
}
