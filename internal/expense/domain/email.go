package domain

import "time"

// EmailMessage is the immutable input to the pipeline. The message ID doubles
// as the idempotency key for everything derived from this email.
type EmailMessage struct {
	MessageID  string    `json:"message_id"`
	UserID     string    `json:"user_id"`
	Subject    string    `json:"subject"`
	Sender     string    `json:"sender"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}
