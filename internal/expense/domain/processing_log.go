package domain

import "time"

// ProcessingStatus is the state of one processing attempt
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
	StatusSkipped    ProcessingStatus = "skipped"
)

// IsTerminal reports whether the status is one of the final states
func (s ProcessingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusSkipped
}

// ProcessingLogEntry is the append-only audit record for one processing
// attempt. Retries create a new entry; entries are never re-opened.
type ProcessingLogEntry struct {
	ID               string           `json:"id" gorm:"primaryKey"`
	EmailMessageID   string           `json:"email_message_id" gorm:"index;not null"`
	UserID           string           `json:"user_id" gorm:"index"`
	Status           ProcessingStatus `json:"status" gorm:"index;not null"`
	// Raw model output for the attempt. Stored as text, not jsonb: failed
	// attempts carry whatever the model returned, which is often not JSON.
	LLMResponse      string           `json:"llm_response,omitempty" gorm:"type:text"`
	ErrorMessage     string           `json:"error_message,omitempty"`
	ProcessingTimeMs int64            `json:"processing_time_ms"`
	CreatedAt        time.Time        `json:"created_at"`
}

// TableName specifies the table name for GORM
func (ProcessingLogEntry) TableName() string {
	return "processing_logs"
}
