package usecase

import (
	"testing"
	"time"

	"expenseflow-backend/internal/expense/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "plain object",
			input: `{"is_transaction": true}`,
			want:  `{"is_transaction": true}`,
		},
		{
			name:  "markdown fenced",
			input: "```json\n{\"amount\": 100}\n```",
			want:  `{"amount": 100}`,
		},
		{
			name:  "fence without language",
			input: "```\n{\"amount\": 100}\n```",
			want:  `{"amount": 100}`,
		},
		{
			name:  "surrounded by prose",
			input: "Here is the result:\n{\"amount\": 42}\nHope that helps!",
			want:  `{"amount": 42}`,
		},
		{
			name:    "no JSON at all",
			input:   "I cannot classify this email.",
			wantErr: true,
		},
		{
			name:    "empty response",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderPrompt(t *testing.T) {
	email := domain.EmailMessage{
		MessageID:  "msg-1",
		Subject:    "Payment receipt",
		Sender:     "noreply@bank.example",
		Body:       "Rs 499 debited",
		ReceivedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}

	prompt := renderPrompt("Classify this.", email)

	assert.Contains(t, prompt, "Classify this.")
	assert.Contains(t, prompt, "From: noreply@bank.example")
	assert.Contains(t, prompt, "Subject: Payment receipt")
	assert.Contains(t, prompt, "Date: 2026-08-01")
	assert.Contains(t, prompt, "Rs 499 debited")
}

func TestRenderPromptTruncatesLongBodies(t *testing.T) {
	body := make([]byte, 20000)
	for i := range body {
		body[i] = 'a'
	}

	prompt := renderPrompt("x", domain.EmailMessage{Body: string(body)})
	assert.Less(t, len(prompt), 10000)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.3))
	assert.Equal(t, 1.0, clamp01(1.8))
	assert.Equal(t, 0.75, clamp01(0.75))
}
