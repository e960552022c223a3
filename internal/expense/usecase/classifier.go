package usecase

import (
	"fmt"
	"strings"

	"expenseflow-backend/internal/expense/domain"
)

// renderPrompt appends the email content to a prompt template. Templates are
// self-contained instructions; the email is always presented the same way so
// template authors can rely on the layout.
func renderPrompt(template string, email domain.EmailMessage) string {
	var b strings.Builder
	b.WriteString(template)
	b.WriteString("\n\nEmail to analyze:\n")
	b.WriteString(fmt.Sprintf("From: %s\n", email.Sender))
	b.WriteString(fmt.Sprintf("Subject: %s\n", email.Subject))
	b.WriteString(fmt.Sprintf("Date: %s\n\n", email.ReceivedAt.Format("2006-01-02")))
	b.WriteString(truncate(email.Body, 8000))
	return b.String()
}

// extractJSON pulls the JSON object out of a model response. Models wrap
// their output in markdown fences or prose despite being told not to, so we
// strip fences and take the outermost brace pair.
func extractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("%w: no JSON object in model response", domain.ErrParse)
	}
	return s[start : end+1], nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
