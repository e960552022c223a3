package domain

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessingStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.True(t, StatusSkipped.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
}

func TestLLMResponseColumnHoldsArbitraryText(t *testing.T) {
	// Failed attempts store whatever the model returned, which is usually
	// not valid JSON, so the column must be plain text rather than jsonb.
	field, ok := reflect.TypeOf(ProcessingLogEntry{}).FieldByName("LLMResponse")
	require.True(t, ok)
	assert.Contains(t, field.Tag.Get("gorm"), "type:text")
}
