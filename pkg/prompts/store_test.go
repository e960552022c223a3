package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreServesBuiltinDefaults(t *testing.T) {
	s := NewStore("")

	content, err := s.Get(TransactionDetection)
	require.NoError(t, err)
	assert.Contains(t, content, "is_transaction")

	content, err = s.Get(ExpenseExtraction)
	require.NoError(t, err)
	assert.Contains(t, content, "payment_method")

	info := s.GetInfo(TransactionDetection)
	assert.Equal(t, "builtin", info.Version)
	assert.True(t, info.Available)
}

func TestStoreUnknownPrompt(t *testing.T) {
	s := NewStore("")

	_, err := s.Get("sentiment_analysis")
	assert.Error(t, err)

	info := s.GetInfo("sentiment_analysis")
	assert.False(t, info.Available)
}

func TestStoreDirOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, TransactionDetection+".txt")
	require.NoError(t, os.WriteFile(path, []byte("custom detection prompt"), 0o644))

	s := NewStore(dir)

	content, err := s.Get(TransactionDetection)
	require.NoError(t, err)
	assert.Equal(t, "custom detection prompt", content)

	// Extraction still comes from the builtin
	content, err = s.Get(ExpenseExtraction)
	require.NoError(t, err)
	assert.Contains(t, content, "payment_method")

	info := s.GetInfo(TransactionDetection)
	assert.NotEqual(t, "builtin", info.Version)
}

func TestStoreReloadPicksUpChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, TransactionDetection+".txt")

	s := NewStore(dir)
	content, err := s.Get(TransactionDetection)
	require.NoError(t, err)
	assert.NotEqual(t, "v2 prompt", content)

	require.NoError(t, os.WriteFile(path, []byte("v2 prompt"), 0o644))
	s.Reload()

	content, err = s.Get(TransactionDetection)
	require.NoError(t, err)
	assert.Equal(t, "v2 prompt", content)
}

func TestStoreListsAllPrompts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom_check.txt"), []byte("x"), 0o644))

	s := NewStore(dir)
	infos := s.List()

	types := make(map[string]bool)
	for _, info := range infos {
		types[info.Type] = true
	}
	assert.True(t, types[TransactionDetection])
	assert.True(t, types[ExpenseExtraction])
	assert.True(t, types["custom_check"])
}

func TestStoreIgnoresNonTxtFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644))

	s := NewStore(dir)
	_, err := s.Get("notes")
	assert.Error(t, err)
}
