package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Known prompt types served to the pipeline
const (
	TransactionDetection = "transaction_detection"
	ExpenseExtraction    = "expense_extraction"
)

// Prompt is one versioned template
type Prompt struct {
	Content string `json:"content"`
	Version string `json:"version"`
}

// Info describes a template without its content
type Info struct {
	Type      string `json:"type"`
	Version   string `json:"version"`
	Available bool   `json:"available"`
}

// Store caches prompt templates loaded from a directory of .txt files and
// supports reloading them without a restart. Readers always observe a
// complete template: the cache is swapped under the lock, never mutated in
// place.
type Store struct {
	mu    sync.RWMutex
	dir   string
	cache map[string]Prompt
}

// NewStore creates a store for the given prompt directory and performs the
// initial load. A missing directory is not an error; the embedded defaults
// cover the known prompt types.
func NewStore(dir string) *Store {
	s := &Store{dir: dir}
	s.cache = s.load()
	return s
}

// Get returns the current template for a prompt type
func (s *Store) Get(promptType string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.cache[promptType]
	if !ok {
		return "", fmt.Errorf("prompt %q not found", promptType)
	}
	return p.Content, nil
}

// GetInfo returns template metadata for a prompt type
func (s *Store) GetInfo(promptType string) Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.cache[promptType]; ok {
		return Info{Type: promptType, Version: p.Version, Available: true}
	}
	return Info{Type: promptType, Version: "unknown", Available: false}
}

// List returns metadata for every loaded template
func (s *Store) List() []Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]Info, 0, len(s.cache))
	for t, p := range s.cache {
		infos = append(infos, Info{Type: t, Version: p.Version, Available: true})
	}
	return infos
}

// Reload re-reads every template from disk and swaps the cache atomically.
// In-flight readers see the old or the new cache, never a partial one.
func (s *Store) Reload() {
	fresh := s.load()

	s.mu.Lock()
	s.cache = fresh
	s.mu.Unlock()
}

// load builds a fresh cache: embedded defaults first, then any .txt files in
// the prompt directory layered on top (filename without extension is the
// prompt type).
func (s *Store) load() map[string]Prompt {
	cache := map[string]Prompt{
		TransactionDetection: {Content: defaultDetectionPrompt, Version: "builtin"},
		ExpenseExtraction:    {Content: defaultExtractionPrompt, Version: "builtin"},
	}

	if s.dir == "" {
		return cache
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return cache
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		version := "unknown"
		if info, err := entry.Info(); err == nil {
			version = fmt.Sprintf("%d", info.ModTime().Unix())
		}

		promptType := strings.TrimSuffix(entry.Name(), ".txt")
		cache[promptType] = Prompt{Content: string(data), Version: version}
	}

	return cache
}
