package taxonomy

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"expenseflow-backend/pkg/fuzzy"

	"gopkg.in/yaml.v3"
)

// merchantMatchThreshold is the maximum edit distance for a fuzzy merchant hit
const merchantMatchThreshold = 2

// fuzzyMinNameLen is the shortest canonical name eligible for fuzzy matching.
// Below it the edit-distance budget covers most of the name, so "oyo" would
// match "ola"; short names only match by containment.
const fuzzyMinNameLen = 5

// MerchantInfo is one canonical merchant with its default classification
type MerchantInfo struct {
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	City     string `yaml:"city,omitempty" json:"city,omitempty"`
	State    string `yaml:"state,omitempty" json:"state,omitempty"`
}

// Taxonomy holds the canonical category, payment-method and merchant
// vocabulary. It is loaded from a YAML file so the vocabulary can change
// without redeploying pipeline logic; an embedded default covers the case
// where no file is configured.
type Taxonomy struct {
	Version        string         `yaml:"version" json:"version"`
	Categories     []string       `yaml:"categories" json:"categories"`
	PaymentMethods []string       `yaml:"payment_methods" json:"payment_methods"`
	Merchants      []MerchantInfo `yaml:"merchants" json:"merchants"`

	categorySet map[string]bool
	paymentSet  map[string]bool
}

// index builds the lookup sets after the slices have been populated
func (t *Taxonomy) index() {
	t.categorySet = make(map[string]bool, len(t.Categories))
	for _, c := range t.Categories {
		t.categorySet[fuzzy.Normalize(c)] = true
	}
	t.paymentSet = make(map[string]bool, len(t.PaymentMethods))
	for _, p := range t.PaymentMethods {
		t.paymentSet[fuzzy.Normalize(p)] = true
	}
}

// ValidCategory reports whether the category is part of the canonical list
func (t *Taxonomy) ValidCategory(category string) bool {
	return t.categorySet[fuzzy.Normalize(category)]
}

// ValidPaymentMethod reports whether the payment method is canonical
func (t *Taxonomy) ValidPaymentMethod(method string) bool {
	return t.paymentSet[fuzzy.Normalize(method)]
}

// CanonicalCategory maps free-text onto the canonical vocabulary,
// falling back to "other" for anything unknown
func (t *Taxonomy) CanonicalCategory(category string) string {
	norm := fuzzy.Normalize(category)
	if t.categorySet[norm] {
		return norm
	}
	return CategoryOther
}

// CanonicalPaymentMethod maps free-text onto the canonical vocabulary,
// falling back to "other" for anything unknown
func (t *Taxonomy) CanonicalPaymentMethod(method string) string {
	norm := fuzzy.Normalize(method)
	if t.paymentSet[norm] {
		return norm
	}
	return PaymentOther
}

// MatchMerchant looks up a free-text merchant against the canonical merchant
// list: exact substring containment first, then fuzzy edit distance. Unmatched
// merchants return ok=false and pass through enrichment unchanged.
func (t *Taxonomy) MatchMerchant(merchant string) (MerchantInfo, bool) {
	norm := fuzzy.Normalize(merchant)
	if norm == "" {
		return MerchantInfo{}, false
	}

	for _, m := range t.Merchants {
		if containsName(norm, m.Name) {
			return m, true
		}
	}

	bestDist := merchantMatchThreshold + 1
	best := MerchantInfo{}
	found := false
	for _, m := range t.Merchants {
		if len([]rune(fuzzy.Normalize(m.Name))) < fuzzyMinNameLen {
			continue
		}
		dist := fuzzy.LevenshteinDistance(norm, m.Name)
		if dist < bestDist {
			bestDist = dist
			best = m
			found = true
		}
	}
	return best, found
}

func containsName(haystack, name string) bool {
	name = fuzzy.Normalize(name)
	if name == "" {
		return false
	}
	return strings.Contains(haystack, name)
}

// Store serves the current taxonomy and supports hot reload. Readers observe
// either the old or the new taxonomy, never a partial one.
type Store struct {
	mu   sync.RWMutex
	path string
	tax  *Taxonomy
}

// NewStore creates a store serving the taxonomy at path, or the embedded
// default when path is empty
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the active taxonomy
func (s *Store) Current() *Taxonomy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tax
}

// Reload re-reads the taxonomy file and swaps it in atomically
func (s *Store) Reload() error {
	tax, err := load(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.tax = tax
	s.mu.Unlock()
	return nil
}

func load(path string) (*Taxonomy, error) {
	if path == "" {
		tax := Default()
		return tax, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file %s: %w", path, err)
	}

	var tax Taxonomy
	if err := yaml.Unmarshal(data, &tax); err != nil {
		return nil, fmt.Errorf("parse taxonomy YAML: %w", err)
	}
	if len(tax.Categories) == 0 {
		return nil, fmt.Errorf("taxonomy %s lists no categories", path)
	}

	// "other" must always be available as the fallback value
	if !contains(tax.Categories, CategoryOther) {
		tax.Categories = append(tax.Categories, CategoryOther)
	}
	if !contains(tax.PaymentMethods, PaymentOther) {
		tax.PaymentMethods = append(tax.PaymentMethods, PaymentOther)
	}

	tax.index()
	return &tax, nil
}

func contains(values []string, v string) bool {
	for _, item := range values {
		if item == v {
			return true
		}
	}
	return false
}
