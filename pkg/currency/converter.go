package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://api.exchangerate-api.com/v4/latest"

// fallbackRates are used when the live rate API is unreachable.
// Values are INR per one unit of the foreign currency.
var fallbackRates = map[string]string{
	"USD": "83.15",
	"EUR": "90.85",
	"GBP": "105.50",
	"JPY": "0.56",
	"AUD": "55.20",
	"CAD": "61.80",
	"CHF": "95.40",
	"CNY": "11.65",
	"SGD": "62.10",
	"AED": "22.65",
	"SAR": "22.18",
	"INR": "1.0",
}

// Converter resolves exchange rates into INR, preferring a live rate API and
// degrading to a static fallback table when the API is unavailable.
type Converter struct {
	baseURL string
	client  *http.Client
}

// NewConverter creates a converter against the default exchange rate API
func NewConverter() *Converter {
	return &Converter{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewConverterWithBaseURL creates a converter against a custom API endpoint
// (used in tests)
func NewConverterWithBaseURL(baseURL string) *Converter {
	return &Converter{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// RateToINR returns the INR exchange rate for one unit of the given currency.
// A fallback rate is returned when the live API fails; an error only when the
// currency is unknown to both.
func (c *Converter) RateToINR(ctx context.Context, fromCurrency string) (decimal.Decimal, error) {
	code := strings.ToUpper(strings.TrimSpace(fromCurrency))
	if code == "" || code == "INR" {
		return decimal.NewFromInt(1), nil
	}

	rate, err := c.fetchRate(ctx, code)
	if err == nil {
		return rate, nil
	}

	if fb, ok := fallbackRates[code]; ok {
		d, _ := decimal.NewFromString(fb)
		return d, nil
	}

	return decimal.Zero, fmt.Errorf("no exchange rate available for %s: %w", code, err)
}

// SupportedCurrencies lists the currencies covered by the fallback table
func (c *Converter) SupportedCurrencies() []string {
	codes := make([]string, 0, len(fallbackRates))
	for code := range fallbackRates {
		codes = append(codes, code)
	}
	return codes
}

func (c *Converter) fetchRate(ctx context.Context, code string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return decimal.Zero, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("exchange rate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read rate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("exchange rate API error (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Rates map[string]json.Number `json:"rates"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse rate response: %w", err)
	}

	inr, ok := result.Rates["INR"]
	if !ok {
		return decimal.Zero, fmt.Errorf("rate response for %s has no INR entry", code)
	}

	rate, err := decimal.NewFromString(inr.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid INR rate %q: %w", inr.String(), err)
	}
	return rate, nil
}
