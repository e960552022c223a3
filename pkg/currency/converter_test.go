package currency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateToINRLiveAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/USD", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base": "USD", "rates": {"INR": 84.25}}`))
	}))
	defer server.Close()

	c := NewConverterWithBaseURL(server.URL)
	rate, err := c.RateToINR(context.Background(), "usd")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("84.25").Equal(rate))
}

func TestRateToINRFallsBackWhenAPIDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewConverterWithBaseURL(server.URL)
	rate, err := c.RateToINR(context.Background(), "USD")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("83.15").Equal(rate))
}

func TestRateToINRForINR(t *testing.T) {
	// INR never hits the network
	c := NewConverterWithBaseURL("http://127.0.0.1:0")
	rate, err := c.RateToINR(context.Background(), "INR")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1).Equal(rate))

	rate, err = c.RateToINR(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1).Equal(rate))
}

func TestRateToINRUnknownCurrency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewConverterWithBaseURL(server.URL)
	_, err := c.RateToINR(context.Background(), "XYZ")
	assert.Error(t, err)
}

func TestSupportedCurrencies(t *testing.T) {
	c := NewConverter()
	codes := c.SupportedCurrencies()
	assert.Contains(t, codes, "USD")
	assert.Contains(t, codes, "EUR")
	assert.Contains(t, codes, "INR")
}
