package currency

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

type stubProvider struct {
	rates map[string]float64
	err   error
	calls int
}

func (s *stubProvider) FetchRates(ctx context.Context) (map[string]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.rates, nil
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestConvert(t *testing.T) {
	provider := &stubProvider{rates: map[string]float64{
		"USD": 1.0,
		"EUR": 0.9,
		"JPY": 150.0,
	}}
	cache := NewRateCache(provider)

	got, err := cache.Convert(context.Background(), "USD", "EUR", 100)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !almostEqual(got, 90) {
		t.Fatalf("USD->EUR = %v, want 90", got)
	}

	got, err = cache.Convert(context.Background(), "eur", "jpy", 9)
	if err != nil {
		t.Fatalf("Convert lowercase: %v", err)
	}
	if !almostEqual(got, 1500) {
		t.Fatalf("EUR->JPY = %v, want 1500", got)
	}
}

func TestConvertSameCurrencySkipsProvider(t *testing.T) {
	provider := &stubProvider{rates: map[string]float64{"USD": 1.0}}
	cache := NewRateCache(provider)

	got, err := cache.Convert(context.Background(), "USD", "USD", 42)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got != 42 {
		t.Fatalf("same-currency conversion = %v, want 42", got)
	}
	if provider.calls != 0 {
		t.Fatalf("provider called %d times for a same-currency conversion", provider.calls)
	}
}

func TestConvertUnsupportedCurrency(t *testing.T) {
	cache := NewRateCache(&stubProvider{rates: map[string]float64{"USD": 1.0}})

	if _, err := cache.Convert(context.Background(), "USD", "XYZ", 10); !errors.Is(err, ErrUnsupportedCurrency) {
		t.Fatalf("expected ErrUnsupportedCurrency, got %v", err)
	}
	if _, err := cache.Convert(context.Background(), "BTC", "USD", 10); !errors.Is(err, ErrUnsupportedCurrency) {
		t.Fatalf("expected ErrUnsupportedCurrency, got %v", err)
	}
}

func TestRatesCachedWithinTTL(t *testing.T) {
	provider := &stubProvider{rates: map[string]float64{"USD": 1.0, "EUR": 0.9}}
	cache := NewRateCache(provider)

	for i := 0; i < 3; i++ {
		if _, err := cache.Convert(context.Background(), "USD", "EUR", 1); err != nil {
			t.Fatalf("Convert %d: %v", i, err)
		}
	}
	if provider.calls != 1 {
		t.Fatalf("provider called %d times within TTL, want 1", provider.calls)
	}
}

func TestStaleRatesServedOnProviderFailure(t *testing.T) {
	provider := &stubProvider{rates: map[string]float64{"USD": 1.0, "EUR": 0.8}}
	cache := NewRateCache(provider)

	if _, err := cache.Convert(context.Background(), "USD", "EUR", 1); err != nil {
		t.Fatalf("initial Convert: %v", err)
	}

	provider.err = ErrRatesUnavailable
	cache.fetchedAt = time.Now().Add(-2 * cache.ttl) // force a refresh attempt

	got, err := cache.Convert(context.Background(), "USD", "EUR", 10)
	if err != nil {
		t.Fatalf("Convert with failing provider: %v", err)
	}
	if !almostEqual(got, 8) {
		t.Fatalf("stale conversion = %v, want 8", got)
	}
}
