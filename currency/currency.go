package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"voyago/rdx"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
)

// Supported currencies. Conversions outside this set are rejected.
var supported = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
	"JPY": true,
	"AUD": true,
	"CAD": true,
	"INR": true,
}

var (
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrRatesUnavailable    = errors.New("exchange rates unavailable")
)

const (
	redisRatesKey = "currency:rates:USD"
	rateTTL       = 1 * time.Hour
)

// RateProvider fetches USD-based exchange rates.
type RateProvider interface {
	FetchRates(ctx context.Context) (map[string]float64, error)
}

// HTTPRateProvider pulls rates from an external JSON endpoint with a
// bounded timeout.
type HTTPRateProvider struct {
	URL    string
	Client *http.Client
}

func NewHTTPRateProvider(url string) *HTTPRateProvider {
	return &HTTPRateProvider{
		URL:    url,
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (p *HTTPRateProvider) FetchRates(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, ErrRatesUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrRatesUnavailable
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, ErrRatesUnavailable
	}
	if len(payload.Rates) == 0 {
		return nil, ErrRatesUnavailable
	}
	return payload.Rates, nil
}

// RateCache holds USD-based rates with a TTL. Fresh rates live in Redis
// so processes share them; the in-memory copy survives Redis outages.
type RateCache struct {
	provider RateProvider
	ttl      time.Duration

	mu        sync.Mutex
	rates     map[string]float64
	fetchedAt time.Time
}

func NewRateCache(provider RateProvider) *RateCache {
	return &RateCache{provider: provider, ttl: rateTTL}
}

// Rates returns the current rate table, refreshing when stale.
func (c *RateCache) Rates(ctx context.Context) (map[string]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rates != nil && time.Since(c.fetchedAt) < c.ttl {
		return c.rates, nil
	}

	if rates := c.loadFromRedis(ctx); rates != nil {
		c.rates, c.fetchedAt = rates, time.Now()
		return rates, nil
	}

	rates, err := c.provider.FetchRates(ctx)
	if err != nil {
		// Serve stale rates over no rates.
		if c.rates != nil {
			return c.rates, nil
		}
		return nil, err
	}

	c.rates, c.fetchedAt = rates, time.Now()
	c.storeInRedis(ctx, rates)
	return rates, nil
}

func (c *RateCache) loadFromRedis(ctx context.Context) map[string]float64 {
	if rdx.Conn == nil {
		return nil
	}
	data, err := rdx.RdxGet(redisRatesKey)
	if err != nil || data == "" {
		return nil
	}
	var rates map[string]float64
	if err := json.Unmarshal([]byte(data), &rates); err != nil {
		return nil
	}
	return rates
}

func (c *RateCache) storeInRedis(ctx context.Context, rates map[string]float64) {
	if rdx.Conn == nil {
		return
	}
	if data, err := json.Marshal(rates); err == nil {
		_ = rdx.RdxSet(redisRatesKey, string(data), c.ttl)
	}
}

// Convert translates amount between two supported currencies using the
// USD-based table.
func (c *RateCache) Convert(ctx context.Context, from, to string, amount float64) (float64, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if !supported[from] || !supported[to] {
		return 0, ErrUnsupportedCurrency
	}
	if from == to {
		return amount, nil
	}

	rates, err := c.Rates(ctx)
	if err != nil {
		return 0, err
	}

	fromRate, ok := rates[from]
	if !ok || fromRate == 0 {
		return 0, fmt.Errorf("%w: no rate for %s", ErrRatesUnavailable, from)
	}
	toRate, ok := rates[to]
	if !ok {
		return 0, fmt.Errorf("%w: no rate for %s", ErrRatesUnavailable, to)
	}

	return amount / fromRate * toRate, nil
}

// GET /api/currency/convert?from=USD&to=EUR&amount=100
func ConvertHandler(cache *RateCache) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
		defer cancel()

		q := r.URL.Query()
		from, to := q.Get("from"), q.Get("to")
		amount, err := strconv.ParseFloat(q.Get("amount"), 64)
		if err != nil || amount < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid amount")
			return
		}

		converted, err := cache.Convert(ctx, from, to, amount)
		if err != nil {
			if errors.Is(err, ErrUnsupportedCurrency) {
				utils.RespondWithError(w, http.StatusBadRequest, "Unsupported currency")
				return
			}
			utils.RespondWithError(w, http.StatusBadGateway, "Exchange rates unavailable")
			return
		}

		utils.RespondWithJSON(w, http.StatusOK, map[string]any{
			"from":      strings.ToUpper(from),
			"to":        strings.ToUpper(to),
			"amount":    amount,
			"converted": converted,
		})
	}
}
