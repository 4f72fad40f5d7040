package tours

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"voyago/db"
	"voyago/models"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WeatherReport is the subset of the provider response we expose.
type WeatherReport struct {
	Destination string  `json:"destination"`
	Description string  `json:"description"`
	TempC       float64 `json:"tempC"`
	Humidity    int     `json:"humidity"`
	FetchedAt   string  `json:"fetchedAt"`
}

type weatherEntry struct {
	report  WeatherReport
	expires time.Time
}

// WeatherService fetches destination weather from an external provider
// and caches results per destination for a fixed TTL.
type WeatherService struct {
	baseURL string
	apiKey  string
	client  *http.Client
	ttl     time.Duration

	mu    sync.Mutex
	cache map[string]weatherEntry
}

func NewWeatherService(baseURL, apiKey string) *WeatherService {
	return &WeatherService{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 5 * time.Second},
		ttl:     10 * time.Minute,
		cache:   make(map[string]weatherEntry),
	}
}

var ErrWeatherUnavailable = errors.New("weather provider unavailable")

// Lookup returns the cached report when fresh, otherwise calls the
// provider. A provider failure never caches.
func (s *WeatherService) Lookup(ctx context.Context, destination string) (WeatherReport, error) {
	s.mu.Lock()
	entry, ok := s.cache[destination]
	s.mu.Unlock()
	if ok && time.Now().Before(entry.expires) {
		return entry.report, nil
	}

	report, err := s.fetch(ctx, destination)
	if err != nil {
		return WeatherReport{}, err
	}

	s.mu.Lock()
	s.cache[destination] = weatherEntry{report: report, expires: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	return report, nil
}

func (s *WeatherService) fetch(ctx context.Context, destination string) (WeatherReport, error) {
	endpoint := fmt.Sprintf("%s?q=%s&appid=%s&units=metric",
		s.baseURL, url.QueryEscape(destination), s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return WeatherReport{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return WeatherReport{}, ErrWeatherUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return WeatherReport{}, ErrWeatherUnavailable
	}

	var payload struct {
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return WeatherReport{}, ErrWeatherUnavailable
	}

	report := WeatherReport{
		Destination: destination,
		TempC:       payload.Main.Temp,
		Humidity:    payload.Main.Humidity,
		FetchedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if len(payload.Weather) > 0 {
		report.Description = payload.Weather[0].Description
	}
	return report, nil
}

// GET /api/tours/:id/weather
func WeatherHandler(svc *WeatherService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
		defer cancel()

		var tour models.Tour
		err := db.ToursCollection.FindOne(ctx, bson.M{"tourid": ps.ByName("id")},
			options.FindOne().SetProjection(bson.M{"destination": 1})).Decode(&tour)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
				return
			}
			utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching tour")
			return
		}

		report, err := svc.Lookup(ctx, tour.Destination)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadGateway, "Weather service unavailable")
			return
		}

		utils.RespondWithJSON(w, http.StatusOK, report)
	}
}
