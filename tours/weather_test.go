package tours

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWeatherLookupCachesPerDestination(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"weather":[{"description":"clear sky"}],"main":{"temp":21.5,"humidity":40}}`))
	}))
	defer srv.Close()

	svc := NewWeatherService(srv.URL, "test-key")

	first, err := svc.Lookup(context.Background(), "Lisbon")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if first.Description != "clear sky" || first.TempC != 21.5 {
		t.Fatalf("unexpected report: %+v", first)
	}

	if _, err := svc.Lookup(context.Background(), "Lisbon"); err != nil {
		t.Fatalf("cached Lookup: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", calls)
	}

	if _, err := svc.Lookup(context.Background(), "Porto"); err != nil {
		t.Fatalf("second destination Lookup: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected a fresh call per destination, got %d", calls)
	}
}

func TestWeatherLookupExpiredEntryRefetches(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"weather":[],"main":{"temp":10,"humidity":80}}`))
	}))
	defer srv.Close()

	svc := NewWeatherService(srv.URL, "test-key")
	svc.ttl = -time.Second // every entry is stale immediately

	for i := 0; i < 3; i++ {
		if _, err := svc.Lookup(context.Background(), "Oslo"); err != nil {
			t.Fatalf("Lookup %d: %v", i, err)
		}
	}
	if calls != 3 {
		t.Fatalf("expected stale entries to refetch, got %d calls", calls)
	}
}

func TestWeatherLookupProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewWeatherService(srv.URL, "test-key")
	if _, err := svc.Lookup(context.Background(), "Atlantis"); err == nil {
		t.Fatal("expected an error from a failing provider")
	}
	if len(svc.cache) != 0 {
		t.Fatal("failures must not be cached")
	}
}
