package shelterapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"shelter-vax-bot/internal/domain/animals"
	"shelter-vax-bot/internal/domain/vaccines"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL:  url,
		APIKey:   "test-key",
		Timeout:  2 * time.Second,
		PageSize: 2,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestScheduledVaccines_Pagination(t *testing.T) {
	all := []vaccines.RawRecord{
		{ID: "v1", AnimalID: "a1"},
		{ID: "v2", AnimalID: "a1"},
		{ID: "v3", AnimalID: "a2"},
		{ID: "v4", AnimalID: "a3"},
		{ID: "v5", AnimalID: "a3"},
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/v1/vaccines/scheduled" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		end := offset + limit
		if end > len(all) {
			end = len(all)
		}
		page := recordsPage{
			Records: all[offset:end],
			HasMore: end < len(all),
		}
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)

	recs, err := c.ScheduledVaccines(context.Background())
	if err != nil {
		t.Fatalf("ScheduledVaccines: %v", err)
	}
	if len(recs) != 5 {
		t.Fatalf("expected 5 records across pages, got %d", len(recs))
	}
	if recs[4].ID != "v5" {
		t.Fatalf("expected last record v5, got %s", recs[4].ID)
	}
}

func TestScheduledVaccines_Unauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)

	_, err := c.ScheduledVaccines(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAnimal_Lookup(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/animals/a1":
			_ = json.NewEncoder(w).Encode(animalResponse{ID: "a1", Name: "Rico", PhotoURL: "https://img/rico.jpg"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)

	a, err := c.Animal(context.Background(), "a1")
	if err != nil {
		t.Fatalf("Animal: %v", err)
	}
	if a.Name != "Rico" || a.PhotoURL == "" {
		t.Fatalf("unexpected animal: %+v", a)
	}

	// 404 => skip suave
	_, err = c.Animal(context.Background(), "ghost")
	if !errors.Is(err, animals.ErrNotFound) {
		t.Fatalf("expected animals.ErrNotFound, got %v", err)
	}
}

func TestClient_NotConfigured(t *testing.T) {
	c, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := c.ScheduledVaccines(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := c.Animal(context.Background(), "a1"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
