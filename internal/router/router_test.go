package router_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"shelter-vax-bot/internal/app"
	"shelter-vax-bot/internal/domain/animals"
	"shelter-vax-bot/internal/domain/vaccines"
	"shelter-vax-bot/internal/report"
	"shelter-vax-bot/internal/router"
)

var now = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func seededHolder(t *testing.T) *app.Holder {
	t.Helper()

	rec := vaccines.NewReconciler(now, vaccines.DefaultWindowConfig(), nil)
	sched := strconv.FormatInt(now.Add(10*24*time.Hour).Unix(), 10)
	set, _ := rec.Seed(animals.Animal{ID: "a1", Name: "Rico"}, []vaccines.RawRecord{
		{ID: "s1", AnimalID: "a1", Product: "Rabvac 3 Rabies", ScheduledFor: &sched},
	})

	h := &app.Holder{}
	h.Set(report.Build("run-1", now, []*vaccines.AnimalSet{set}))
	return h
}

func doReq(t *testing.T, base, path, apiKey string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, base+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if apiKey != "" {
		req.Header.Set("X-Api-Key", apiKey)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body
}

func TestRouter_Health(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{Latest: &app.Holder{}}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "/health", "")
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected 200 ok, got %d %q", st, body)
	}
}

func TestRouter_ReportLifecycle(t *testing.T) {
	holder := &app.Holder{}
	ts := httptest.NewServer(router.NewRouter(router.Options{Latest: holder}))
	defer ts.Close()

	// antes de la primera corrida no hay nada que servir
	if st, _ := doReq(t, ts.URL, "/report", ""); st != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before first run, got %d", st)
	}

	seeded := seededHolder(t)
	rep, _ := seeded.Latest()
	holder.Set(rep)

	st, body := doReq(t, ts.URL, "/report", "")
	if st != http.StatusOK {
		t.Fatalf("expected 200 after run, got %d", st)
	}

	var got report.Report
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if got.RunID != "run-1" || got.Summary.NeedsAttention != 1 {
		t.Fatalf("unexpected report: %+v", got)
	}
}

func TestRouter_AnimalRollups(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{Latest: seededHolder(t)}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "/animals/a1/rollups", "")
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, body)
	}

	var got struct {
		Animal  animals.Animal          `json:"animal"`
		Rollups []vaccines.FamilyRollup `json:"rollups"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode rollups: %v", err)
	}
	if got.Animal.Name != "Rico" || len(got.Rollups) != 3 {
		t.Fatalf("unexpected payload: %+v", got)
	}

	if st, _ := doReq(t, ts.URL, "/animals/ghost/rollups", ""); st != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown animal, got %d", st)
	}
}

func TestRouter_APIKeyGate(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{
		Latest: seededHolder(t),
		APIKey: "secret",
	}))
	defer ts.Close()

	if st, _ := doReq(t, ts.URL, "/report", ""); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "/report", "wrong"); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong key, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "/report", "secret"); st != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", st)
	}
	// health queda abierto aun con key configurada
	if st, _ := doReq(t, ts.URL, "/health", ""); st != http.StatusOK {
		t.Fatalf("expected open health endpoint, got %d", st)
	}
}
