package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"shelter-vax-bot/internal/domain/vaccines"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("VAXBOT_CONFIG", "")

	cfg := Load()
	if cfg.Windows.AttentionDays != 14 || cfg.Windows.UpcomingDays != 30 {
		t.Fatalf("unexpected default windows: %+v", cfg.Windows)
	}
	if cfg.Shelter.PageSize != 100 || cfg.Shelter.APIKeyHeader != "X-Api-Key" {
		t.Fatalf("unexpected shelter defaults: %+v", cfg.Shelter)
	}
	if cfg.Scheduler.Every.Std() != 24*time.Hour {
		t.Fatalf("unexpected scheduler default: %v", cfg.Scheduler.Every.Std())
	}
	if len(cfg.FamilyRules()) != 3 {
		t.Fatalf("expected curated family rules by default")
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vaxbot.yaml")

	body := `
shelter:
  baseUrl: https://api.example.org
  apiKey: file-key
windows:
  attentionDays: 7
  upcomingDays: 21
families:
  - family: bordetella
    keywords: ["kennel"]
scheduler:
  every: 1h
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("VAXBOT_CONFIG", path)
	t.Setenv("SHELTER_API_KEY", "env-key") // env gana sobre archivo
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.example.org/x")

	cfg := Load()

	if cfg.Shelter.BaseURL != "https://api.example.org" {
		t.Fatalf("expected baseUrl from file, got %q", cfg.Shelter.BaseURL)
	}
	if cfg.Shelter.APIKey != "env-key" {
		t.Fatalf("expected env override, got %q", cfg.Shelter.APIKey)
	}
	if cfg.Slack.WebhookURL != "https://hooks.example.org/x" {
		t.Fatalf("expected slack webhook from env, got %q", cfg.Slack.WebhookURL)
	}
	if cfg.Windows.AttentionDays != 7 || cfg.Windows.UpcomingDays != 21 {
		t.Fatalf("expected windows from file, got %+v", cfg.Windows)
	}
	if cfg.Scheduler.Every.Std() != time.Hour {
		t.Fatalf("expected 1h scheduler, got %v", cfg.Scheduler.Every.Std())
	}

	rules := cfg.FamilyRules()
	if len(rules) != 1 || rules[0].Family != vaccines.FamilyBordetella {
		t.Fatalf("expected single bordetella rule from file, got %+v", rules)
	}

	// Los ceros del archivo no pisan defaults obligatorios
	if cfg.Shelter.PageSize != 100 || cfg.Shelter.Timeout.Std() != 10*time.Second {
		t.Fatalf("expected filled defaults, got %+v", cfg.Shelter)
	}
}

func TestLoad_BrokenFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(path, []byte("windows: [unclosed"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("VAXBOT_CONFIG", path)

	cfg := Load()
	if cfg.Windows.AttentionDays != 14 {
		t.Fatalf("expected defaults on parse failure, got %+v", cfg.Windows)
	}
}
