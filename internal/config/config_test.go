package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/username/workout-booking/internal/calendar"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
holidays:
  source: api
  api_url: https://holidays.example.com/v1/holidays
  api_key: ${TEST_HOLIDAYS_KEY}
  country: PL
  year: 2024
  timeout: 3s
  fallback_file: holidays.txt
cache:
  ttl: 1h
  redis_addr: localhost:6379
calendar:
  time_slots: ["09:00", "17:45"]
daemon:
  refresh_interval: 6h
  system_tray: true
booking:
  submit_url: https://booking.example.com/submit
  timeout: 5s
log:
  level: debug
`)
	t.Setenv("TEST_HOLIDAYS_KEY", "secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg.ExpandEnvVars()

	if cfg.Holidays.APIKey != "secret" {
		t.Errorf("APIKey = %q, want %q", cfg.Holidays.APIKey, "secret")
	}
	if cfg.Holidays.GetYear(time.Now()) != 2024 {
		t.Errorf("GetYear() = %d, want 2024", cfg.Holidays.GetYear(time.Now()))
	}
	if cfg.Holidays.GetTimeout() != 3*time.Second {
		t.Errorf("GetTimeout() = %v, want 3s", cfg.Holidays.GetTimeout())
	}
	if cfg.Cache.GetTTL() != time.Hour {
		t.Errorf("GetTTL() = %v, want 1h", cfg.Cache.GetTTL())
	}
	if cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.Cache.RedisAddr)
	}
	if !cfg.Holidays.StaticFallback {
		t.Error("StaticFallback default not applied")
	}

	slots := cfg.Calendar.GetTimeSlots()
	want := []calendar.TimeSlot{{Hour: 9}, {Hour: 17, Minute: 45}}
	if len(slots) != len(want) || slots[0] != want[0] || slots[1] != want[1] {
		t.Errorf("GetTimeSlots() = %v, want %v", slots, want)
	}
	if cfg.Booking.SubmitURL != "https://booking.example.com/submit" {
		t.Errorf("Booking.SubmitURL = %q", cfg.Booking.SubmitURL)
	}
	if cfg.Booking.GetTimeout() != 5*time.Second {
		t.Errorf("Booking.GetTimeout() = %v, want 5s", cfg.Booking.GetTimeout())
	}
	if cfg.Daemon.GetRefreshInterval() != 6*time.Hour {
		t.Errorf("Daemon.GetRefreshInterval() = %v, want 6h", cfg.Daemon.GetRefreshInterval())
	}
	if cfg.Daemon.YearsAhead != 1 || !cfg.Daemon.SystemTray {
		t.Errorf("Daemon = %+v, want years_ahead default 1 and system tray on", cfg.Daemon)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() expected error for missing explicit file, got nil")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad source", "holidays:\n  source: carrier-pigeon\n", "holidays.source"},
		{"bad country", "holidays:\n  country: POL\n", "holidays.country"},
		{"bad year", "holidays:\n  year: 24\n", "holidays.year"},
		{"file source without file", "holidays:\n  source: file\n", "fallback_file"},
		{"static source unknown country", "holidays:\n  source: static\n  country: XX\n", "static"},
		{"bad timeout", "holidays:\n  timeout: soon\n", "holidays.timeout"},
		{"bad submit url", "booking:\n  submit_url: letsworkout\n", "booking.submit_url"},
		{"bad refresh interval", "daemon:\n  refresh_interval: -1h\n", "daemon.refresh_interval"},
		{"too many years ahead", "daemon:\n  years_ahead: 10\n", "daemon.years_ahead"},
		{"bad slot", "calendar:\n  time_slots: [\"noon\"]\n", "calendar.time_slots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}

	var empty CalendarConfig
	if got := empty.GetTimeSlots(); len(got) != len(calendar.DefaultSlots) {
		t.Errorf("GetTimeSlots() = %v, want defaults", got)
	}

	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	if got := cfg.Holidays.GetYear(now); got != 2026 {
		t.Errorf("GetYear() = %d, want 2026", got)
	}
	if got := cfg.Holidays.GetTimeout(); got != 10*time.Second {
		t.Errorf("GetTimeout() = %v, want 10s", got)
	}
	if got := cfg.Daemon.GetRefreshInterval(); got != 12*time.Hour {
		t.Errorf("GetRefreshInterval() = %v, want 12h", got)
	}
	if got := (&CacheConfig{TTL: "bogus"}).GetTTL(); got != 24*time.Hour {
		t.Errorf("GetTTL() = %v, want 24h", got)
	}
}
