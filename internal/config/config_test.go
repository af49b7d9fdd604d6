package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CONFIG_FILE", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_PATH", "/tmp/season.db")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("REMINDER_INTERVAL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GetDSN() != "/tmp/season.db" {
		t.Errorf("expected sqlite path DSN, got %q", cfg.GetDSN())
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Telegram.ChatID != -100123 {
		t.Errorf("expected chat id -100123, got %d", cfg.Telegram.ChatID)
	}
	if cfg.Reminder.Interval != 30*time.Minute {
		t.Errorf("expected 30m interval, got %s", cfg.Reminder.Interval)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port, got %q", cfg.Server.Port)
	}
}

func TestLoadYAMLThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  driver: postgres
  host: db.internal
  name: pool
server:
  port: "9090"
export:
  bucket: reports
  prefix: seasons
reminder:
  enabled: false
  interval: 2h
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.Host != "db.internal" {
		t.Errorf("yaml database not applied: %+v", cfg.Database)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("expected env to override yaml port, got %q", cfg.Server.Port)
	}
	if cfg.Export.Bucket != "reports" || cfg.Reminder.Enabled {
		t.Errorf("yaml export/reminder not applied: %+v %+v", cfg.Export, cfg.Reminder)
	}
	if cfg.Reminder.Interval != 2*time.Hour {
		t.Errorf("expected 2h interval, got %s", cfg.Reminder.Interval)
	}
	want := "host=db.internal port=5432 user=postgres password= dbname=pool sslmode=disable"
	if cfg.GetDSN() != want {
		t.Errorf("unexpected DSN %q", cfg.GetDSN())
	}
}

func TestLoadRejectsBadChatID(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid chat id")
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := Defaults()
	cfg.App.Timezone = "Nowhere/Invalid"
	if cfg.Location() != time.UTC {
		t.Errorf("expected UTC fallback, got %s", cfg.Location())
	}
}
