package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHANNEL_ID", "@picks")
	t.Setenv("BOT_PASSWORD", "s3cret")
	t.Setenv("API_FOOTBALL_KEY", "football-key")
	t.Setenv("OPENAI_API_KEY", "sk-test")
}

func missingPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.yaml")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig(missingPath(t))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Schedule.Cron != "0 9 * * *" {
		t.Errorf("Expected default cron '0 9 * * *', got %q", cfg.Schedule.Cron)
	}
	if cfg.Schedule.Timezone != "America/Lima" {
		t.Errorf("Expected default timezone America/Lima, got %q", cfg.Schedule.Timezone)
	}
	if cfg.Odds.BookmakerID != 1 {
		t.Errorf("Expected bookmaker 1, got %d", cfg.Odds.BookmakerID)
	}
	if cfg.Access.Store != AccessStoreMemory {
		t.Errorf("Expected MEMORY store, got %s", cfg.Access.Store)
	}
	if cfg.LLM.Provider != ProviderOpenAI || cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("Expected OPENAI/gpt-4o-mini, got %s/%s", cfg.LLM.Provider, cfg.LLM.Model)
	}
	if cfg.HealthAddr != ":8081" {
		t.Errorf("Expected health addr :8081, got %q", cfg.HealthAddr)
	}

	low, high, err := cfg.OddsRange()
	if err != nil {
		t.Fatalf("Expected valid range, got %v", err)
	}
	if low.String() != "1.5" || high.String() != "1.95" {
		t.Errorf("Expected range [1.5, 1.95], got [%s, %s]", low, high)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ODDS_MIN", "1.3")
	t.Setenv("ODDS_MAX", "0")
	t.Setenv("SCHEDULE_TZ", "Europe/Madrid")
	t.Setenv("ACCESS_STORE", "redis")
	t.Setenv("LLM_PROVIDER", "none")
	t.Setenv("HEALTH_ADDR", "off")
	t.Setenv("PUBLISH_REQUIRES_AUTH", "true")

	cfg, err := LoadConfig(missingPath(t))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Access.Store != AccessStoreRedis {
		t.Errorf("Expected REDIS store, got %s", cfg.Access.Store)
	}
	if cfg.LLM.Provider != ProviderNone {
		t.Errorf("Expected NONE provider, got %s", cfg.LLM.Provider)
	}
	if cfg.HealthAddr != "" {
		t.Errorf("Expected health server disabled, got %q", cfg.HealthAddr)
	}
	if !cfg.Access.PublishRequiresAuth {
		t.Error("Expected publish to require auth")
	}
	_, high, _ := cfg.OddsRange()
	if !high.IsZero() {
		t.Errorf("Expected open upper bound, got %s", high)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Europe/Madrid" {
		t.Errorf("Expected Europe/Madrid, got %v (%v)", loc, err)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	setRequiredEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
telegram:
  channel_id: "-100123"
odds:
  min: "1.60"
  max: "2.10"
  bookmaker_id: 8
schedule:
  cron: "30 8 * * *"
llm:
  model: gpt-4o
  max_tokens: 200
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TELEGRAM_CHANNEL_ID", "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Telegram.ChannelID != "-100123" {
		t.Errorf("Expected channel from file, got %q", cfg.Telegram.ChannelID)
	}
	if cfg.Odds.BookmakerID != 8 || cfg.Schedule.Cron != "30 8 * * *" {
		t.Errorf("Unexpected odds/schedule: %d %q", cfg.Odds.BookmakerID, cfg.Schedule.Cron)
	}
	if cfg.LLM.Model != "gpt-4o" || cfg.LLM.MaxTokens != 200 {
		t.Errorf("Unexpected llm settings: %s %d", cfg.LLM.Model, cfg.LLM.MaxTokens)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing token", map[string]string{"TELEGRAM_BOT_TOKEN": ""}, "TELEGRAM_BOT_TOKEN"},
		{"missing secret", map[string]string{"BOT_PASSWORD": ""}, "BOT_PASSWORD"},
		{"inverted range", map[string]string{"ODDS_MIN": "2.0", "ODDS_MAX": "1.5"}, "below odds.min"},
		{"bad odd", map[string]string{"ODDS_MIN": "abc"}, "odds.min"},
		{"bad zone", map[string]string{"SCHEDULE_TZ": "Mars/Olympus"}, "schedule.timezone"},
		{"bad cron", map[string]string{"SCHEDULE_CRON": "every day"}, "schedule.cron"},
		{"bad provider", map[string]string{"LLM_PROVIDER": "BARD"}, "llm.provider"},
		{"missing llm key", map[string]string{"OPENAI_API_KEY": ""}, "API key missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(missingPath(t))
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfigJournalAndThrottle(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig(missingPath(t))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Odds.PerMinute != 10 {
		t.Errorf("Expected 10 requests/minute by default, got %d", cfg.Odds.PerMinute)
	}
	if cfg.Journal.Dir != "" {
		t.Errorf("Expected journal off by default, got %q", cfg.Journal.Dir)
	}

	t.Setenv("ODDS_REQUESTS_PER_MINUTE", "-1")
	t.Setenv("PICK_LOG_DIR", "/var/log/pickbot")
	t.Setenv("PICK_LOG_RETENTION_DAYS", "14")
	cfg, err = LoadConfig(missingPath(t))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Odds.PerMinute != -1 || cfg.Journal.Dir != "/var/log/pickbot" || cfg.Journal.RetentionDays != 14 {
		t.Errorf("Unexpected overrides: per_minute=%d dir=%q retention=%d",
			cfg.Odds.PerMinute, cfg.Journal.Dir, cfg.Journal.RetentionDays)
	}
}
