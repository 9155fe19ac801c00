package store

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	AccessStoreMemory = "MEMORY"
	AccessStoreRedis  = "REDIS"

	ProviderOpenAI = "OPENAI"
	ProviderClaude = "CLAUDE"
	ProviderNone   = "NONE"
)

type Config struct {
	Telegram struct {
		Token         string `yaml:"-"`
		ChannelID     string `yaml:"channel_id"`
		UpdateTimeout int    `yaml:"update_timeout"`
	} `yaml:"telegram"`
	Access struct {
		Secret              string `yaml:"-"`
		Store               string `yaml:"store"`
		RedisAddr           string `yaml:"redis_addr"`
		RedisPassword       string `yaml:"-"`
		RedisKey            string `yaml:"redis_key"`
		PublishRequiresAuth bool   `yaml:"publish_requires_auth"`
	} `yaml:"access"`
	Odds struct {
		APIKey      string `yaml:"-"`
		BaseURL     string `yaml:"base_url"`
		BookmakerID int    `yaml:"bookmaker_id"`
		Min         string `yaml:"min"`
		Max         string `yaml:"max"`
		TimeoutSec  int    `yaml:"timeout_seconds"`
		PerMinute   int    `yaml:"requests_per_minute"`
	} `yaml:"odds"`
	Schedule struct {
		Cron     string `yaml:"cron"`
		Timezone string `yaml:"timezone"`
	} `yaml:"schedule"`
	LLM struct {
		Provider    string  `yaml:"provider"`
		Model       string  `yaml:"model"`
		Endpoint    string  `yaml:"endpoint"`
		APIKey      string  `yaml:"-"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"llm"`
	Journal struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"journal"`
	HealthAddr string `yaml:"health_addr"`
}

// OddsRange returns the parsed acceptance bounds. A zero max means the
// range has no upper bound.
func (c *Config) OddsRange() (low, high decimal.Decimal, err error) {
	low, err = decimal.NewFromString(strings.TrimSpace(c.Odds.Min))
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("odds.min %q: %w", c.Odds.Min, err)
	}
	if strings.TrimSpace(c.Odds.Max) == "" {
		return low, decimal.Zero, nil
	}
	high, err = decimal.NewFromString(strings.TrimSpace(c.Odds.Max))
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("odds.max %q: %w", c.Odds.Max, err)
	}
	return low, high, nil
}

// Location loads the schedule time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Schedule.Timezone)
}

func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	if c.Telegram.ChannelID == "" {
		return errors.New("TELEGRAM_CHANNEL_ID is required")
	}
	if c.Access.Secret == "" {
		return errors.New("BOT_PASSWORD is required")
	}
	if c.Access.Store != AccessStoreMemory && c.Access.Store != AccessStoreRedis {
		return fmt.Errorf("invalid access.store '%s': must be 'MEMORY' or 'REDIS'", c.Access.Store)
	}
	if c.Odds.APIKey == "" {
		return errors.New("API_FOOTBALL_KEY is required")
	}
	if c.Odds.BookmakerID <= 0 {
		return fmt.Errorf("odds.bookmaker_id must be positive, got %d", c.Odds.BookmakerID)
	}
	low, high, err := c.OddsRange()
	if err != nil {
		return err
	}
	if !low.IsPositive() {
		return fmt.Errorf("odds.min must be positive, got %s", low)
	}
	if !high.IsZero() && high.LessThan(low) {
		return fmt.Errorf("odds.max %s is below odds.min %s", high, low)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid schedule.timezone '%s': %w", c.Schedule.Timezone, err)
	}
	if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
		return fmt.Errorf("invalid schedule.cron '%s': %w", c.Schedule.Cron, err)
	}
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderClaude:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("API key missing for llm.provider %s", c.LLM.Provider)
		}
	case ProviderNone:
	default:
		return fmt.Errorf("llm.provider must be 'OPENAI', 'CLAUDE' or 'NONE', got '%s'", c.LLM.Provider)
	}
	return nil
}

// LoadConfig reads the optional YAML file at path, applies environment
// overrides and defaults, then validates. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	applyEnv(&c)
	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func applyEnv(c *Config) {
	setString(&c.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	setString(&c.Telegram.ChannelID, "TELEGRAM_CHANNEL_ID")
	setString(&c.Access.Secret, "BOT_PASSWORD")
	setString(&c.Access.Store, "ACCESS_STORE")
	setString(&c.Access.RedisAddr, "REDIS_ADDR")
	setString(&c.Access.RedisPassword, "REDIS_PASSWORD")
	setBool(&c.Access.PublishRequiresAuth, "PUBLISH_REQUIRES_AUTH")
	setString(&c.Odds.APIKey, "API_FOOTBALL_KEY")
	setString(&c.Odds.BaseURL, "API_FOOTBALL_URL")
	setInt(&c.Odds.BookmakerID, "ODDS_BOOKMAKER_ID")
	setString(&c.Odds.Min, "ODDS_MIN")
	setString(&c.Odds.Max, "ODDS_MAX")
	setInt(&c.Odds.PerMinute, "ODDS_REQUESTS_PER_MINUTE")
	setString(&c.Schedule.Cron, "SCHEDULE_CRON")
	setString(&c.Schedule.Timezone, "SCHEDULE_TZ")
	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.LLM.Model, "OPENAI_MODEL")
	setString(&c.LLM.Endpoint, "LLM_ENDPOINT")
	setString(&c.Journal.Dir, "PICK_LOG_DIR")
	setInt(&c.Journal.RetentionDays, "PICK_LOG_RETENTION_DAYS")
	setString(&c.HealthAddr, "HEALTH_ADDR")
	c.Access.Store = strings.ToUpper(c.Access.Store)
	c.LLM.Provider = strings.ToUpper(c.LLM.Provider)
}

func applyDefaults(c *Config) {
	if c.Telegram.UpdateTimeout == 0 {
		c.Telegram.UpdateTimeout = 60
	}
	if c.Access.Store == "" {
		c.Access.Store = AccessStoreMemory
	}
	if c.Access.RedisAddr == "" {
		c.Access.RedisAddr = "localhost:6379"
	}
	if c.Access.RedisKey == "" {
		c.Access.RedisKey = "pickbot:authorized"
	}
	if c.Odds.BaseURL == "" {
		c.Odds.BaseURL = "https://v3.football.api-sports.io"
	}
	if c.Odds.BookmakerID == 0 {
		c.Odds.BookmakerID = 1
	}
	if c.Odds.Min == "" {
		c.Odds.Min = "1.50"
	}
	if c.Odds.Max == "" {
		c.Odds.Max = "1.95"
	}
	if c.Odds.TimeoutSec == 0 {
		c.Odds.TimeoutSec = 30
	}
	// Negative disables client-side throttling.
	if c.Odds.PerMinute == 0 {
		c.Odds.PerMinute = 10
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "0 9 * * *"
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "America/Lima"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderOpenAI
	}
	if c.LLM.Model == "" {
		switch c.LLM.Provider {
		case ProviderClaude:
			c.LLM.Model = "claude-3-5-haiku-latest"
		default:
			c.LLM.Model = "gpt-4o-mini"
		}
	}
	switch c.LLM.Provider {
	case ProviderOpenAI:
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	case ProviderClaude:
		c.LLM.APIKey = os.Getenv("CLAUDE_API_KEY")
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 300
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.8
	}
	// An unset HEALTH_ADDR keeps the default; "off" disables the server.
	if c.HealthAddr == "" {
		c.HealthAddr = ":8081"
	}
	if strings.EqualFold(c.HealthAddr, "off") {
		c.HealthAddr = ""
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
