// Load envs from .env
// Load YAML config
// Override from env
// Provide default values and validate

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"go-job-trend-analyzer/internal/logger"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when neither --config nor CONFIG_PATH is given.
const DefaultPath = "configs/config.yaml"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// MaxPages bounds the pages-per-site parameter accepted from users.
const MaxPages = 5

type Config struct {
	DataPath string        `yaml:"data_path"`
	CacheTTL time.Duration `yaml:"cache_ttl"`

	Search   SearchConfig   `yaml:"search"`
	HTTP     HTTPConfig     `yaml:"http"`
	Indeed   IndeedConfig   `yaml:"indeed"`
	LinkedIn LinkedInConfig `yaml:"linkedin"`
	Server   ServerConfig   `yaml:"server"`
	Log      logger.Config  `yaml:"log"`
	Telegram TelegramConfig `yaml:"telegram"`
}

// SearchConfig holds the dashboard's default search parameters.
type SearchConfig struct {
	Term     string `yaml:"term"`
	Location string `yaml:"location"`
	Pages    int    `yaml:"pages"`
}

type HTTPConfig struct {
	UserAgent string `yaml:"user_agent"`
	// Timeout of zero leaves requests unbounded.
	Timeout time.Duration `yaml:"timeout"`
}

type IndeedConfig struct {
	BaseURL string `yaml:"base_url"`
}

type LinkedInConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Headless    *bool         `yaml:"headless"`
	SettleWait  time.Duration `yaml:"settle_wait"`
	ScrollPause time.Duration `yaml:"scroll_pause"`
	RevealWait  time.Duration `yaml:"reveal_wait"`
	// ScreenshotDir enables a debug screenshot whenever a description reveal fails.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

type ServerConfig struct {
	Port  int  `yaml:"port"`
	Debug bool `yaml:"debug"`
}

// TelegramConfig is optional; notifications are off unless both fields are set.
type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// Enabled reports whether scrape summaries should be sent.
func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

// IsHeadless defaults to true.
func (l LinkedInConfig) IsHeadless() bool {
	return l.Headless == nil || *l.Headless
}

// Path resolves the config file location: explicit flag, then CONFIG_PATH, then DefaultPath.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads .env, the YAML file at path (a missing file is not an error),
// applies environment overrides and defaults, then validates.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("JOBTRENDS_DATA_PATH"); v != "" {
		c.DataPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
		c.Server.Port = port
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		c.Telegram.Token = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}
	return nil
}

// SetDefaults fills every unset field.
func (c *Config) SetDefaults() {
	if c.DataPath == "" {
		c.DataPath = "data/jobs_data.csv"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.Search.Term == "" {
		c.Search.Term = "Data Analyst"
	}
	if c.Search.Pages == 0 {
		c.Search.Pages = 1
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = defaultUserAgent
	}
	if c.Indeed.BaseURL == "" {
		c.Indeed.BaseURL = "https://www.indeed.com"
	}
	if c.LinkedIn.BaseURL == "" {
		c.LinkedIn.BaseURL = "https://www.linkedin.com"
	}
	if c.LinkedIn.SettleWait == 0 {
		c.LinkedIn.SettleWait = 3 * time.Second
	}
	if c.LinkedIn.ScrollPause == 0 {
		c.LinkedIn.ScrollPause = 1 * time.Second
	}
	if c.LinkedIn.RevealWait == 0 {
		c.LinkedIn.RevealWait = 2 * time.Second
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8501
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate rejects values the application cannot run with.
func (c *Config) Validate() error {
	if c.Search.Pages < 1 || c.Search.Pages > MaxPages {
		return fmt.Errorf("search.pages must be between 1 and %d, got %d", MaxPages, c.Search.Pages)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}
