package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"JOBTRENDS_DATA_PATH", "LOG_LEVEL", "PORT", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "CONFIG_PATH"} {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "data/jobs_data.csv", cfg.DataPath)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "Data Analyst", cfg.Search.Term)
	assert.Equal(t, 1, cfg.Search.Pages)
	assert.Equal(t, 8501, cfg.Server.Port)
	assert.Equal(t, "https://www.indeed.com", cfg.Indeed.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.LinkedIn.SettleWait)
	assert.True(t, cfg.LinkedIn.IsHeadless())
	assert.False(t, cfg.Telegram.Enabled())
	assert.Contains(t, cfg.HTTP.UserAgent, "Chrome/91.0.4472.124")
}

func TestLoad_YAMLValues(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
data_path: /tmp/jobs.csv
cache_ttl: 30s
search:
  term: Go Developer
  pages: 3
linkedin:
  headless: false
server:
  port: 9000
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/jobs.csv", cfg.DataPath)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "Go Developer", cfg.Search.Term)
	assert.Equal(t, 3, cfg.Search.Pages)
	assert.False(t, cfg.LinkedIn.IsHeadless())
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JOBTRENDS_DATA_PATH", "/var/data/jobs.csv")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "8080")
	t.Setenv("TELEGRAM_BOT_TOKEN", "abc")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(writeConfig(t, "data_path: ignored.csv\n"))
	require.NoError(t, err)

	assert.Equal(t, "/var/data/jobs.csv", cfg.DataPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Telegram.Enabled())
	assert.Equal(t, int64(42), cfg.Telegram.ChatID)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "bad yaml", body: "search: [unclosed"},
		{name: "pages too high", body: "search:\n  pages: 6\n"},
		{name: "negative pages", body: "search:\n  pages: -1\n"},
		{name: "bad port env", body: "", env: map[string]string{"PORT": "eighty"}},
		{name: "bad chat id", body: "", env: map[string]string{"TELEGRAM_CHAT_ID": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestPath(t *testing.T) {
	clearEnv(t)
	assert.Equal(t, DefaultPath, Path(""))

	t.Setenv("CONFIG_PATH", "/etc/jobs.yaml")
	assert.Equal(t, "/etc/jobs.yaml", Path(""))
	assert.Equal(t, "flag.yaml", Path("flag.yaml"))
}
