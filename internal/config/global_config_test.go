package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/metawatch/internal/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *GlobalConfig {
	cfg := NewDefaultGlobalConfig()
	cfg.Sites.SitemapURLs = []string{"https://www.example.com/sitemap.xml"}
	cfg.NotificationConfig.Email.To = []string{"team@example.com"}
	return cfg
}

func TestNewDefaultGlobalConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()

	assert.Equal(t, DefaultStorageSnapshotPath, cfg.StorageConfig.SnapshotPath)
	assert.Equal(t, 30, cfg.CrawlerConfig.RequestTimeoutSecs)
	assert.Equal(t, "Scraped Data", cfg.ReporterConfig.SheetName)
	assert.Equal(t, "FFFF00", cfg.ReporterConfig.HighlightColor)
	assert.Equal(t, "1/2/2006", cfg.ReporterConfig.DateLayout)
	assert.False(t, cfg.ReporterConfig.BoldHeaders)
	assert.Equal(t, "EMAIL_USER", cfg.NotificationConfig.Email.UserEnv)
	assert.Equal(t, "EMAIL_PASS", cfg.NotificationConfig.Email.PassEnv)
	assert.Equal(t, "info", cfg.LogConfig.LogLevel)
}

func TestLoadGlobalConfig_NoConfigFile(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	t.Chdir(t.TempDir())

	cfg, err := LoadGlobalConfig("", zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, NewDefaultGlobalConfig(), cfg)
}

func TestLoadGlobalConfig_NonExistentFile(t *testing.T) {
	cfg, err := LoadGlobalConfig("/nonexistent/config.json", zerolog.Nop())

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config file does not exist")
}

func TestLoadGlobalConfig_JSONFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.json")
	configData := `{
		"sites": {"sitemap_urls": ["https://a.example.com/sitemap.xml"]},
		"log_config": {"log_level": "debug"},
		"crawler_config": {"user_agent": "test-agent", "max_concurrency": 3}
	}`
	require.NoError(t, os.WriteFile(configFile, []byte(configData), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com/sitemap.xml"}, cfg.Sites.SitemapURLs)
	assert.Equal(t, "debug", cfg.LogConfig.LogLevel)
	assert.Equal(t, "test-agent", cfg.CrawlerConfig.UserAgent)
	assert.Equal(t, 3, cfg.CrawlerConfig.MaxConcurrency)
	assert.Equal(t, DefaultCrawlerRequestTimeoutSecs, cfg.CrawlerConfig.RequestTimeoutSecs, "unset keys keep defaults")
}

func TestLoadGlobalConfig_YAMLFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	configData := `
sites:
  sitemap_urls:
    - https://www.example.com/sitemap.xml
    - https://www.example.com/sitemap-2.xml
storage_config:
  snapshot_path: state/last_run.parquet
  output_dir: reports
reporter_config:
  highlight_color: "FFFF0000"
notification_config:
  email:
    to: [team@example.com]
  discord_webhook_url: https://discord.com/api/webhooks/1/abc
`
	require.NoError(t, os.WriteFile(configFile, []byte(configData), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())

	require.NoError(t, err)
	assert.Len(t, cfg.Sites.SitemapURLs, 2)
	assert.Equal(t, "state/last_run.parquet", cfg.StorageConfig.SnapshotPath)
	assert.Equal(t, "reports", cfg.StorageConfig.OutputDir)
	assert.Equal(t, "FFFF0000", cfg.ReporterConfig.HighlightColor)
	assert.Equal(t, "Scraped Data", cfg.ReporterConfig.SheetName)
	assert.Equal(t, []string{"team@example.com"}, cfg.NotificationConfig.Email.To)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(configFile, []byte("sites: [unclosed"), 0644))

	_, err := LoadGlobalConfig(configFile, zerolog.Nop())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config content")
}

func TestGetConfigPath_Priority(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(envFile, []byte("{}"), 0644))
	t.Setenv(ConfigPathEnv, envFile)

	assert.Equal(t, "flag.yaml", GetConfigPath("flag.yaml"))
	assert.Equal(t, envFile, GetConfigPath(""))

	t.Setenv(ConfigPathEnv, "")
	cwd := t.TempDir()
	t.Chdir(cwd)
	require.NoError(t, os.WriteFile(filepath.Join(cwd, "config.json"), []byte("{}"), 0644))
	assert.Equal(t, filepath.Join(cwd, "config.json"), GetConfigPath(""))
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, ValidateConfig(validConfig()))

	tests := []struct {
		name   string
		mutate func(*GlobalConfig)
		rule   string
	}{
		{"no sitemaps", func(c *GlobalConfig) { c.Sites.SitemapURLs = nil }, "required"},
		{"bad sitemap", func(c *GlobalConfig) { c.Sites.SitemapURLs = []string{"example.com"} }, "urls"},
		{"bad log level", func(c *GlobalConfig) { c.LogConfig.LogLevel = "loud" }, "loglevel"},
		{"bad log format", func(c *GlobalConfig) { c.LogConfig.LogFormat = "xml" }, "logformat"},
		{"bad colour", func(c *GlobalConfig) { c.ReporterConfig.HighlightColor = "yellow" }, "hexcolor"},
		{"bad snapshot ext", func(c *GlobalConfig) { c.StorageConfig.SnapshotPath = "data/last_run.csv" }, "snapshotext"},
		{"bad compression", func(c *GlobalConfig) { c.StorageConfig.ParquetCompression = "lz4" }, "oneof"},
		{"zero concurrency", func(c *GlobalConfig) { c.CrawlerConfig.MaxConcurrency = 0 }, "min"},
		{"missing recipients", func(c *GlobalConfig) { c.NotificationConfig.Email.To = nil }, "required_if"},
		{"bad recipient", func(c *GlobalConfig) { c.NotificationConfig.Email.To = []string{"nobody"} }, "email"},
		{"bad webhook", func(c *GlobalConfig) { c.NotificationConfig.DiscordWebhookURL = "::" }, "url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
			assert.Contains(t, err.Error(), "rule '"+tt.rule+"'")
		})
	}
}

func TestValidateConfig_EmailDisabledNeedsNoRecipients(t *testing.T) {
	cfg := validConfig()
	cfg.NotificationConfig.Email.Enabled = false
	cfg.NotificationConfig.Email.To = nil

	assert.NoError(t, ValidateConfig(cfg))
}

func TestEmailConfig_Credentials(t *testing.T) {
	t.Setenv("EMAIL_USER", "bot@example.com")
	t.Setenv("EMAIL_PASS", "secret")

	email := NewDefaultEmailConfig()
	user, pass := email.Credentials()

	assert.Equal(t, "bot@example.com", user)
	assert.Equal(t, "secret", pass)
	assert.Equal(t, "bot@example.com", email.Sender())
}
