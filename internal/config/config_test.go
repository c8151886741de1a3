package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"ALERT_EMAIL", "ALERT_EMAIL_PASSWORD", "ALERT_TO_EMAIL", "ALERT_TO_SMS",
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "VSTRADER_BASE_URL", "VSTRADER_API_KEY",
	"HTTPS_PROXY", "SQLITE_PATH", "PORT",
}

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const yamlConfig = `
tickers: [AAPL, " MSFT ", ""]
email: bot@example.com
password: secret
to_email: me@example.com
to_sms: 5551234567@vtext.com
schedule:
  interval: 5m
fetch:
  timeout: 10s
`

func TestLoad_YAMLWithDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", yamlConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if len(cfg.Tickers) != 2 || cfg.Tickers[0] != "AAPL" || cfg.Tickers[1] != "MSFT" {
		t.Errorf("tickers = %q", cfg.Tickers)
	}
	if cfg.Schedule.Interval != 5*time.Minute {
		t.Errorf("interval = %v", cfg.Schedule.Interval)
	}
	if cfg.Fetch.Timeout != 10*time.Second || cfg.Fetch.Concurrency != 4 {
		t.Errorf("fetch = %+v", cfg.Fetch)
	}
	if cfg.Dispatch.Timeout != time.Minute {
		t.Errorf("dispatch timeout default = %v", cfg.Dispatch.Timeout)
	}
	if cfg.Venue != "Robinhood" || cfg.LogFile != "alerts.log" {
		t.Errorf("venue/log_file defaults: %q %q", cfg.Venue, cfg.LogFile)
	}
	if cfg.SMTP.Host != "smtp.gmail.com" || cfg.SMTP.Port != 465 {
		t.Errorf("smtp defaults: %+v", cfg.SMTP)
	}
	if cfg.DataSource.Lookback != "6mo" || cfg.DataSource.Interval != "1d" {
		t.Errorf("data source defaults: %+v", cfg.DataSource)
	}
	if cfg.ListenAddr() != "0.0.0.0:8080" {
		t.Errorf("listen addr = %q", cfg.ListenAddr())
	}
	if cfg.TelegramEnabled() {
		t.Error("telegram should be disabled")
	}
}

func TestLoad_JSON(t *testing.T) {
	body := `{
  "tickers": ["AAPL", "TSLA", "DOGE-USD"],
  "email": "bot@example.com",
  "password": "secret",
  "to_email": "me@example.com",
  "to_sms": "5551234567@vtext.com"
}`
	cfg, err := Load(writeConfig(t, "config.txt", body))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if strings.Join(cfg.Tickers, ",") != "AAPL,TSLA,DOGE-USD" {
		t.Errorf("tickers = %q", cfg.Tickers)
	}
	if cfg.Schedule.Interval != 15*time.Minute {
		t.Errorf("default interval = %v", cfg.Schedule.Interval)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "config.yaml", yamlConfig)
	t.Setenv("ALERT_EMAIL_PASSWORD", "from-env")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("PORT", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Password != "from-env" {
		t.Errorf("password = %q", cfg.Password)
	}
	if !cfg.TelegramEnabled() {
		t.Error("telegram should be enabled")
	}
	if cfg.ListenAddr() != "0.0.0.0:9090" {
		t.Errorf("listen addr = %q", cfg.ListenAddr())
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "bad.yaml", "tickers: [AAPL\nemail")); err == nil {
		t.Error("expected error for malformed file")
	}

	path := writeConfig(t, "config.yaml", yamlConfig)
	t.Setenv("PORT", "http")
	if _, err := Load(path); err == nil {
		t.Error("expected error for non-numeric PORT")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"no tickers", func(c *Config) { c.Tickers = nil }, "tickers"},
		{"no email", func(c *Config) { c.Email = "" }, "email"},
		{"no password", func(c *Config) { c.Password = "" }, "password"},
		{"no to_email", func(c *Config) { c.ToEmail = "" }, "to_email"},
		{"no to_sms", func(c *Config) { c.ToSMS = "" }, "to_sms"},
		{"negative interval", func(c *Config) { c.Schedule.Interval = -time.Minute }, "schedule.interval must not be negative"},
		{"negative fetch timeout", func(c *Config) { c.Fetch.Timeout = -time.Second }, "fetch.timeout must not be negative"},
		{"negative concurrency", func(c *Config) { c.Fetch.Concurrency = -1 }, "fetch.concurrency must not be negative"},
		{"negative dispatch timeout", func(c *Config) { c.Dispatch.Timeout = -time.Second }, "dispatch.timeout must not be negative"},
		{"half telegram", func(c *Config) { c.Telegram.BotToken = "tok" }, "telegram"},
		{"bad interval", func(c *Config) { c.DataSource.Interval = "1h" }, "data_source.interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, "config.yaml", yamlConfig))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}
