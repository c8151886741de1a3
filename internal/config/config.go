package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Tickers  []string `yaml:"tickers"`
	Email    string   `yaml:"email"`
	Password string   `yaml:"password"`
	ToEmail  string   `yaml:"to_email"`
	ToSMS    string   `yaml:"to_sms"`

	Venue   string `yaml:"venue"`
	Subject string `yaml:"subject"`
	LogFile string `yaml:"log_file"`

	SMTP struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"smtp"`
	DataSource struct {
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
		Lookback string `yaml:"lookback"`
		Interval string `yaml:"interval"`
	} `yaml:"data_source"`
	Schedule struct {
		Interval time.Duration `yaml:"interval"`
		Cron     string        `yaml:"cron"`
	} `yaml:"schedule"`
	Fetch struct {
		Timeout     time.Duration `yaml:"timeout"`
		Concurrency int           `yaml:"concurrency"`
	} `yaml:"fetch"`
	Dispatch struct {
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"dispatch"`
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML (or JSON) file, then applies environment
// variable overrides and defaults. A missing file is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Environment variable overrides
	overrides := []struct {
		env string
		dst *string
	}{
		{"ALERT_EMAIL", &cfg.Email},
		{"ALERT_EMAIL_PASSWORD", &cfg.Password},
		{"ALERT_TO_EMAIL", &cfg.ToEmail},
		{"ALERT_TO_SMS", &cfg.ToSMS},
		{"TELEGRAM_BOT_TOKEN", &cfg.Telegram.BotToken},
		{"TELEGRAM_CHAT_ID", &cfg.Telegram.ChatID},
		{"VSTRADER_BASE_URL", &cfg.DataSource.BaseURL},
		{"VSTRADER_API_KEY", &cfg.DataSource.APIKey},
		{"HTTPS_PROXY", &cfg.Proxy},
		{"SQLITE_PATH", &cfg.Database.SQLitePath},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}

	cfg.Tickers = cleanTickers(cfg.Tickers)

	// Defaults
	if cfg.Venue == "" {
		cfg.Venue = "Robinhood"
	}
	if cfg.Subject == "" {
		cfg.Subject = "📈 SignalSentinel Alert"
	}
	if cfg.LogFile == "" {
		cfg.LogFile = "alerts.log"
	}
	if cfg.SMTP.Host == "" {
		cfg.SMTP.Host = "smtp.gmail.com"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 465
	}
	if cfg.DataSource.Lookback == "" {
		cfg.DataSource.Lookback = "6mo"
	}
	if cfg.DataSource.Interval == "" {
		cfg.DataSource.Interval = "1d"
	}
	if cfg.Schedule.Interval == 0 {
		cfg.Schedule.Interval = 15 * time.Minute
	}
	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = 30 * time.Second
	}
	if cfg.Fetch.Concurrency == 0 {
		cfg.Fetch.Concurrency = 4
	}
	if cfg.Dispatch.Timeout == 0 {
		cfg.Dispatch.Timeout = time.Minute
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	return cfg, nil
}

func cleanTickers(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if len(c.Tickers) == 0 {
		return fmt.Errorf("tickers must list at least one symbol")
	}
	if c.Email == "" {
		return fmt.Errorf("email is required")
	}
	if c.Password == "" {
		return fmt.Errorf("password is required")
	}
	if c.ToEmail == "" {
		return fmt.Errorf("to_email is required")
	}
	if c.ToSMS == "" {
		return fmt.Errorf("to_sms is required")
	}
	if c.Schedule.Interval < 0 {
		return fmt.Errorf("schedule.interval must not be negative")
	}
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch.timeout must not be negative")
	}
	if c.Fetch.Concurrency < 0 {
		return fmt.Errorf("fetch.concurrency must not be negative")
	}
	if c.Dispatch.Timeout < 0 {
		return fmt.Errorf("dispatch.timeout must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	switch c.DataSource.Interval {
	case "1d", "1wk", "1mo":
	default:
		return fmt.Errorf("data_source.interval %q is not one of 1d, 1wk, 1mo", c.DataSource.Interval)
	}
	return nil
}

// TelegramEnabled reports whether Telegram dispatch is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// ListenAddr is the liveness server address.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
