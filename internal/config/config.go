// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	ModeWebhook = "webhook"
	ModePolling = "polling"

	RegistryFile     = "file"
	RegistryPostgres = "postgres"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token       string `yaml:"token" envconfig:"TELEGRAM_BOT_TOKEN"`
	Username    string `yaml:"username" envconfig:"TELEGRAM_BOT_USERNAME"`
	Mode        string `yaml:"mode" envconfig:"BOT_MODE"` // webhook | polling
	PublicURL   string `yaml:"public_url" envconfig:"PUBLIC_URL"`
	WebhookPath string `yaml:"webhook_path" envconfig:"WEBHOOK_PATH"`
	SetWebhook  bool   `yaml:"set_webhook" envconfig:"SET_WEBHOOK"`
	Workers     int    `yaml:"workers" envconfig:"BOT_WORKERS"`
	QueueSize   int    `yaml:"queue_size" envconfig:"BOT_QUEUE_SIZE"`
}

type LogConfig struct {
	Level    string `yaml:"level" envconfig:"LOG_LEVEL"`   // trace|debug|info|warn|error
	Format   string `yaml:"format" envconfig:"LOG_FORMAT"` // json|console
	Sampling bool   `yaml:"sampling"`
}

type HTTPConfig struct {
	Port           int           `yaml:"port" envconfig:"PORT"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type RegistryConfig struct {
	Driver string `yaml:"driver" envconfig:"REGISTRY_DRIVER"` // file | postgres
	Path   string `yaml:"path" envconfig:"REGISTRY_PATH"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url" envconfig:"DATABASE_URL"`
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	URL                string `yaml:"url" envconfig:"REDIS_URL"`
	Password           string `yaml:"password" envconfig:"REDIS_PASSWORD"`
	DB                 int    `yaml:"db"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
}

type UpstreamConfig struct {
	PaymentStatusURL string        `yaml:"payment_status_url" envconfig:"PAYMENT_STATUS_URL"`
	BlacklistURL     string        `yaml:"blacklist_url" envconfig:"BLACKLIST_URL"`
	BlacklistComment string        `yaml:"blacklist_comment"`
	DescriptorsURL   string        `yaml:"descriptors_url" envconfig:"DESCRIPTORS_URL"`
	DescriptorsPath  string        `yaml:"descriptors_path" envconfig:"DESCRIPTORS_PATH"`
	PingURL          string        `yaml:"ping_url" envconfig:"PING_URL"`
	Timeout          time.Duration `yaml:"timeout" envconfig:"UPSTREAM_TIMEOUT"`
}

type ConversationConfig struct {
	StateTTL time.Duration `yaml:"state_ttl"`
}

type Config struct {
	Bot          BotConfig          `yaml:"bot"`
	Log          LogConfig          `yaml:"log"`
	HTTP         HTTPConfig         `yaml:"http"`
	Registry     RegistryConfig     `yaml:"registry"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Upstream     UpstreamConfig     `yaml:"upstream"`
	Conversation ConversationConfig `yaml:"conversation"`

	Runtime RuntimeConfig `yaml:"-" ignored:"true"`
}

// LoadConfig reads the YAML file at path (a missing file is allowed, the
// environment may carry everything), applies environment overrides, then
// defaults and validation.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
			// env only
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	cfg.Runtime.Dev = dev
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize fills defaults and validates required fields.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}

	// defaults
	cfg.Bot.Mode = strings.ToLower(strings.TrimSpace(cfg.Bot.Mode))
	if cfg.Bot.Mode == "" {
		cfg.Bot.Mode = ModeWebhook
	}
	if cfg.Bot.WebhookPath == "" {
		cfg.Bot.WebhookPath = "/api/bot"
	}
	if !strings.HasPrefix(cfg.Bot.WebhookPath, "/") {
		cfg.Bot.WebhookPath = "/" + cfg.Bot.WebhookPath
	}
	cfg.Bot.Username = strings.TrimPrefix(strings.TrimSpace(cfg.Bot.Username), "@")
	cfg.Bot.PublicURL = strings.TrimRight(strings.TrimSpace(cfg.Bot.PublicURL), "/")
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Bot.QueueSize <= 0 {
		cfg.Bot.QueueSize = cfg.Bot.Workers * 4
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.HTTP.RequestTimeout <= 0 {
		cfg.HTTP.RequestTimeout = 10 * time.Second
	}
	cfg.Registry.Driver = strings.ToLower(strings.TrimSpace(cfg.Registry.Driver))
	if cfg.Registry.Driver == "" {
		cfg.Registry.Driver = RegistryFile
	}
	if cfg.Registry.Path == "" {
		cfg.Registry.Path = "group_company_links.txt"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 5
	}
	if cfg.Redis.RateLimitPerMinute <= 0 {
		cfg.Redis.RateLimitPerMinute = 30
	}
	if cfg.Upstream.PaymentStatusURL == "" {
		cfg.Upstream.PaymentStatusURL = "https://process.highisk.com/member/getstatusBOT.asp"
	}
	if cfg.Upstream.BlacklistURL == "" {
		cfg.Upstream.BlacklistURL = "https://process.netsellerpay.com/"
	}
	if cfg.Upstream.BlacklistComment == "" {
		cfg.Upstream.BlacklistComment = "Blacklisted via TelegramBot"
	}
	if cfg.Upstream.DescriptorsURL == "" && cfg.Upstream.DescriptorsPath == "" {
		cfg.Upstream.DescriptorsPath = "descriptors.txt"
	}
	if cfg.Upstream.PingURL == "" {
		cfg.Upstream.PingURL = "https://process.netsellerpay.com/ping.asp"
	}
	if cfg.Upstream.Timeout <= 0 {
		cfg.Upstream.Timeout = 15 * time.Second
	}
	if cfg.Conversation.StateTTL < 0 {
		cfg.Conversation.StateTTL = 0
	} else if cfg.Conversation.StateTTL == 0 {
		cfg.Conversation.StateTTL = 30 * time.Minute
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return errors.New("bot.token is required")
	}
	switch cfg.Bot.Mode {
	case ModeWebhook:
		if cfg.Bot.SetWebhook && cfg.Bot.PublicURL == "" {
			return errors.New("bot.public_url is required when bot.set_webhook is true")
		}
	case ModePolling:
	default:
		return fmt.Errorf("invalid bot.mode %q; allowed: webhook, polling", cfg.Bot.Mode)
	}
	switch cfg.Registry.Driver {
	case RegistryFile:
	case RegistryPostgres:
		if cfg.Database.URL == "" {
			return errors.New("database.url is required when registry.driver is postgres")
		}
	default:
		return fmt.Errorf("invalid registry.driver %q; allowed: file, postgres", cfg.Registry.Driver)
	}
	return nil
}
