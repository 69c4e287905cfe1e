//go:build !integration

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_YAMLAndDefaults(t *testing.T) {
	path := writeConfig(t, `
bot:
  token: "yaml-token"
  username: "@StatusPaymentBot"
  webhook_path: "hook"
log:
  level: debug
upstream:
  timeout: 3s
conversation:
  state_ttl: 5m
`)
	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Bot.Token != "yaml-token" {
		t.Errorf("expected yaml token, got %q", cfg.Bot.Token)
	}
	if cfg.Bot.Username != "StatusPaymentBot" {
		t.Errorf("expected @ to be stripped, got %q", cfg.Bot.Username)
	}
	if cfg.Bot.WebhookPath != "/hook" {
		t.Errorf("expected leading slash, got %q", cfg.Bot.WebhookPath)
	}
	if cfg.Bot.Mode != ModeWebhook {
		t.Errorf("expected webhook mode default, got %q", cfg.Bot.Mode)
	}
	if cfg.Upstream.Timeout != 3*time.Second {
		t.Errorf("expected 3s upstream timeout, got %v", cfg.Upstream.Timeout)
	}
	if cfg.Conversation.StateTTL != 5*time.Minute {
		t.Errorf("expected 5m ttl, got %v", cfg.Conversation.StateTTL)
	}
	if cfg.Registry.Driver != RegistryFile || cfg.Registry.Path != "group_company_links.txt" {
		t.Errorf("unexpected registry defaults: %+v", cfg.Registry)
	}
	if cfg.Upstream.BlacklistComment != "Blacklisted via TelegramBot" {
		t.Errorf("unexpected blacklist comment default %q", cfg.Upstream.BlacklistComment)
	}
	if !cfg.Runtime.Dev {
		t.Error("expected runtime dev flag to be carried")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "bot:\n  token: yaml-token\n")
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("BOT_MODE", "POLLING")
	t.Setenv("REGISTRY_PATH", "/tmp/links.txt")

	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Bot.Token != "env-token" {
		t.Errorf("expected env to win, got %q", cfg.Bot.Token)
	}
	if cfg.Bot.Mode != ModePolling {
		t.Errorf("expected polling, got %q", cfg.Bot.Mode)
	}
	if cfg.Registry.Path != "/tmp/links.txt" {
		t.Errorf("expected env registry path, got %q", cfg.Registry.Path)
	}
}

func TestLoadConfig_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "only-env")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Bot.Token != "only-env" {
		t.Errorf("expected env token, got %q", cfg.Bot.Token)
	}
}

func TestNormalize_Validation(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantSub string
	}{
		{"missing token", Config{}, "bot.token"},
		{"bad mode", Config{Bot: BotConfig{Token: "t", Mode: "carrier-pigeon"}}, "bot.mode"},
		{"set webhook without url", Config{Bot: BotConfig{Token: "t", SetWebhook: true}}, "public_url"},
		{"postgres without url", Config{Bot: BotConfig{Token: "t"}, Registry: RegistryConfig{Driver: "postgres"}}, "database.url"},
		{"bad driver", Config{Bot: BotConfig{Token: "t"}, Registry: RegistryConfig{Driver: "s3"}}, "registry.driver"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			err := Normalize(&cfg)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("expected error mentioning %q, got %v", tc.wantSub, err)
			}
		})
	}
}

func TestNormalize_NegativeTTLDisablesExpiry(t *testing.T) {
	cfg := Config{Bot: BotConfig{Token: "t"}, Conversation: ConversationConfig{StateTTL: -time.Second}}
	if err := Normalize(&cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Conversation.StateTTL != 0 {
		t.Errorf("expected ttl 0, got %v", cfg.Conversation.StateTTL)
	}
}

func TestNormalize_ZeroTTLUsesDefault(t *testing.T) {
	cfg := Config{Bot: BotConfig{Token: "t"}}
	if err := Normalize(&cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Conversation.StateTTL != 30*time.Minute {
		t.Errorf("expected the 30m default, got %v", cfg.Conversation.StateTTL)
	}
}
