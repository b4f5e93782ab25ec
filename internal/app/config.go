package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (ACCESS_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"HTTP listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (ACCESS_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	Delivery    DeliveryConfig
	Graceful    GracefulConfig
}

// DeliveryConfig configures the outbound notification channels. A channel is
// enabled when its target (URL, endpoint, token) is set.
type DeliveryConfig struct {
	Timeout  time.Duration `default:"10s" usage:"Outbound HTTP timeout for channel delivery"`
	Webhook  WebhookConfig
	Email    EmailConfig
	Telegram TelegramConfig
}

// WebhookConfig configures the webhook delivery channel.
type WebhookConfig struct {
	URL    string `usage:"Webhook target URL (empty disables the channel)"`
	Secret string `usage:"Bearer token sent with webhook deliveries"`
}

// EmailConfig configures the email delivery channel.
type EmailConfig struct {
	Endpoint string `usage:"Mail provider HTTP API endpoint (empty disables the channel)"`
	APIKey   string `usage:"Mail provider API key" flag:"email-api-key"`
	From     string `default:"noreply@flow-masters.ru" usage:"Sender address"`
}

// TelegramConfig configures the telegram delivery channel.
type TelegramConfig struct {
	Token  string `usage:"Bot API token (empty disables the channel)"`
	ChatID string `usage:"Chat to deliver to" flag:"telegram-chat-id"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files, then applies platform-provided defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "ACCESS",
		Files:     []string{"config.yaml", "/etc/flow-masters-access/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set ACCESS_DATABASE_URL or DATABASE_URL")
	}
	return &cfg, nil
}

// applyPlatformDefaults maps standard platform environment variables
// (DATABASE_URL, PORT) onto the ACCESS_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
