package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app/configs")

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	viper.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	viper.BindEnv("database.url", "DATABASE_URL", "APP_DATABASE_URL")
	viper.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	viper.BindEnv("queue.url", "QUEUE_URL", "NATS_URL", "APP_QUEUE_URL")
	viper.BindEnv("jwt.secret", "JWT_SECRET", "APP_JWT_SECRET")
	viper.BindEnv("payment.stripe.secret_key", "STRIPE_SECRET_KEY")
	viper.BindEnv("payment.stripe.webhook_secret", "STRIPE_WEBHOOK_SECRET")
	viper.BindEnv("notification.email.api_key", "SENDGRID_API_KEY")
	viper.BindEnv("vault.address", "VAULT_ADDR")
	viper.BindEnv("vault.token", "VAULT_TOKEN")
	viper.BindEnv("app.environment", "APP_ENVIRONMENT")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file: env vars and defaults only
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "comanda")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("http.port", 8080)
	viper.SetDefault("grpc.port", 9090)
	viper.SetDefault("kitchen.port", 9000)
	viper.SetDefault("kitchen.ping_interval", 30*time.Second)
	viper.SetDefault("kitchen.send_buffer", 64)
	viper.SetDefault("queue.driver", "nats")
	viper.SetDefault("jwt.access_token_duration", 15*time.Minute)
	viper.SetDefault("jwt.refresh_token_duration", 7*24*time.Hour)
	viper.SetDefault("voice.provider", "whisper")
	viper.SetDefault("voice.language", "pt")
	viper.SetDefault("voice.request_timeout", 30*time.Second)
	viper.SetDefault("voice.max_attempts", 3)
	viper.SetDefault("voice.initial_backoff", 500*time.Millisecond)
	viper.SetDefault("voice.max_backoff", 8*time.Second)
	viper.SetDefault("voice.max_audio_bytes", 10<<20)
	viper.SetDefault("voice.sample_rate", 16000)
	viper.SetDefault("vault.mount", "secret")
	viper.SetDefault("prometheus.path", "/metrics")
	viper.SetDefault("cache.menu_catalog_ttl", 5*time.Minute)
	viper.SetDefault("payment.pricing.service_fee_rate", 0.10)
	viper.SetDefault("payment.stripe.currency", "brl")
	viper.SetDefault("region.currency", "BRL")
	viper.SetDefault("region.timezone", "America/Sao_Paulo")
	viper.SetDefault("limits.max_capture_duration", 2*time.Minute)
}
