package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

// Config holds every external setting the service needs. It is built once in
// main and passed into modules by reference; business logic never reads the
// environment directly.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Toss     TossConfig     `mapstructure:"toss"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	App      AppConfig      `mapstructure:"app"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Port     string `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	// JWTSecret verifies the bearer tokens the mobile client sends.
	JWTSecret string `mapstructure:"jwt_secret"`
}

type TossConfig struct {
	// SecretKey authenticates server-side calls to the payment gateway.
	SecretKey string `mapstructure:"secret_key"`
	// WebhookSecret signs inbound webhook payloads. Required: signature
	// verification is never skipped.
	WebhookSecret string `mapstructure:"webhook_secret"`
	// BaseURL overrides the gateway endpoint, mainly for tests.
	BaseURL string `mapstructure:"base_url"`
}

type NotifyConfig struct {
	TelegramBotToken string `mapstructure:"telegram_bot_token"`
	TelegramChatID   string `mapstructure:"telegram_chat_id"`
	WebhookURL       string `mapstructure:"webhook_url"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

// Validate checks the settings without which the service cannot run safely.
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return errors.New("database configuration is incomplete")
	}
	if c.Redis.Addr == "" {
		return errors.New("redis address is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth jwt secret is required")
	}
	if c.Toss.SecretKey == "" {
		return errors.New("toss secret key is required")
	}
	if c.Toss.WebhookSecret == "" {
		return errors.New("toss webhook secret is required")
	}
	return nil
}

// LoadConfig reads configs/config.yaml (per-env variant via APP_ENV) with
// environment variable overrides and returns the validated configuration.
func LoadConfig() (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	configName := "config"
	if env != "dev" {
		configName = "config." + env
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.timezone", "Asia/Seoul")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("app.env", env)

	// Config file is optional; env vars can carry everything.
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Explicit overrides for the flat env var names the deploy platform sets.
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("TOSS_SECRET_KEY"); v != "" {
		cfg.Toss.SecretKey = v
	}
	if v := os.Getenv("TOSS_WEBHOOK_SECRET"); v != "" {
		cfg.Toss.WebhookSecret = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Notify.TelegramBotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Notify.TelegramChatID = v
	}
	if v := os.Getenv("USAGE_ALERT_WEBHOOK_URL"); v != "" {
		cfg.Notify.WebhookURL = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
