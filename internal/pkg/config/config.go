package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrNoSpreadsheet = errors.New("either SPREADSHEET_ID or SPREADSHEET_NAME must be set")

const (
	RowStoreSheets   = "sheets"
	RowStorePostgres = "postgres"
)

type Config struct {
	Telegram     TelegramCfg       `yaml:"-"`
	Webhook      WebhookCfg        `yaml:"-"`
	RowStore     RowStoreCfg       `yaml:"-"`
	Conversation ConversationCfg   `yaml:"-"`
	Sheets       SheetsCfg         `yaml:"sheets"`
	Messages     map[string]string `yaml:"messages"`
}

type TelegramCfg struct {
	Token     string `env:"TELEGRAM_TOKEN,required" validate:"required"`
	AdminID   int64  `env:"ADMIN_CHAT_ID"`
	RateLimit int    `env:"SEND_RATE_LIMIT" envDefault:"25" validate:"gt=0"`
}

type WebhookCfg struct {
	BaseURL string `env:"BASE_URL" validate:"omitempty,url"`
	Secret  string `env:"WEBHOOK_SECRET" envDefault:"default-secret" validate:"required"`
	Port    int    `env:"PORT" envDefault:"8000" validate:"gt=0,lte=65535"`
}

type RowStoreCfg struct {
	Kind            string `env:"ROW_STORE" envDefault:"sheets" validate:"oneof=sheets postgres"`
	SpreadsheetID   string `env:"SPREADSHEET_ID"`
	SpreadsheetName string `env:"SPREADSHEET_NAME"`
	CredentialsPath string `env:"GOOGLE_CREDS" envDefault:"credentials.json"`
	DatabaseURL     string `env:"DATABASE_URL" validate:"required_if=Kind postgres"`
}

type ConversationCfg struct {
	IdleTimeout   time.Duration `env:"IDLE_TIMEOUT" envDefault:"30m" validate:"gt=0"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m" validate:"gt=0"`
}

type SheetsCfg struct {
	Orders  WorksheetCfg `yaml:"orders"`
	Uploads WorksheetCfg `yaml:"uploads"`
}

type WorksheetCfg struct {
	Name string `yaml:"name"`
}

// UseWebhook reports whether updates are delivered by webhook rather than long polling.
func (c *Config) UseWebhook() bool {
	return c.Webhook.BaseURL != ""
}

// Load reads .env (if any), the process environment and the optional yaml file at path.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}

	if cfg.Sheets.Orders.Name == "" {
		cfg.Sheets.Orders.Name = "orders"
	}
	if cfg.Sheets.Uploads.Name == "" {
		cfg.Sheets.Uploads.Name = "uploads"
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.RowStore.Kind == RowStoreSheets && cfg.RowStore.SpreadsheetID == "" && cfg.RowStore.SpreadsheetName == "" {
		return nil, ErrNoSpreadsheet
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
