package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // postgres, mysql
		DSN    string `yaml:"url"`
	} `yaml:"database"`

	Auth struct {
		JWTSecret   string `yaml:"jwt_secret"`
		Issuer      string `yaml:"issuer"`
		InternalKey string `yaml:"internal_key"` // ключ для /internal/* (синхронизация с провайдером)
	} `yaml:"auth"`

	Payments struct {
		WebhookSecret string `yaml:"webhook_secret"`
	} `yaml:"payments"`

	Redis struct {
		Addr           string `yaml:"addr"` // пусто - кэш отключен
		Password       string `yaml:"password"`
		DB             int    `yaml:"db"`
		EntitlementTTL int    `yaml:"entitlement_ttl"` // секунды
	} `yaml:"redis"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Workers struct {
		JobCloseInterval int `yaml:"job_close_interval"` // минуты
	} `yaml:"workers"`

	FirstAdminEmail string `yaml:"first_admin_email"`
}

var AppConfig *Config

// LoadConfig читает config.yaml (CONFIG_PATH) или, если задан DATABASE_URL,
// собирает конфиг из переменных окружения (режим тестов и контейнеров).
func LoadConfig() (*Config, error) {
	var cfg Config

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.DSN = dbURL
		cfg.Database.Driver = getEnv("DATABASE_DRIVER", "postgres")
		cfg.Server.Env = getEnv("SERVER_ENV", "development")
		cfg.Server.Port = getEnvInt("SERVER_PORT", 4000)
		cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
		cfg.Auth.Issuer = os.Getenv("JWT_ISSUER")
		cfg.Auth.InternalKey = os.Getenv("INTERNAL_API_KEY")
		cfg.Payments.WebhookSecret = os.Getenv("PAYMENTS_WEBHOOK_SECRET")
		cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
		cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
		cfg.Redis.DB = getEnvInt("REDIS_DB", 0)
		cfg.Redis.EntitlementTTL = getEnvInt("ENTITLEMENT_TTL", 0)
		cfg.FirstAdminEmail = os.Getenv("FIRST_ADMIN_EMAIL")
	} else {
		configPath := getEnv("CONFIG_PATH", "config/config.yaml")

		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file at %s: %w", configPath, err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", configPath, err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	AppConfig = &cfg
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 4000
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Redis.EntitlementTTL <= 0 {
		c.Redis.EntitlementTTL = 300
	}
	if c.Workers.JobCloseInterval <= 0 {
		c.Workers.JobCloseInterval = 60
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database url is required")
	}
	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	return nil
}

func (c *Config) EntitlementTTL() time.Duration {
	return time.Duration(c.Redis.EntitlementTTL) * time.Second
}

func (c *Config) JobCloseInterval() time.Duration {
	return time.Duration(c.Workers.JobCloseInterval) * time.Minute
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func GetConfig() *Config {
	return AppConfig
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
