package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"SignalRelay/pkg/util"
)

// Auth modes for the webhook secret. "closed" rejects every protected request
// when no secret is configured; "open" skips the token check entirely and is
// meant for local development only. Missing secret never silently disables
// auth: the mode must be set to open on purpose.
const (
	AuthModeClosed = "closed"
	AuthModeOpen   = "open"
)

type Config struct {
	Environment string `yaml:"environment"`
	Log         struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Webhook struct {
		Token          string        `yaml:"token"`
		AuthMode       string        `yaml:"auth_mode"`
		DedupTTL       time.Duration `yaml:"dedup_ttl"`
		DedupHighWater int           `yaml:"dedup_high_water"`
	} `yaml:"webhook"`
	Telegram struct {
		BotToken      string        `yaml:"bot_token"`
		DefaultChatID int64         `yaml:"default_chat_id"`
		SendTimeout   time.Duration `yaml:"send_timeout"`
	} `yaml:"telegram"`
	Advisor struct {
		APIKey  string        `yaml:"api_key"`
		BaseURL string        `yaml:"base_url"`
		Model   string        `yaml:"model"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"advisor"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		Compression  string        `yaml:"compression"`
		RequiredAcks int           `yaml:"required_acks"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"kafka"`
}

func defaultConfig() *Config {
	c := &Config{Environment: "production"}
	c.Log.Level = "info"
	c.Log.Format = "console"
	c.Server.Port = 8080
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 30 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Webhook.AuthMode = AuthModeClosed
	c.Webhook.DedupTTL = 90 * time.Second
	c.Webhook.DedupHighWater = 5000
	c.Telegram.SendTimeout = 15 * time.Second
	c.Advisor.BaseURL = "https://api.openai.com/v1"
	c.Advisor.Model = "gpt-4"
	c.Advisor.Timeout = 30 * time.Second
	c.Kafka.Topic = "signals.accepted"
	c.Kafka.Compression = "gzip"
	c.Kafka.RequiredAcks = -1
	c.Kafka.MaxAttempts = 3
	c.Kafka.WriteTimeout = 10 * time.Second
	return c
}

// Load reads and parses a YAML configuration file on top of defaults.
// A missing file is not an error: env-only deployments carry everything in
// the environment.
func Load(path string) (*Config, error) {
	c := defaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables. A .env file in the working directory is picked up first.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("DEFAULT_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Telegram.DefaultChatID = id
		}
	}
	if v := os.Getenv("WEBHOOK_TOKEN"); v != "" {
		c.Webhook.Token = v
	}
	if v := os.Getenv("AUTH_MODE"); v != "" {
		c.Webhook.AuthMode = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Advisor.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Enabled = true
		c.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Enabled = true
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required (outbound sending cannot be disabled)")
	}
	if c.Webhook.AuthMode != AuthModeClosed && c.Webhook.AuthMode != AuthModeOpen {
		return fmt.Errorf("webhook.auth_mode must be '%s' or '%s', got '%s'", AuthModeClosed, AuthModeOpen, c.Webhook.AuthMode)
	}
	if c.Webhook.DedupTTL <= 0 {
		return fmt.Errorf("webhook.dedup_ttl must be positive")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}

// AuthDisabled reports whether the token check is intentionally skipped.
func (c *Config) AuthDisabled() bool {
	return c.Webhook.AuthMode == AuthModeOpen
}
