package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, AuthModeClosed, c.Webhook.AuthMode)
	assert.Equal(t, 90*time.Second, c.Webhook.DedupTTL)
	assert.Equal(t, 5000, c.Webhook.DedupHighWater)
	assert.False(t, c.AuthDisabled())
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  port: 9090
webhook:
  token: hunter2
  dedup_ttl: 2m
telegram:
  bot_token: 123:abc
  default_chat_id: -100123
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "hunter2", c.Webhook.Token)
	assert.Equal(t, 2*time.Minute, c.Webhook.DedupTTL)
	assert.Equal(t, int64(-100123), c.Telegram.DefaultChatID)
	assert.Equal(t, "console", c.Log.Format, "untouched keys keep their defaults")
}

func TestEnvOverridesYAML(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "456:def")
	t.Setenv("WEBHOOK_TOKEN", "env-secret")
	t.Setenv("DEFAULT_CHAT_ID", "-200456")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("PORT", "3000")

	c, err := LoadWithEnv(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "456:def", c.Telegram.BotToken)
	assert.Equal(t, "env-secret", c.Webhook.Token)
	assert.Equal(t, int64(-200456), c.Telegram.DefaultChatID)
	assert.True(t, c.Redis.Enabled, "setting REDIS_ADDR enables the redis deduper")
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, c.Kafka.Brokers)
	assert.True(t, c.Kafka.Enabled)
	assert.Equal(t, 3000, c.Server.Port)
}

func TestEnvInvalidPortKeepsDefault(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("PORT", "not-a-port")

	c, err := LoadWithEnv(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, c.Server.Port)
}

func TestValidateRequiresBotToken(t *testing.T) {
	c := defaultConfig()
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot_token")
}

func TestValidateRejectsUnknownAuthMode(t *testing.T) {
	c := defaultConfig()
	c.Telegram.BotToken = "123:abc"
	c.Webhook.AuthMode = "maybe"
	assert.Error(t, c.Validate())
}

func TestValidateRedisNeedsAddr(t *testing.T) {
	c := defaultConfig()
	c.Telegram.BotToken = "123:abc"
	c.Redis.Enabled = true
	assert.Error(t, c.Validate())
}

func TestAuthDisabledOnlyWhenOpen(t *testing.T) {
	c := defaultConfig()
	assert.False(t, c.AuthDisabled())
	c.Webhook.AuthMode = AuthModeOpen
	assert.True(t, c.AuthDisabled())
}
