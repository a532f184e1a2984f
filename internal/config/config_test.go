package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	req := require.New(t)
	path := writeConfig(t, "app:\n  env: production\n")

	cfg, err := Load(path)
	req.NoError(err)
	req.Equal("production", cfg.App.Env)
	req.Equal(8080, cfg.App.Port)
	req.Equal("mongodb://localhost:27017", cfg.Mongo.URI)
	req.Equal("socially", cfg.Mongo.Database)
	req.Equal("chats", cfg.Mongo.ConversationsCollection)
	req.Equal("users", cfg.Mongo.UsersCollection)
	req.Equal("chat.message.new", cfg.Kafka.Topic)
	req.Equal("HS256", cfg.JWT.Alg)
	req.NotZero(cfg.RequestTimeout)
	req.NotZero(cfg.ProfileCacheTTL)
}

func TestLoadReadsValues(t *testing.T) {
	req := require.New(t)
	path := writeConfig(t, `
app:
  env: development
  port: 9000
  metrics_addr: ":9101"
mongodb:
  uri: mongodb://db:27017
  database: chatdb
redis:
  addr: redis:6379
  db: 2
kafka:
  brokers: ["kafka-1:9092", "kafka-2:9092"]
  topic: custom.topic
jwt:
  alg: HS256
  secret: s3cret
`)

	cfg, err := Load(path)
	req.NoError(err)
	req.Equal(9000, cfg.App.Port)
	req.Equal(":9101", cfg.App.MetricsAddr)
	req.Equal("mongodb://db:27017", cfg.Mongo.URI)
	req.Equal("chatdb", cfg.Mongo.Database)
	req.Equal("redis:6379", cfg.Redis.Addr)
	req.Equal(2, cfg.Redis.DB)
	req.Equal([]string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	req.Equal("custom.topic", cfg.Kafka.Topic)
	req.Equal("s3cret", cfg.JWT.Secret)
}

func TestLoadFailsOnMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
