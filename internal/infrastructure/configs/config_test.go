package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.EqualValues(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "livedesk", cfg.Mongo.Database)
	assert.Equal(t, 20, cfg.RateLimiter.MaxRequests)
	assert.Equal(t, 16, cfg.Feed.SubscriberBuffer)
	assert.True(t, cfg.RabbitMQ.Enabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
http:
  port: 9999
mongo:
  database: "livedesk_test"
rabbitmq:
  enabled: false
feed:
  subscriber_buffer: 4
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.EqualValues(t, 9999, cfg.HTTP.Port)
	assert.Equal(t, "livedesk_test", cfg.Mongo.Database)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, 4, cfg.Feed.SubscriberBuffer)

	// untouched keys keep their defaults
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 30*time.Second, cfg.Media.UploadTimeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mongo:\n  database: from_file\n"), 0o644))

	t.Setenv("MONGODB_DATABASE", "from_env")
	t.Setenv("HTTP_PORT", "7777")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.Mongo.Database)
	assert.EqualValues(t, 7777, cfg.HTTP.Port)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")

	assert.Error(t, err)
}
