package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Empty(t, cfg.Database.URL)
	assert.True(t, cfg.Database.ApplySchema)
	assert.Equal(t, 5*time.Minute, cfg.Redis.ReportTTL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "etatcivil.audit", cfg.Kafka.Topic)
	assert.Equal(t, 30*time.Second, cfg.Retry.MaxElapsed)
}

func TestLoadEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("short names", func(t *testing.T) {
		t.Setenv("APP_ADDR", ":9000")
		t.Setenv("APP_DEBUG", "true")
		t.Setenv("DATABASE_URL", "postgres://localhost/etatcivil")
		t.Setenv("REDIS_URL", "redis://localhost:6379/0")
		t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.Server.Addr)
		assert.True(t, cfg.Server.Debug)
		assert.Equal(t, "postgres://localhost/etatcivil", cfg.Database.URL)
		assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	})

	t.Run("prefixed names win", func(t *testing.T) {
		t.Setenv("APP_ADDR", ":9000")
		t.Setenv("ETATCIVIL_SERVER_ADDR", ":9100")
		t.Setenv("ETATCIVIL_REDIS_REPORT_TTL", "90s")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, ":9100", cfg.Server.Addr)
		assert.Equal(t, 90*time.Second, cfg.Redis.ReportTTL)
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "etatcivil.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":7000"
kafka:
  brokers: ["broker:9092"]
  batch_size: 10
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, []string{"broker:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10, cfg.Kafka.BatchSize)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "an explicit path must exist")
}

func TestLoadValidation(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("KAFKA_BROKERS", "k1:9092")
	t.Setenv("ETATCIVIL_KAFKA_BATCH_SIZE", "0")

	_, err := Load("")
	assert.ErrorContains(t, err, "batch_size")
}
