package appconf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvFlagToEnvironment(t *testing.T) {
	assert.Equal(t, Test, EnvFlagToEnvironment("test"))
	assert.Equal(t, Production, EnvFlagToEnvironment("Production"))
	assert.Equal(t, Production, EnvFlagToEnvironment("prod"))
	assert.Equal(t, Development, EnvFlagToEnvironment(""))
	assert.Equal(t, Development, EnvFlagToEnvironment("staging"))
	assert.Equal(t, "test", Test.String())
}

func TestShouldGatherDefaultsToTrue(t *testing.T) {
	cfg := Config{Agencies: map[string]AgencyOptions{"1187": {Gather: false}}}

	assert.False(t, cfg.ShouldGather("1187"))
	assert.True(t, cfg.ShouldGather("STAR"))
	assert.True(t, Config{}.ShouldGather("anything"))
}

func TestParseFile(t *testing.T) {
	data := []byte(`
env: production
server:
  port: 3001
  apiKeys: [web, mobile]
  rateLimit: 50
gtfs:
  source: data/feed.zip
  dbPath: db/gtfs.db
cache:
  size: 32
  ttl: 720h
agencies:
  - id: "1187"
    gather: false
  - id: STAR
`)

	f, err := ParseFile(data)
	require.NoError(t, err)
	assert.Equal(t, "data/feed.zip", f.GTFS.Source)
	assert.Equal(t, "db/gtfs.db", f.GTFS.DBPath)

	cfg := Config{Port: 4000, RateLimit: 100}
	f.Apply(&cfg)

	assert.Equal(t, Production, cfg.Env)
	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, []string{"web", "mobile"}, cfg.ApiKeys)
	assert.Equal(t, 50, cfg.RateLimit)
	assert.Equal(t, 32, cfg.CacheSize)
	assert.Equal(t, 720*time.Hour, cfg.CacheTTL)
	assert.False(t, cfg.ShouldGather("1187"))
	assert.True(t, cfg.ShouldGather("STAR"))
}

func TestParseFileRejectsInvalidValues(t *testing.T) {
	t.Run("negative port", func(t *testing.T) {
		_, err := ParseFile([]byte("server:\n  port: -1\n"))
		assert.Error(t, err)
	})

	t.Run("agency without id", func(t *testing.T) {
		_, err := ParseFile([]byte("agencies:\n  - gather: true\n"))
		assert.Error(t, err)
	})

	t.Run("unknown environment", func(t *testing.T) {
		_, err := ParseFile([]byte("env: staging\n"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParseFile([]byte("server: [\n"))
		assert.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, f.Server.Port)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
