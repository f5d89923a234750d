package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowplot/pkg/cache"
	"github.com/matzehuels/flowplot/pkg/errors"
	"github.com/matzehuels/flowplot/pkg/gates"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvRedisURL, EnvMongoURI, EnvAddr, EnvStore, EnvCache} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Chart, cfg.Chart)
	assert.Equal(t, StoreMemory, cfg.Store.Backend)
	assert.Equal(t, CacheFile, cfg.Cache.Backend)
	assert.True(t, cfg.Cache.Compressed())
	assert.Empty(t, cfg.Path)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
[chart]
color = "#112233"
seed = 7
palette = ["#aabbcc"]

[server]
addr = ":9000"

[store]
backend = "redis"
redis_url = "redis://localhost:6379/1"

[cache]
backend = "none"
compress = false
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "#112233", cfg.Chart.Color)
	assert.Equal(t, uint64(7), cfg.Chart.Seed)
	assert.Equal(t, []string{"#aabbcc"}, cfg.Chart.Palette)
	assert.Equal(t, 250.0, cfg.Chart.Cofactor, "unset keys keep defaults")
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Store.RedisURL)
	assert.False(t, cfg.Cache.Compressed())
}

func TestLoadDefaultPath(t *testing.T) {
	clearEnv(t)
	path, err := DefaultPath()
	require.NoError(t, err)
	cfg := Default()
	cfg.Chart.Seed = 99
	require.NoError(t, Write(cfg, path))

	got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, uint64(99), got.Chart.Seed)
	assert.Equal(t, path, got.Path)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "[server]\naddr = \":9000\"\n")
	t.Setenv(EnvAddr, ":7000")
	t.Setenv(EnvStore, StoreMongo)
	t.Setenv(EnvMongoURI, "mongodb://localhost:27017")
	t.Setenv(EnvRedisURL, "redis://cache:6379/0")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, StoreMongo, cfg.Store.Backend)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Store.MongoURI)
	assert.Equal(t, "redis://cache:6379/0", cfg.Cache.RedisURL)
}

func TestDotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("FLOWPLOT_ADDR=:6000\n"), 0o644))
	// godotenv does not replace variables that are already set.
	require.NoError(t, os.Unsetenv(EnvAddr))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":6000", cfg.Server.Addr)
	os.Unsetenv(EnvAddr)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", "[chart\n", errors.ErrCodeInvalidConfig},
		{"bad colour", "[chart]\ncolor = \"blue\"\n", errors.ErrCodeInvalidConfig},
		{"bad palette", "[chart]\npalette = [\"#fff\", \"x\"]\n", errors.ErrCodeInvalidConfig},
		{"negative cofactor", "[chart]\ncofactor = -1.0\n", errors.ErrCodeInvalidConfig},
		{"unknown store", "[store]\nbackend = \"etcd\"\n", errors.ErrCodeInvalidConfig},
		{"redis without url", "[store]\nbackend = \"redis\"\n", errors.ErrCodeInvalidConfig},
		{"mongo without uri", "[store]\nbackend = \"mongo\"\n", errors.ErrCodeInvalidConfig},
		{"unknown cache", "[cache]\nbackend = \"s3\"\n", errors.ErrCodeInvalidConfig},
		{"redis cache without url", "[cache]\nbackend = \"redis\"\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)
}

func TestOpenStoreMemory(t *testing.T) {
	store, err := Default().OpenStore(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &gates.MemoryStore{}, store)
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := Default().OpenCache(ctx, dir, false)
	require.NoError(t, err)
	compressed, ok := c.(*cache.Compressed)
	require.True(t, ok, "got %T", c)
	assert.IsType(t, &cache.FileCache{}, compressed.Inner())
	assert.DirExists(t, filepath.Join(dir, "artifacts"))

	c, err = Default().OpenCache(ctx, dir, true)
	require.NoError(t, err)
	assert.IsType(t, cache.NullCache{}, c)

	cfg := Default()
	cfg.Cache.Backend = CacheNone
	c, err = cfg.OpenCache(ctx, dir, false)
	require.NoError(t, err)
	assert.IsType(t, cache.NullCache{}, c)

	off := false
	cfg = Default()
	cfg.Cache.Compress = &off
	cfg.Cache.Dir = filepath.Join(dir, "custom")
	c, err = cfg.OpenCache(ctx, dir, false)
	require.NoError(t, err)
	assert.IsType(t, &cache.FileCache{}, c)
	assert.DirExists(t, filepath.Join(dir, "custom", "artifacts"))
}

func TestTransient(t *testing.T) {
	assert.True(t, cache.IsRetryable(transient(errors.New(errors.ErrCodeStore, "down"))))
	assert.False(t, cache.IsRetryable(transient(errors.New(errors.ErrCodeInvalidConfig, "bad"))))
	assert.Nil(t, transient(nil))

	inner := errors.New(errors.ErrCodeStore, "down")
	assert.Equal(t, error(inner), unwrapRetry(cache.Retryable(inner)))
}
