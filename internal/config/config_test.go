package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("nonexistent-env", "")
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Contains(t, cfg.Server.CORSOrigins, "http://localhost:3000")

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Database.AutoMigrate)

	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.True(t, cfg.Redis.TLS)
	assert.False(t, cfg.Redis.InsecureSkipVerify)

	assert.Equal(t, "rag-index", cfg.VectorStore.IndexName)
	assert.Equal(t, 1536, cfg.VectorStore.Dimension)

	assert.Equal(t, 500, cfg.RAG.ChunkSize)
	assert.Equal(t, 50, cfg.RAG.ChunkOverlap)
	assert.Equal(t, 4, cfg.RAG.TopK)

	assert.Equal(t, 168, cfg.Auth.ExpiryHours)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9000")
	t.Setenv("APP_REDIS_HOST", "redis.example.com")
	t.Setenv("APP_RAG_TOP_K", "8")
	t.Setenv("APP_REDIS_INSECURE_SKIP_VERIFY", "true")

	cfg, err := Load("nonexistent-env", "")
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "redis.example.com", cfg.Redis.Host)
	assert.Equal(t, 8, cfg.RAG.TopK)
	assert.True(t, cfg.Redis.InsecureSkipVerify)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	content := []byte("server:\n  port: 1234\nrag:\n  chunk_size: 200\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := Load("", path)
	require.NoError(t, err)

	assert.Equal(t, 1234, cfg.Server.Port)
	assert.Equal(t, 200, cfg.RAG.ChunkSize)
	// 未覆盖项保持默认值
	assert.Equal(t, 50, cfg.RAG.ChunkOverlap)
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "localhost", Port: 6380}
	assert.Equal(t, "localhost:6380", cfg.Addr())
}
