package rag

import (
	"context"
	"testing"
	"time"

	"backend/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStoreConfig(t *testing.T) *config.VectorStoreConfig {
	t.Helper()
	return &config.VectorStoreConfig{
		IndexName: "rag-index",
		LocalDir:  t.TempDir(),
		Dimension: 26,
	}
}

func TestBackendSelector_FallsBackWithoutRedisHost(t *testing.T) {
	selector := NewBackendSelector(
		&config.RedisConfig{}, // 未配置主机
		testStoreConfig(t),
		&fakeEmbedder{},
	)

	store, err := selector.Store(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "local", store.Name())
}

func TestBackendSelector_FallsBackWhenProbeFails(t *testing.T) {
	selector := NewBackendSelector(
		&config.RedisConfig{Host: "127.0.0.1", Port: 1, TimeoutSeconds: 1},
		testStoreConfig(t),
		&fakeEmbedder{},
	)
	// 指向不可达地址的客户端，探测必然失败
	selector.newClient = func() redis.UniversalClient {
		return redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 100 * time.Millisecond,
		})
	}

	store, err := selector.Store(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "local", store.Name())
}

func TestBackendSelector_SelectionIsSticky(t *testing.T) {
	selector := NewBackendSelector(
		&config.RedisConfig{},
		testStoreConfig(t),
		&fakeEmbedder{},
	)

	ctx := context.Background()
	first, err := selector.Store(ctx)
	require.NoError(t, err)
	second, err := selector.Store(ctx)
	require.NoError(t, err)

	// 一次性选择：后续调用必须返回同一实例
	assert.Same(t, first, second)
}

func TestHasSearchModule(t *testing.T) {
	tests := []struct {
		name    string
		modules interface{}
		want    bool
	}{
		{
			name: "已安装RediSearch",
			modules: []interface{}{
				map[interface{}]interface{}{"name": "search", "ver": int64(20805)},
			},
			want: true,
		},
		{
			name: "仅有其他模块",
			modules: []interface{}{
				map[interface{}]interface{}{"name": "timeseries"},
			},
			want: false,
		},
		{name: "无任何模块", modules: []interface{}{}, want: false},
		{name: "空回复", modules: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasSearchModule(tt.modules))
		})
	}
}
