package rag

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"backend/internal/config"
	"backend/internal/infra"
	"backend/internal/logger"
	"backend/internal/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BackendSelector 向量存储后端一次性选择器
// 首次访问时对 Redis 后端做一次能力探测（MODULE LIST 检查 RediSearch），
// 探测成功则整个进程生命周期内绑定 Redis 后端；连接、认证、TLS 或能力
// 任一环节失败都记录诊断日志并回退到本地文件后端。选择是粘性的，
// 进程内不会再次探测或切换。
type BackendSelector struct {
	redisCfg *config.RedisConfig
	storeCfg *config.VectorStoreConfig
	embedder EmbeddingProvider

	// 测试可注入的客户端工厂
	newClient func() redis.UniversalClient

	once  sync.Once
	store VectorStore
	err   error
}

// NewBackendSelector 创建后端选择器（不触发探测）
func NewBackendSelector(redisCfg *config.RedisConfig, storeCfg *config.VectorStoreConfig, embedder EmbeddingProvider) *BackendSelector {
	return &BackendSelector{
		redisCfg: redisCfg,
		storeCfg: storeCfg,
		embedder: embedder,
		newClient: func() redis.UniversalClient {
			return infra.NewRedisClient(redisCfg)
		},
	}
}

// Store 返回选定的向量存储后端，首次调用时完成探测与绑定
func (s *BackendSelector) Store(ctx context.Context) (VectorStore, error) {
	s.once.Do(func() {
		s.resolve(ctx)
	})
	return s.store, s.err
}

// resolve 执行一次性后端选择
func (s *BackendSelector) resolve(ctx context.Context) {
	if store, err := s.tryRedis(ctx); err == nil {
		logger.Info("使用 Redis 向量存储",
			zap.String("addr", s.redisCfg.Addr()),
			zap.String("index", s.storeCfg.IndexName),
		)
		metrics.VectorBackendSelected.WithLabelValues("redis").Inc()
		s.store = store
		return
	} else {
		logger.Warn("Redis/RediSearch 不可用，回退到本地文件向量存储",
			zap.String("addr", s.redisCfg.Addr()),
			zap.Error(err),
		)
	}

	store, err := NewLocalVectorStore(s.storeCfg.LocalDir, s.embedder)
	if err != nil {
		s.err = fmt.Errorf("初始化本地向量存储失败: %w", err)
		return
	}
	metrics.VectorBackendSelected.WithLabelValues("local").Inc()
	s.store = store
}

// tryRedis 建连并执行能力探测，成功时返回已就绪的 Redis 后端
func (s *BackendSelector) tryRedis(ctx context.Context) (VectorStore, error) {
	if s.redisCfg.Host == "" {
		return nil, fmt.Errorf("未配置 Redis 主机")
	}

	client := s.newClient()

	timeout := time.Duration(s.redisCfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// 能力探测：列出已安装模块，确认 RediSearch 可用
	modules, err := client.Do(probeCtx, "MODULE", "LIST").Result()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("MODULE LIST 探测失败: %w", err)
	}
	if !hasSearchModule(modules) {
		_ = client.Close()
		return nil, fmt.Errorf("Redis 未安装 RediSearch 模块")
	}

	store, err := NewRedisVectorStore(probeCtx, client, s.embedder, s.storeCfg.IndexName, s.storeCfg.Dimension)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	return store, nil
}

// hasSearchModule 判断 MODULE LIST 应答中是否包含 search 模块
// 应答结构随 RESP 版本不同（嵌套数组或 map），此处做宽松匹配。
func hasSearchModule(reply interface{}) bool {
	return strings.Contains(strings.ToLower(fmt.Sprint(reply)), "search")
}
