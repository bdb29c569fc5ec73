package infra

import (
	"crypto/tls"
	"time"

	"backend/internal/config"
	"backend/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient 构造向量存储使用的 Redis 客户端
// 托管 Redis（如 Azure Cache 6380 端口）要求 TLS；证书验证默认开启，
// 仅在私有网络使用自签名证书时通过 insecure_skip_verify 显式关闭。
// 此处只建连不探测，可用性探测由向量存储的后端选择逻辑负责。
func NewRedisClient(cfg *config.RedisConfig) redis.UniversalClient {
	opts := &redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}

	if cfg.TLS {
		opts.TLSConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		}
		if cfg.InsecureSkipVerify {
			logger.Warn("Redis TLS 证书验证已关闭，仅建议在私有网络使用",
				zap.String("addr", cfg.Addr()),
			)
		}
	}

	return redis.NewClient(opts)
}
