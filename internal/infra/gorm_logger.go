package infra

import (
	"context"
	"errors"
	"time"

	"backend/internal/logger"

	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"
)

// gormZapLogger GORM 日志适配器，SQL 日志统一走 Zap 输出
// 慢查询以 Warn 级别单独标记，便于在日志平台上筛选。
type gormZapLogger struct {
	level         gormLogger.LogLevel
	slowThreshold time.Duration
}

// newGormLogger 创建 GORM 日志适配器
// record not found 不算错误：登录查询等路径会正常触发。
func newGormLogger(level gormLogger.LogLevel, slowThreshold time.Duration) gormLogger.Interface {
	return &gormZapLogger{
		level:         level,
		slowThreshold: slowThreshold,
	}
}

// LogMode 设置日志级别
func (l *gormZapLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormZapLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormLogger.Info {
		logger.WithContext(ctx).Sugar().Infof(msg, data...)
	}
}

func (l *gormZapLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormLogger.Warn {
		logger.WithContext(ctx).Sugar().Warnf(msg, data...)
	}
}

func (l *gormZapLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormLogger.Error {
		logger.WithContext(ctx).Sugar().Errorf(msg, data...)
	}
}

// Trace SQL 执行日志，带请求 ID 关联
func (l *gormZapLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormLogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
	}

	log := logger.WithContext(ctx)

	switch {
	case err != nil && !errors.Is(err, gormLogger.ErrRecordNotFound):
		fields = append(fields, zap.Error(err))
		log.Error("SQL 执行错误", fields...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		log.Warn("SQL 慢查询", fields...)
	case l.level >= gormLogger.Info:
		log.Debug("SQL 执行", fields...)
	}
}
