// Package config 提供基于环境变量的配置加载，支持 .env 文件。
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"gocrud/errors"
)

// Config 应用配置
type Config struct {
	// DatabaseDSN SQLite 数据库连接串
	DatabaseDSN string

	// RedisAddr Redis 地址，为空时不启用 Redis 缓存
	RedisAddr string

	// RedisPassword Redis 密码
	RedisPassword string

	// RedisDB Redis 数据库编号
	RedisDB int

	// NatsURL NATS 地址，为空时不启用事件发布
	NatsURL string

	// DefaultPageSize 列表查询未指定分页大小时的默认值，0 表示不限制
	DefaultPageSize int

	// MaxPageSize 分页大小上限，0 表示不限制
	MaxPageSize int

	// CacheTTL 缓存条目过期时间
	CacheTTL time.Duration

	// LogLevel 日志级别：debug/info/warn/error
	LogLevel string
}

// Load 加载配置。依次尝试给定的 .env 文件（不存在时忽略），
// 再读取环境变量覆盖默认值。
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, errors.WrapError(err, errors.ErrCodeInternal, "加载环境文件失败: "+f)
		}
	}

	cfg := &Config{
		DatabaseDSN:   getEnv("DB_DSN", "file::memory:?cache=shared"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		NatsURL:       getEnv("NATS_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.DefaultPageSize, err = getEnvInt("DEFAULT_PAGE_SIZE", 0); err != nil {
		return nil, err
	}
	if cfg.MaxPageSize, err = getEnvInt("MAX_PAGE_SIZE", 1000); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getEnvDuration("CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.NewErrorf(errors.ErrCodeInvalidInput, "环境变量 %s 不是合法整数: %s", key, v)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.NewErrorf(errors.ErrCodeInvalidInput, "环境变量 %s 不是合法时长: %s", key, v)
	}
	return d, nil
}
