package cache

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"gocrud/errors"
)

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	// Addr Redis 地址，如 "localhost:6379"
	Addr string

	// Password 密码，可为空
	Password string

	// DB 数据库编号
	DB int

	// KeyPrefix 键前缀，用于多服务共享实例时的命名隔离
	KeyPrefix string

	// TTL 条目默认过期时间；0 表示使用默认值 5 分钟
	TTL time.Duration
}

// Redis 基于 go-redis 的缓存实现，值以 JSON 序列化存储。
// 适合多实例部署下共享缓存的场景。
type Redis[V any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis 创建 Redis 缓存
func NewRedis[V any](config RedisConfig) *Redis[V] {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
	return &Redis[V]{
		client: client,
		prefix: config.KeyPrefix,
		ttl:    ttl,
	}
}

// NewRedisWithClient 复用已有客户端创建 Redis 缓存
func NewRedisWithClient[V any](client *redis.Client, keyPrefix string, ttl time.Duration) *Redis[V] {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Redis[V]{client: client, prefix: keyPrefix, ttl: ttl}
}

// Get 实现 ICache 接口
func (c *Redis[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if stdErrors.Is(err, redis.Nil) {
			return zero, false, nil
		}
		return zero, false, errors.WrapError(err, errors.ErrCodeCache, "failed to read cache entry")
	}

	var value V
	if err := json.Unmarshal(data, &value); err != nil {
		// 反序列化失败按未命中处理并移除脏数据
		_ = c.client.Del(ctx, c.prefix+key).Err()
		return zero, false, nil
	}
	return value, true, nil
}

// Set 实现 ICache 接口
func (c *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	data, err := json.Marshal(value)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeCache, "failed to marshal cache entry")
	}
	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return errors.WrapError(err, errors.ErrCodeCache, "failed to write cache entry")
	}
	return nil
}

// Delete 实现 ICache 接口
func (c *Redis[V]) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return errors.WrapError(err, errors.ErrCodeCache, "failed to delete cache entry")
	}
	return nil
}

// Close 关闭底层客户端连接
func (c *Redis[V]) Close() error {
	return c.client.Close()
}
