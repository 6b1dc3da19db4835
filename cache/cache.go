// Package cache 提供 DTO 缓存抽象与实现。
// 读多写少的场景下配合 cached 装饰器使用：
// Get 结果写入缓存，Create/Update/Delete 使对应条目失效。
package cache

import (
	"context"
	"time"
)

// ICache 缓存接口。键为字符串，值类型由泛型参数指定。
type ICache[V any] interface {
	// Get 读取缓存；第二个返回值表示是否命中
	Get(ctx context.Context, key string) (V, bool, error)

	// Set 写入缓存；ttl <= 0 时使用实现方的默认过期时间
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete 删除缓存条目；条目不存在不视为错误
	Delete(ctx context.Context, key string) error
}

// Stats 缓存统计信息
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
}
