package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryConfig 内存缓存配置
type MemoryConfig struct {
	// MaxSize 最大条目数，超过后按 LRU 驱逐最久未使用的条目；
	// 0 表示使用默认值 1000
	MaxSize int

	// TTL 条目默认过期时间；0 表示使用默认值 5 分钟
	TTL time.Duration
}

// Memory 进程内 LRU 缓存实现。
// 特性：LRU 驱逐防止 OOM、TTL 过期、RWMutex 并发安全、命中统计。
type Memory[V any] struct {
	config MemoryConfig

	mu      sync.RWMutex
	items   map[string]*list.Element
	lruList *list.List // 最近使用的在前
	stats   Stats
}

type memoryEntry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// NewMemory 创建内存缓存
func NewMemory[V any](config MemoryConfig) *Memory[V] {
	if config.MaxSize <= 0 {
		config.MaxSize = 1000
	}
	if config.TTL <= 0 {
		config.TTL = 5 * time.Minute
	}
	return &Memory[V]{
		config:  config,
		items:   make(map[string]*list.Element),
		lruList: list.New(),
	}
}

// Get 实现 ICache 接口
func (c *Memory[V]) Get(ctx context.Context, key string) (V, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return zero, false, nil
	}

	entry := elem.Value.(*memoryEntry[V])
	if time.Now().After(entry.expiresAt) {
		c.removeElement(elem)
		c.stats.Misses++
		return zero, false, nil
	}

	c.lruList.MoveToFront(elem)
	c.stats.Hits++
	return entry.value, true, nil
}

// Set 实现 ICache 接口
func (c *Memory[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.config.TTL
	}
	expiresAt := time.Now().Add(ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*memoryEntry[V])
		entry.value = value
		entry.expiresAt = expiresAt
		c.lruList.MoveToFront(elem)
		return nil
	}

	// 容量已满时驱逐最久未使用的条目
	for c.lruList.Len() >= c.config.MaxSize {
		oldest := c.lruList.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
		c.stats.Evictions++
	}

	elem := c.lruList.PushFront(&memoryEntry[V]{
		key:       key,
		value:     value,
		expiresAt: expiresAt,
	})
	c.items[key] = elem
	return nil
}

// Delete 实现 ICache 接口
func (c *Memory[V]) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
	return nil
}

// Stats 返回统计信息快照
func (c *Memory[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stats := c.stats
	stats.Size = c.lruList.Len()
	return stats
}

// removeElement 调用方需持有写锁
func (c *Memory[V]) removeElement(elem *list.Element) {
	entry := elem.Value.(*memoryEntry[V])
	delete(c.items, entry.key)
	c.lruList.Remove(elem)
}
