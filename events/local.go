package events

import (
	"context"
	"sync"
	"time"
)

// Handler 事件处理函数
type Handler func(ctx context.Context, evt EntityChanged)

// LocalPublisher 进程内事件发布器。
// 同步调用所有订阅者，适合测试与单进程部署；
// 订阅者不应在处理函数中执行耗时操作。
type LocalPublisher struct {
	mu       sync.RWMutex
	handlers []Handler
	closed   bool
}

// NewLocalPublisher 创建进程内发布器
func NewLocalPublisher() *LocalPublisher {
	return &LocalPublisher{}
}

// Subscribe 注册事件处理函数
func (p *LocalPublisher) Subscribe(h Handler) {
	if h == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, h)
}

// Publish 实现 IPublisher 接口
func (p *LocalPublisher) Publish(ctx context.Context, evt EntityChanged) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return nil
	}
	handlers := make([]Handler, len(p.handlers))
	copy(handlers, p.handlers)
	p.mu.RUnlock()

	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now()
	}
	for _, h := range handlers {
		h(ctx, evt)
	}
	return nil
}

// Close 实现 IPublisher 接口
func (p *LocalPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.handlers = nil
	return nil
}
