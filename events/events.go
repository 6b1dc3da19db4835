// Package events 提供实体变更事件的发布抽象。
// 服务层在事务成功提交后发布 EntityChanged 事件，
// 供投影、缓存失效、审计等下游消费。
package events

import (
	"context"
	"time"
)

// Action 实体变更动作
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// EntityChanged 实体变更事件信封
type EntityChanged struct {
	// EntityType 实体类型名（如 "book"）
	EntityType string `json:"entity_type"`

	// Action 变更动作
	Action Action `json:"action"`

	// Key 实体主键的字符串形式
	Key string `json:"key"`

	// OccurredAt 事件发生时间；零值时由发布器填充
	OccurredAt time.Time `json:"occurred_at"`
}

// IPublisher 事件发布器接口
type IPublisher interface {
	// Publish 发布实体变更事件
	Publish(ctx context.Context, evt EntityChanged) error

	// Close 释放底层连接资源
	Close() error
}
