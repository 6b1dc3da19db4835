package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"gocrud/errors"
)

// NatsPublisher 基于 NATS 的事件发布器。
// 主题格式：{prefix}.{entity_type}.{action}，事件体为 JSON。
type NatsPublisher struct {
	conn   *nats.Conn
	prefix string
	owned  bool
}

// NatsConfig NATS 发布器配置
type NatsConfig struct {
	// URL NATS 服务器地址；为空时使用 nats.DefaultURL
	URL string

	// SubjectPrefix 主题前缀；为空时使用 "entity"
	SubjectPrefix string
}

// NewNatsPublisher 连接 NATS 并创建发布器
func NewNatsPublisher(cfg NatsConfig) (*NatsPublisher, error) {
	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1))
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeQueue, "failed to connect to nats")
	}
	return newNatsPublisher(conn, cfg.SubjectPrefix, true), nil
}

// NewNatsPublisherWithConn 复用已有连接创建发布器；Close 不会关闭该连接
func NewNatsPublisherWithConn(conn *nats.Conn, prefix string) *NatsPublisher {
	return newNatsPublisher(conn, prefix, false)
}

func newNatsPublisher(conn *nats.Conn, prefix string, owned bool) *NatsPublisher {
	if prefix == "" {
		prefix = "entity"
	}
	return &NatsPublisher{conn: conn, prefix: prefix, owned: owned}
}

// Publish 实现 IPublisher 接口
func (p *NatsPublisher) Publish(ctx context.Context, evt EntityChanged) error {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeQueue, "failed to marshal entity change event")
	}
	subject := p.prefix + "." + evt.EntityType + "." + string(evt.Action)
	if err := p.conn.Publish(subject, data); err != nil {
		return errors.WrapError(err, errors.ErrCodeQueue, "failed to publish entity change event")
	}
	return nil
}

// Close 实现 IPublisher 接口；仅关闭自有连接
func (p *NatsPublisher) Close() error {
	if !p.owned {
		return nil
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}
