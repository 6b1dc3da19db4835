package keygen

import (
	"errors"
	"sync"
	"time"
)

const (
	// 起始时间戳 (2024-01-01 00:00:00 UTC)
	snowflakeEpoch int64 = 1704067200000

	// 各部分位数：41 位时间戳 + 10 位节点 + 12 位序列号
	nodeIDBits   = 10
	sequenceBits = 12

	maxNodeID   = -1 ^ (-1 << nodeIDBits)   // 1023
	maxSequence = -1 ^ (-1 << sequenceBits) // 4095

	nodeIDShift    = sequenceBits
	timestampShift = sequenceBits + nodeIDBits
)

// Snowflake 雪花算法 int64 主键生成器。
// 同一节点内单调递增，分布式部署时各实例使用不同的 nodeID。
type Snowflake struct {
	mu            sync.Mutex
	nodeID        int64
	sequence      int64
	lastTimestamp int64
}

// NewSnowflake 创建雪花生成器，nodeID 取值范围 [0, 1023]
func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, errors.New("keygen: node ID out of range")
	}
	return &Snowflake{
		nodeID:        nodeID,
		lastTimestamp: -1,
	}, nil
}

// Next 实现 IGenerator[int64] 接口
func (g *Snowflake) Next() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UnixMilli()
	if now < g.lastTimestamp {
		return 0, errors.New("keygen: clock moved backwards, refusing to generate id")
	}

	if now == g.lastTimestamp {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			// 当前毫秒的序列号用尽，自旋等待下一毫秒
			for now <= g.lastTimestamp {
				now = time.Now().UnixMilli()
			}
		}
	} else {
		g.sequence = 0
	}

	g.lastTimestamp = now
	id := ((now - snowflakeEpoch) << timestampShift) |
		(g.nodeID << nodeIDShift) |
		g.sequence
	return id, nil
}

// ParseSnowflake 解析雪花 ID 的组成部分
func ParseSnowflake(id int64) (timestamp time.Time, nodeID, sequence int64) {
	ms := (id >> timestampShift) + snowflakeEpoch
	return time.UnixMilli(ms), (id >> nodeIDShift) & maxNodeID, id & maxSequence
}
