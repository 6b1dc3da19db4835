// Package keygen 提供实体主键生成器。
// 支持分布式 int64 主键（雪花算法）与字符串 UUID 主键，
// 配合仓储的 WithKeyGenerator 选项在插入时分配主键。
package keygen

// IGenerator 主键生成器接口
type IGenerator[ID comparable] interface {
	// Next 生成下一个主键
	Next() (ID, error)
}
