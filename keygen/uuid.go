package keygen

import "github.com/google/uuid"

// UUID 字符串主键生成器，生成 UUIDv4
type UUID struct{}

// NewUUID 创建 UUID 生成器
func NewUUID() UUID { return UUID{} }

// Next 实现 IGenerator[string] 接口
func (UUID) Next() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
