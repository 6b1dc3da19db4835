// Package domain 定义持久化实体的最小接口体系。
//
// 设计原则：
// 1. 接口最小化 - 服务层只要求实体能暴露主键
// 2. 泛型支持 - 主键类型可以是 int64、string、UUID 等任意 comparable 类型
// 3. 能力组合 - 校验等扩展能力通过独立接口按需实现
package domain

// IObject 最基础的持久化对象接口，所有实体的根接口。
// 主键类型通过泛型参数指定。
type IObject[ID comparable] interface {
	// GetID 返回对象的唯一标识
	GetID() ID
}

// IValidatable 可验证接口。
// 实体实现此接口后，仓储与服务层会在写入前校验实体状态。
type IValidatable interface {
	// Validate 验证实体状态是否有效
	// 返回 error 表示验证失败，nil 表示验证成功
	Validate() error
}
