// Package mapping 定义实体与 DTO 之间的映射契约。
//
// 映射必须是纯函数：确定性、无副作用、不触碰仓储。
// 按照"为每对实体/DTO 显式编写映射函数"的原则，本包不做任何反射字段拷贝，
// 而是通过函数值组合出映射器，保证编译期类型安全。
package mapping

import (
	"gocrud/domain"
	"gocrud/errors"
)

// IObjectMapper 对象映射器接口。
// 读方向：实体 -> 列表项 DTO；
// 写方向：创建输入 -> 新实体，更新输入 -> 对已加载实体的补丁。
type IObjectMapper[T domain.IObject[ID], ID comparable, TDto any, TCreateInput any, TUpdateInput any] interface {
	// ToDto 将实体映射为 DTO
	ToDto(e T) (TDto, error)

	// ToEntity 将创建输入映射为新实体（主键尚未分配）
	ToEntity(in TCreateInput) (T, error)

	// ApplyUpdate 将更新输入中声明的字段覆盖到已加载的实体上。
	// 补丁语义：只触碰更新输入模式中存在的字段，实体的其余字段保持原值。
	ApplyUpdate(in TUpdateInput, e T) error
}

// Mapper 基于函数值的映射器实现
type Mapper[T domain.IObject[ID], ID comparable, TDto any, TCreateInput any, TUpdateInput any] struct {
	// ToDtoFn 实体 -> DTO
	ToDtoFn func(e T) TDto

	// ToEntityFn 创建输入 -> 新实体
	ToEntityFn func(in TCreateInput) T

	// ApplyUpdateFn 更新输入 -> 实体补丁
	ApplyUpdateFn func(in TUpdateInput, e T)
}

// ToDto 实现 IObjectMapper 接口
func (m *Mapper[T, ID, TDto, TCreateInput, TUpdateInput]) ToDto(e T) (TDto, error) {
	var zero TDto
	if m.ToDtoFn == nil {
		return zero, errors.NewError(errors.ErrCodeInternal, "mapper: ToDtoFn is not configured")
	}
	return m.ToDtoFn(e), nil
}

// ToEntity 实现 IObjectMapper 接口
func (m *Mapper[T, ID, TDto, TCreateInput, TUpdateInput]) ToEntity(in TCreateInput) (T, error) {
	var zero T
	if m.ToEntityFn == nil {
		return zero, errors.NewError(errors.ErrCodeInternal, "mapper: ToEntityFn is not configured")
	}
	return m.ToEntityFn(in), nil
}

// ApplyUpdate 实现 IObjectMapper 接口
func (m *Mapper[T, ID, TDto, TCreateInput, TUpdateInput]) ApplyUpdate(in TUpdateInput, e T) error {
	if m.ApplyUpdateFn == nil {
		return errors.NewError(errors.ErrCodeInternal, "mapper: ApplyUpdateFn is not configured")
	}
	m.ApplyUpdateFn(in, e)
	return nil
}
