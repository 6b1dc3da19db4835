// Package repository 定义通用 CRUD 仓储抽象。
// 该包只承载接口与查询选项，具体实现见 storage/memory 与 storage/sqlite。
package repository

import (
	"context"

	"gocrud/domain"
)

// QueryOptions 查询选项。
// 语义约定（由实现方保证）：先过滤，再排序，最后分页；
// 分页下标始终基于过滤并排序后的结果集计算。
type QueryOptions struct {
	// Offset 偏移量，跳过前 Offset 条记录
	Offset int

	// Limit 每页数量，0 表示不限制
	Limit int

	// OrderBy 排序字段；为空时实现方必须回退到确定性的默认排序（通常按主键）
	OrderBy string

	// OrderDesc 是否降序
	OrderDesc bool

	// Filters 过滤条件。
	// 键为字段名加操作符后缀（_like/_gt/_gte/_lt/_lte/_ne/_in/_not_in），
	// 无后缀表示等值匹配；多个条件之间为 AND 关系。
	// 实现方对未知字段的条件应直接忽略（不施加约束）。
	Filters map[string]any
}

// IRepository 简单 CRUD 仓储接口
type IRepository[T domain.IObject[ID], ID comparable] interface {
	// Create 创建实体，返回持久化后的实体（含已分配的主键）
	Create(ctx context.Context, e T) (T, error)

	// GetByID 通过 ID 获取实体；不存在时返回 ErrEntityNotFound
	GetByID(ctx context.Context, id ID) (T, error)

	// Update 更新实体；实体不存在时返回 ErrEntityNotFound
	Update(ctx context.Context, e T) error

	// Delete 删除实体；实体不存在时返回 ErrEntityNotFound
	Delete(ctx context.Context, id ID) error

	// Count 统计总数
	Count(ctx context.Context) (int64, error)

	// Exists 检查实体是否存在
	Exists(ctx context.Context, id ID) (bool, error)
}

// IQueryableRepository 可查询仓储接口（扩展接口）
// 提供过滤/排序/分页查询能力，GetAll 类操作依赖此接口
type IQueryableRepository[T domain.IObject[ID], ID comparable] interface {
	IRepository[T, ID]

	// Query 通用查询，按 QueryOptions 过滤、排序、分页
	Query(ctx context.Context, opts QueryOptions) ([]T, error)

	// QueryCount 统计满足过滤条件的记录数（忽略 Offset/Limit/排序）
	QueryCount(ctx context.Context, opts QueryOptions) (int64, error)
}

// IBatchRepository 批量操作接口（可选扩展）
// 批量操作应在一个事务内执行，保证原子性
type IBatchRepository[T domain.IObject[ID], ID comparable] interface {
	// CreateAll 批量创建实体
	CreateAll(ctx context.Context, entities []T) ([]T, error)

	// DeleteAll 批量删除实体
	DeleteAll(ctx context.Context, ids []ID) error
}
