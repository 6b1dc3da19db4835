// Package service 提供面向任意持久化实体的通用 CRUD 应用服务。
//
// CrudService 按 {实体、主键、列表项 DTO、列表请求、创建输入、更新输入}
// 六个类型参数实例化，编排权限检查、输入验证、查询构建、仓储访问、
// 对象映射与事务范围，把表现层调用方同持久化与领域对象隔离开。
package service

import (
	"context"
	"fmt"

	"gocrud/domain"
	"gocrud/dto"
	"gocrud/errors"
	"gocrud/events"
	"gocrud/logging"
	"gocrud/permission"
	"gocrud/repository"
)

// ICrudService 通用 CRUD 服务接口
type ICrudService[T domain.IObject[ID], ID comparable, TDto any, TListInput any, TCreateInput any, TUpdateInput any] interface {
	// Get 按主键获取单个实体的 DTO；不存在时返回 NOT_FOUND
	Get(ctx context.Context, id ID) (TDto, error)

	// GetAll 按列表请求返回过滤、排序、分页后的 DTO 序列及过滤后总数
	GetAll(ctx context.Context, in TListInput) (*dto.PagedResult[TDto], error)

	// Create 创建实体并返回其 DTO（含新分配的主键）
	Create(ctx context.Context, in TCreateInput) (TDto, error)

	// Update 按更新输入携带的主键加载实体，应用补丁后持久化并返回 DTO
	Update(ctx context.Context, in TUpdateInput) (TDto, error)

	// Delete 按主键删除实体；不存在时返回 NOT_FOUND
	Delete(ctx context.Context, id ID) error
}

// ISimpleCrudService 最小实例化：列表项 DTO 同时充当创建/更新输入，
// 列表请求使用通用的分页+排序请求类型
type ISimpleCrudService[T domain.IObject[ID], ID comparable, TDto any] = ICrudService[T, ID, TDto, dto.PagedAndSortedResultRequest, TDto, TDto]

// CrudService 通用 CRUD 服务默认实现。
// 自身不持有跨调用的可变状态，依赖项视为无状态或外部同步，
// 每次操作可重入且相互独立。
type CrudService[T domain.IObject[ID], ID comparable, TDto any, TListInput any, TCreateInput any, TUpdateInput any] struct {
	repo repository.IQueryableRepository[T, ID]
	opts Options[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]
}

// NewCrudService 创建通用 CRUD 服务。
// repo 与 mapper 必选；opts 为 nil 时使用默认配置
// （不设防、空验证器、无事务包装、默认查询构建器）。
func NewCrudService[T domain.IObject[ID], ID comparable, TDto any, TListInput any, TCreateInput any, TUpdateInput any](
	repo repository.IQueryableRepository[T, ID],
	mapper IMapper[T, ID, TDto, TCreateInput, TUpdateInput],
	opts *Options[T, ID, TDto, TListInput, TCreateInput, TUpdateInput],
) *CrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput] {
	s := &CrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]{repo: repo}
	if opts != nil {
		s.opts = *opts
	}
	s.opts.Mapper = mapper
	s.opts.applyDefaults()
	return s
}

// Repository 返回绑定的仓储，供派生服务扩展业务方法
func (s *CrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) Repository() repository.IQueryableRepository[T, ID] {
	return s.repo
}

// Get 实现 ICrudService 接口。只读操作，不进入事务范围。
func (s *CrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) Get(ctx context.Context, id ID) (TDto, error) {
	var zero TDto
	if err := s.authorize(ctx, permission.OpGet); err != nil {
		return zero, err
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return zero, s.fail(ctx, "get", err)
	}
	return s.mapToDto(ctx, e)
}

// GetAll 实现 ICrudService 接口。
// 查询构建器保证过滤→排序→分页的固定顺序；计数与查询在同一事务
// 范围内执行，保证总数与当前页基于同一快照。
func (s *CrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) GetAll(ctx context.Context, in TListInput) (*dto.PagedResult[TDto], error) {
	if err := s.authorize(ctx, permission.OpGetAll); err != nil {
		return nil, err
	}

	opts, err := s.opts.Query.Build(in)
	if err != nil {
		return nil, err
	}

	result := &dto.PagedResult[TDto]{Items: []TDto{}}
	err = s.opts.UnitOfWork.Run(ctx, func(ctx context.Context) error {
		total, err := s.repo.QueryCount(ctx, opts)
		if err != nil {
			return err
		}
		entities, err := s.repo.Query(ctx, opts)
		if err != nil {
			return err
		}

		items := make([]TDto, 0, len(entities))
		for _, e := range entities {
			d, err := s.mapToDto(ctx, e)
			if err != nil {
				return err
			}
			items = append(items, d)
		}
		result.Items = items
		result.Total = total
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "get_all", err)
	}
	return result, nil
}

// Create 实现 ICrudService 接口。
// 验证与映射先于任何持久化访问；整个写入在一个事务范围内执行，
// 任何失败都不会留下部分写入的实体。
func (s *CrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) Create(ctx context.Context, in TCreateInput) (TDto, error) {
	var zero TDto
	if err := s.authorize(ctx, permission.OpCreate); err != nil {
		return zero, err
	}
	if err := s.opts.Validator.Validate(in); err != nil {
		return zero, err
	}

	e, err := s.opts.Mapper.ToEntity(in)
	if err != nil {
		return zero, err
	}

	var created T
	err = s.opts.UnitOfWork.Run(ctx, func(ctx context.Context) error {
		if err := s.opts.Hooks.beforeCreate(ctx, e); err != nil {
			return err
		}
		var err error
		created, err = s.repo.Create(ctx, e)
		if err != nil {
			return err
		}
		return s.opts.Hooks.afterCreate(ctx, created)
	})
	if err != nil {
		return zero, s.fail(ctx, "create", err)
	}

	s.publish(ctx, events.ActionCreated, created.GetID())
	return s.mapToDto(ctx, created)
}

// Update 实现 ICrudService 接口。
// 读取-修改-写入在同一事务范围内完成；补丁只覆盖更新输入声明的字段，
// 实体的其余字段保持原值。
func (s *CrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) Update(ctx context.Context, in TUpdateInput) (TDto, error) {
	var zero TDto
	if err := s.authorize(ctx, permission.OpUpdate); err != nil {
		return zero, err
	}
	if err := s.opts.Validator.Validate(in); err != nil {
		return zero, err
	}

	id, err := s.keyOf(in)
	if err != nil {
		return zero, err
	}

	var updated T
	err = s.opts.UnitOfWork.Run(ctx, func(ctx context.Context) error {
		e, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.opts.Mapper.ApplyUpdate(in, e); err != nil {
			return err
		}
		if err := s.opts.Hooks.beforeUpdate(ctx, e); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, e); err != nil {
			return err
		}
		updated = e
		return s.opts.Hooks.afterUpdate(ctx, e)
	})
	if err != nil {
		return zero, s.fail(ctx, "update", err)
	}

	s.publish(ctx, events.ActionUpdated, id)
	return s.mapToDto(ctx, updated)
}

// Delete 实现 ICrudService 接口
func (s *CrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) Delete(ctx context.Context, id ID) error {
	if err := s.authorize(ctx, permission.OpDelete); err != nil {
		return err
	}

	err := s.opts.UnitOfWork.Run(ctx, func(ctx context.Context) error {
		if err := s.opts.Hooks.beforeDelete(ctx, id); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.opts.Hooks.afterDelete(ctx, id)
	})
	if err != nil {
		return s.fail(ctx, "delete", err)
	}

	s.publish(ctx, events.ActionDeleted, id)
	return nil
}

// CheckPermission 按权限名执行检查的共享原语。
// 权限名为空时直接放行；拒绝返回 FORBIDDEN 错误。
// 自定义 Authorize 钩子可以在自身逻辑中调用该原语。
func (s *CrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) CheckPermission(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}
	granted, err := s.opts.Checker.IsGranted(ctx, name)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeInternal, "permission check failed")
	}
	if !granted {
		return errors.NewErrorf(errors.ErrCodeForbidden, "permission %q denied", name)
	}
	return nil
}

// authorize 在任何持久化访问之前执行授权；拒绝时短路返回
func (s *CrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) authorize(ctx context.Context, op permission.Operation) error {
	name := s.opts.Permissions.For(op)
	if s.opts.Authorize != nil {
		return s.opts.Authorize(ctx, op, name)
	}
	return s.CheckPermission(ctx, name)
}

// mapToDto 执行实体到 DTO 的映射及可选的后处理钩子
func (s *CrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) mapToDto(ctx context.Context, e T) (TDto, error) {
	d, err := s.opts.Mapper.ToDto(e)
	if err != nil {
		var zero TDto
		return zero, err
	}
	if s.opts.AfterMapToDto != nil {
		if err := s.opts.AfterMapToDto(ctx, e, &d); err != nil {
			var zero TDto
			return zero, err
		}
	}
	return d, nil
}

// keyOf 提取更新输入携带的主键
func (s *CrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) keyOf(in TUpdateInput) (ID, error) {
	if s.opts.KeyOf != nil {
		return s.opts.KeyOf(in), nil
	}
	if withID, ok := any(in).(dto.IEntityDto[ID]); ok {
		return withID.GetID(), nil
	}
	var zero ID
	return zero, errors.NewError(errors.ErrCodeInternal,
		"update input must implement dto.IEntityDto or Options.KeyOf must be configured")
}

// fail 规范化错误并记录操作失败日志
func (s *CrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) fail(ctx context.Context, op string, err error) error {
	normalized := errors.Normalize(err)
	s.opts.Logger.Debug(ctx, "crud operation failed",
		logging.String("op", op), logging.Error(normalized))
	return normalized
}

// publish 在事务成功提交后发布实体变更事件；发布失败只记日志，不影响结果
func (s *CrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) publish(ctx context.Context, action events.Action, id ID) {
	if s.opts.Publisher == nil {
		return
	}
	evt := events.EntityChanged{
		EntityType: s.opts.EntityType,
		Action:     action,
		Key:        fmt.Sprint(id),
	}
	if err := s.opts.Publisher.Publish(ctx, evt); err != nil {
		s.opts.Logger.Warn(ctx, "failed to publish entity change event",
			logging.String("entity", s.opts.EntityType),
			logging.String("action", string(action)),
			logging.Error(err))
	}
}
