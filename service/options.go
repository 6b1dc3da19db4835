package service

import (
	"context"

	"gocrud/domain"
	"gocrud/events"
	"gocrud/logging"
	"gocrud/mapping"
	"gocrud/permission"
	"gocrud/query"
	"gocrud/uow"
	"gocrud/validation"
)

// IMapper 对象映射器接口别名，缩短服务签名
type IMapper[T domain.IObject[ID], ID comparable, TDto any, TCreateInput any, TUpdateInput any] = mapping.IObjectMapper[T, ID, TDto, TCreateInput, TUpdateInput]

// Options 服务配置与扩展点。
// 零值可用：未设置的协作者在构造时填入默认实现。
type Options[T domain.IObject[ID], ID comparable, TDto any, TListInput any, TCreateInput any, TUpdateInput any] struct {
	// Mapper 对象映射器（由 NewCrudService 注入，不需要调用方设置）
	Mapper IMapper[T, ID, TDto, TCreateInput, TUpdateInput]

	// Query 查询构建器；默认为零配置的 query.Builder
	// （不过滤、仓储默认排序、不分页）
	Query query.IBuilder[TListInput]

	// UnitOfWork 事务范围包装；默认为 uow.Noop
	UnitOfWork uow.IUnitOfWork

	// Permissions 各操作的权限名；零值表示全部不设防
	Permissions permission.Names

	// Checker 权限检查器；默认为 permission.AllowAll
	Checker permission.IChecker

	// Validator 输入验证器；默认为 validation.SelfValidator
	Validator validation.IValidator

	// Logger 日志；默认为全局 Logger
	Logger logging.Logger

	// Authorize 自定义授权钩子，替换默认的按权限名检查。
	// 钩子内部仍可调用 CheckPermission 原语完成基于名称的检查。
	Authorize func(ctx context.Context, op permission.Operation, name string) error

	// AfterMapToDto 映射后处理钩子，可在返回前修饰 DTO
	AfterMapToDto func(ctx context.Context, e T, d *TDto) error

	// KeyOf 从更新输入提取主键；
	// 默认要求更新输入实现 dto.IEntityDto[ID]
	KeyOf func(in TUpdateInput) ID

	// Publisher 实体变更事件发布器；为 nil 时不发布事件
	Publisher events.IPublisher

	// EntityType 事件中携带的实体类型名（如 "book"）
	EntityType string

	// Hooks 生命周期钩子，在事务范围内、仓储调用前后执行
	Hooks Hooks[T, ID]
}

func (o *Options[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) applyDefaults() {
	if o.Query == nil {
		o.Query = &query.Builder[TListInput]{}
	}
	if o.UnitOfWork == nil {
		o.UnitOfWork = uow.Noop{}
	}
	if o.Checker == nil {
		o.Checker = permission.AllowAll{}
	}
	if o.Validator == nil {
		o.Validator = validation.SelfValidator{}
	}
	if o.Logger == nil {
		o.Logger = logging.GetLogger()
	}
}

// Hooks 生命周期钩子集合。
// 未设置的钩子视为无操作；钩子返回 error 会中止操作并回滚事务。
type Hooks[T any, ID comparable] struct {
	BeforeCreate func(ctx context.Context, e T) error
	AfterCreate  func(ctx context.Context, e T) error
	BeforeUpdate func(ctx context.Context, e T) error
	AfterUpdate  func(ctx context.Context, e T) error
	BeforeDelete func(ctx context.Context, id ID) error
	AfterDelete  func(ctx context.Context, id ID) error
}

func (h Hooks[T, ID]) beforeCreate(ctx context.Context, e T) error {
	if h.BeforeCreate == nil {
		return nil
	}
	return h.BeforeCreate(ctx, e)
}

func (h Hooks[T, ID]) afterCreate(ctx context.Context, e T) error {
	if h.AfterCreate == nil {
		return nil
	}
	return h.AfterCreate(ctx, e)
}

func (h Hooks[T, ID]) beforeUpdate(ctx context.Context, e T) error {
	if h.BeforeUpdate == nil {
		return nil
	}
	return h.BeforeUpdate(ctx, e)
}

func (h Hooks[T, ID]) afterUpdate(ctx context.Context, e T) error {
	if h.AfterUpdate == nil {
		return nil
	}
	return h.AfterUpdate(ctx, e)
}

func (h Hooks[T, ID]) beforeDelete(ctx context.Context, id ID) error {
	if h.BeforeDelete == nil {
		return nil
	}
	return h.BeforeDelete(ctx, id)
}

func (h Hooks[T, ID]) afterDelete(ctx context.Context, id ID) error {
	if h.AfterDelete == nil {
		return nil
	}
	return h.AfterDelete(ctx, id)
}
