// Package cached 提供 CRUD 服务的缓存装饰器。
// Get 结果写入缓存；Create/Update 写入新值，Delete 使条目失效。
// 缓存故障只记录日志并退化为直读，不影响操作结果。
package cached

import (
	"context"
	"fmt"
	"time"

	"gocrud/cache"
	"gocrud/domain"
	"gocrud/dto"
	"gocrud/logging"
	"gocrud/service"
)

// Config 装饰器配置
type Config struct {
	// KeyPrefix 缓存键前缀（如 "book:"）
	KeyPrefix string

	// TTL 条目过期时间；0 时使用缓存实现的默认值
	TTL time.Duration

	// Logger 日志；为 nil 时使用全局 Logger
	Logger logging.Logger
}

// Service 带缓存的 CRUD 服务装饰器
type Service[T domain.IObject[ID], ID comparable, TDto any, TListInput any, TCreateInput any, TUpdateInput any] struct {
	inner     service.ICrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]
	cache     cache.ICache[TDto]
	config    Config
	updateKey func(TUpdateInput) ID
}

// Option 装饰器可选配置
type Option[T domain.IObject[ID], ID comparable, TDto any, TListInput any, TCreateInput any, TUpdateInput any] func(*Service[T, ID, TDto, TListInput, TCreateInput, TUpdateInput])

// WithUpdateKey 配置从更新输入提取主键的函数。
// DTO 与更新输入都未实现 dto.IEntityDto 时必须配置，
// 否则更新成功后无法定位条目，缓存直到过期前都是旧值。
func WithUpdateKey[T domain.IObject[ID], ID comparable, TDto any, TListInput any, TCreateInput any, TUpdateInput any](
	keyOf func(TUpdateInput) ID,
) Option[T, ID, TDto, TListInput, TCreateInput, TUpdateInput] {
	return func(s *Service[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) {
		s.updateKey = keyOf
	}
}

// New 创建缓存装饰器
func New[T domain.IObject[ID], ID comparable, TDto any, TListInput any, TCreateInput any, TUpdateInput any](
	inner service.ICrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput],
	c cache.ICache[TDto],
	config Config,
	opts ...Option[T, ID, TDto, TListInput, TCreateInput, TUpdateInput],
) *Service[T, ID, TDto, TListInput, TCreateInput, TUpdateInput] {
	if config.Logger == nil {
		config.Logger = logging.GetLogger()
	}
	s := &Service[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]{
		inner:  inner,
		cache:  c,
		config: config,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) key(id ID) string {
	return s.config.KeyPrefix + fmt.Sprint(id)
}

// Get 实现 ICrudService 接口，优先读缓存
func (s *Service[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) Get(ctx context.Context, id ID) (TDto, error) {
	if d, found, err := s.cache.Get(ctx, s.key(id)); err == nil && found {
		return d, nil
	} else if err != nil {
		s.config.Logger.Warn(ctx, "cache read failed", logging.Error(err))
	}

	d, err := s.inner.Get(ctx, id)
	if err != nil {
		return d, err
	}
	s.store(ctx, id, d)
	return d, nil
}

// GetAll 实现 ICrudService 接口，列表查询不走缓存
func (s *Service[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) GetAll(ctx context.Context, in TListInput) (*dto.PagedResult[TDto], error) {
	return s.inner.GetAll(ctx, in)
}

// Create 实现 ICrudService 接口，成功后写入缓存
func (s *Service[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) Create(ctx context.Context, in TCreateInput) (TDto, error) {
	d, err := s.inner.Create(ctx, in)
	if err != nil {
		return d, err
	}
	if withID, ok := any(d).(dto.IEntityDto[ID]); ok {
		s.store(ctx, withID.GetID(), d)
	}
	return d, nil
}

// Update 实现 ICrudService 接口，成功后刷新缓存。
// 主键依次取自返回的 DTO、WithUpdateKey 配置的提取函数、更新输入本身
func (s *Service[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) Update(ctx context.Context, in TUpdateInput) (TDto, error) {
	d, err := s.inner.Update(ctx, in)
	if err != nil {
		return d, err
	}
	if withID, ok := any(d).(dto.IEntityDto[ID]); ok {
		s.store(ctx, withID.GetID(), d)
	} else if s.updateKey != nil {
		s.store(ctx, s.updateKey(in), d)
	} else if withID, ok := any(in).(dto.IEntityDto[ID]); ok {
		s.store(ctx, withID.GetID(), d)
	}
	return d, nil
}

// Delete 实现 ICrudService 接口，成功后使缓存失效
func (s *Service[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) Delete(ctx context.Context, id ID) error {
	if err := s.inner.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, s.key(id)); err != nil {
		s.config.Logger.Warn(ctx, "cache invalidation failed", logging.Error(err))
	}
	return nil
}

func (s *Service[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) store(ctx context.Context, id ID, d TDto) {
	if err := s.cache.Set(ctx, s.key(id), d, s.config.TTL); err != nil {
		s.config.Logger.Warn(ctx, "cache write failed", logging.Error(err))
	}
}
