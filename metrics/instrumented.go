package metrics

import (
	"context"
	"time"

	"gocrud/domain"
	"gocrud/dto"
	"gocrud/service"
)

// Instrumented 带指标采集的 CRUD 服务装饰器
type Instrumented[T domain.IObject[ID], ID comparable, TDto any, TListInput any, TCreateInput any, TUpdateInput any] struct {
	inner   service.ICrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]
	metrics *Metrics
	entity  string
}

// NewInstrumented 创建指标装饰器，entity 作为指标的实体标签
func NewInstrumented[T domain.IObject[ID], ID comparable, TDto any, TListInput any, TCreateInput any, TUpdateInput any](
	inner service.ICrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput],
	m *Metrics,
	entity string,
) *Instrumented[T, ID, TDto, TListInput, TCreateInput, TUpdateInput] {
	return &Instrumented[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]{
		inner:   inner,
		metrics: m,
		entity:  entity,
	}
}

// Get 实现 ICrudService 接口
func (s *Instrumented[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) Get(ctx context.Context, id ID) (TDto, error) {
	start := time.Now()
	d, err := s.inner.Get(ctx, id)
	s.metrics.Observe(s.entity, "get", start, err)
	return d, err
}

// GetAll 实现 ICrudService 接口
func (s *Instrumented[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) GetAll(ctx context.Context, in TListInput) (*dto.PagedResult[TDto], error) {
	start := time.Now()
	result, err := s.inner.GetAll(ctx, in)
	s.metrics.Observe(s.entity, "get_all", start, err)
	return result, err
}

// Create 实现 ICrudService 接口
func (s *Instrumented[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) Create(ctx context.Context, in TCreateInput) (TDto, error) {
	start := time.Now()
	d, err := s.inner.Create(ctx, in)
	s.metrics.Observe(s.entity, "create", start, err)
	return d, err
}

// Update 实现 ICrudService 接口
func (s *Instrumented[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) Update(ctx context.Context, in TUpdateInput) (TDto, error) {
	start := time.Now()
	d, err := s.inner.Update(ctx, in)
	s.metrics.Observe(s.entity, "update", start, err)
	return d, err
}

// Delete 实现 ICrudService 接口
func (s *Instrumented[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) Delete(ctx context.Context, id ID) error {
	start := time.Now()
	err := s.inner.Delete(ctx, id)
	s.metrics.Observe(s.entity, "delete", start, err)
	return err
}
