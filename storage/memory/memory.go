// Package memory 提供 map 支撑的内存仓储实现。
// 适用于测试、示例与原型；完整实现 repository.IQueryableRepository，
// 过滤/排序语义与 SQL 实现保持一致。
package memory

import (
	"context"
	"sort"
	"sync"

	"gocrud/domain"
	"gocrud/repository"
)

// Option 仓储配置选项
type Option[T domain.IObject[ID], ID comparable] func(*Repository[T, ID])

// WithKeyGenerator 配置主键生成：实体主键为零值时，
// Create 调用 gen 生成新主键并通过 set 写入实体
func WithKeyGenerator[T domain.IObject[ID], ID comparable](gen func() ID, set func(T, ID)) Option[T, ID] {
	return func(r *Repository[T, ID]) {
		r.keyGen = gen
		r.setKey = set
	}
}

// WithUniqueFields 声明唯一字段：Create/Update 时若另一实体
// 在这些字段上出现相同取值，返回 ErrEntityAlreadyExists
func WithUniqueFields[T domain.IObject[ID], ID comparable](fields ...string) Option[T, ID] {
	return func(r *Repository[T, ID]) {
		r.uniqueFields = fields
	}
}

// WithClone 配置实体克隆函数：读取返回副本，写入存储副本。
// 指针型实体必须配置克隆，否则调用方对读取结果的修改会直接
// 作用于存量实体，写入失败时留下部分修改的状态。
func WithClone[T domain.IObject[ID], ID comparable](clone func(T) T) Option[T, ID] {
	return func(r *Repository[T, ID]) {
		r.clone = clone
	}
}

// Repository 内存仓储。
// proj 将实体投影为字段名到取值的映射，过滤与排序都基于该投影；
// 投影中不存在的字段上的条件被忽略（不施加约束）。
type Repository[T domain.IObject[ID], ID comparable] struct {
	mu           sync.RWMutex
	entities     map[ID]T
	order        []ID // 插入顺序，排序字段缺失时的确定性回退
	proj         func(T) map[string]any
	keyGen       func() ID
	setKey       func(T, ID)
	clone        func(T) T
	uniqueFields []string
}

// NewRepository 创建内存仓储
func NewRepository[T domain.IObject[ID], ID comparable](proj func(T) map[string]any, opts ...Option[T, ID]) *Repository[T, ID] {
	r := &Repository[T, ID]{
		entities: make(map[ID]T),
		proj:     proj,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// copy 返回实体副本；未配置克隆时原样返回
func (r *Repository[T, ID]) copy(e T) T {
	if r.clone == nil {
		return e
	}
	return r.clone(e)
}

// Create 实现 IRepository 接口
func (r *Repository[T, ID]) Create(ctx context.Context, e T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	var zeroID ID
	if r.keyGen != nil && r.setKey != nil && e.GetID() == zeroID {
		r.setKey(e, r.keyGen())
	}
	id := e.GetID()
	if id == zeroID {
		return zero, repository.ErrInvalidID
	}
	if _, exists := r.entities[id]; exists {
		return zero, repository.ErrEntityAlreadyExists
	}
	if err := r.checkUnique(e); err != nil {
		return zero, err
	}

	r.entities[id] = r.copy(e)
	r.order = append(r.order, id)
	return e, nil
}

// GetByID 实现 IRepository 接口
func (r *Repository[T, ID]) GetByID(ctx context.Context, id ID) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.entities[id]
	if !exists {
		var zero T
		return zero, repository.NewNotFoundError(id)
	}
	return r.copy(e), nil
}

// Update 实现 IRepository 接口
func (r *Repository[T, ID]) Update(ctx context.Context, e T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := e.GetID()
	if _, exists := r.entities[id]; !exists {
		return repository.NewNotFoundError(id)
	}
	if err := r.checkUnique(e); err != nil {
		return err
	}
	// 校验全部通过后才写入，失败的更新不会留下痕迹
	r.entities[id] = r.copy(e)
	return nil
}

// Delete 实现 IRepository 接口
func (r *Repository[T, ID]) Delete(ctx context.Context, id ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entities[id]; !exists {
		return repository.NewNotFoundError(id)
	}
	delete(r.entities, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count 实现 IRepository 接口
func (r *Repository[T, ID]) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.entities)), nil
}

// Exists 实现 IRepository 接口
func (r *Repository[T, ID]) Exists(ctx context.Context, id ID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.entities[id]
	return exists, nil
}

// Query 实现 IQueryableRepository 接口：先过滤，再排序，最后分页
func (r *Repository[T, ID]) Query(ctx context.Context, opts repository.QueryOptions) ([]T, error) {
	matched := r.filtered(opts.Filters)
	r.sortEntities(matched, opts.OrderBy, opts.OrderDesc)

	// 分页永远是最后一步，下标基于过滤并排序后的结果集
	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return []T{}, nil
		}
		matched = matched[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

// QueryCount 实现 IQueryableRepository 接口，忽略分页与排序
func (r *Repository[T, ID]) QueryCount(ctx context.Context, opts repository.QueryOptions) (int64, error) {
	return int64(len(r.filtered(opts.Filters))), nil
}

// CreateAll 实现 IBatchRepository 接口；任一实体失败时回滚整批
func (r *Repository[T, ID]) CreateAll(ctx context.Context, entities []T) ([]T, error) {
	created := make([]T, 0, len(entities))
	for _, e := range entities {
		c, err := r.Create(ctx, e)
		if err != nil {
			for _, done := range created {
				_ = r.Delete(ctx, done.GetID())
			}
			return nil, err
		}
		created = append(created, c)
	}
	return created, nil
}

// DeleteAll 实现 IBatchRepository 接口；任一主键缺失时回滚整批
func (r *Repository[T, ID]) DeleteAll(ctx context.Context, ids []ID) error {
	removed := make([]T, 0, len(ids))
	for _, id := range ids {
		e, err := r.GetByID(ctx, id)
		if err != nil {
			for _, done := range removed {
				_, _ = r.Create(ctx, done)
			}
			return err
		}
		_ = r.Delete(ctx, id)
		removed = append(removed, e)
	}
	return nil
}

// filtered 返回满足过滤条件的实体快照（按插入顺序）
func (r *Repository[T, ID]) filtered(filters map[string]any) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		e := r.entities[id]
		if matchesFilters(r.proj(e), filters) {
			out = append(out, r.copy(e))
		}
	}
	return out
}

func (r *Repository[T, ID]) sortEntities(entities []T, orderBy string, desc bool) {
	if orderBy == "" {
		return // 插入顺序本身是确定性的
	}
	sort.SliceStable(entities, func(i, j int) bool {
		a, aok := r.proj(entities[i])[orderBy]
		b, bok := r.proj(entities[j])[orderBy]
		if !aok || !bok {
			return false
		}
		cmp := compareValues(a, b)
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func (r *Repository[T, ID]) checkUnique(e T) error {
	if len(r.uniqueFields) == 0 {
		return nil
	}
	fields := r.proj(e)
	for id, other := range r.entities {
		if id == e.GetID() {
			continue
		}
		otherFields := r.proj(other)
		for _, f := range r.uniqueFields {
			v, ok := fields[f]
			ov, ook := otherFields[f]
			if ok && ook && equalValues(v, ov) {
				return repository.ErrEntityAlreadyExists
			}
		}
	}
	return nil
}
