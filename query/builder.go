// Package query 将列表请求 DTO 转换为仓储查询选项。
//
// 固定的组装顺序：先过滤、再排序、最后分页——过滤不会被调用方指定的
// 排序/分页绕过，分页下标始终基于过滤并排序后的结果集计算。
package query

import (
	"gocrud/dto"
	"gocrud/errors"
	"gocrud/repository"
)

// IBuilder 查询构建器接口
type IBuilder[TListInput any] interface {
	// Build 根据列表请求构建查询选项
	Build(in TListInput) (repository.QueryOptions, error)
}

// Builder 默认查询构建器。
//
// 零值即可用：默认不过滤、按仓储的默认排序（主键）升序、不分页。
// 扩展点：
//   - Filter 钩子按请求内容补充过滤条件，省略的过滤字段不施加约束；
//   - DefaultSort 覆盖排序字段的回退值；
//   - DefaultPageSize/MaxPageSize 控制分页默认值与上限。
type Builder[TListInput any] struct {
	// DefaultSort 请求未指定排序字段时的回退字段；
	// 为空时交由仓储实现回退到主键排序，保证分页的确定性
	DefaultSort string

	// DefaultSortDesc 回退排序是否降序
	DefaultSortDesc bool

	// DefaultPageSize 请求未指定 MaxResultCount 时使用的页大小；
	// 0 表示不设默认页大小，此时结果集无界（调用方需自行权衡成本）
	DefaultPageSize int

	// MaxPageSize 单页大小上限，超出的请求被钳制到该值；0 表示不设上限
	MaxPageSize int

	// Filter 过滤钩子：根据请求中出现的过滤字段向构建器追加条件。
	// 钩子实现应只为非零/非空的请求字段添加条件。
	Filter func(in TListInput, f *FilterBuilder)
}

// Build 实现 IBuilder 接口
func (b *Builder[TListInput]) Build(in TListInput) (repository.QueryOptions, error) {
	var opts repository.QueryOptions

	// 1. 过滤
	if b.Filter != nil {
		f := NewFilterBuilder()
		b.Filter(in, f)
		opts.Filters = f.Build()
	}

	// 2. 排序
	opts.OrderBy = b.DefaultSort
	opts.OrderDesc = b.DefaultSortDesc
	if sorted, ok := any(in).(dto.ISortedResultRequest); ok && sorted.GetSorting() != "" {
		opts.OrderBy = sorted.GetSorting()
		opts.OrderDesc = sorted.GetSortDesc()
	}

	// 3. 分页
	if paged, ok := any(in).(dto.IPagedResultRequest); ok {
		skip := paged.GetSkipCount()
		if skip < 0 {
			return repository.QueryOptions{}, errors.NewValidationError("skip count must not be negative")
		}
		opts.Offset = skip
	}
	if limited, ok := any(in).(dto.ILimitedResultRequest); ok {
		take := limited.GetMaxResultCount()
		if take < 0 {
			return repository.QueryOptions{}, errors.NewValidationError("max result count must not be negative")
		}
		opts.Limit = take
	}
	if opts.Limit == 0 {
		opts.Limit = b.DefaultPageSize
	}
	if b.MaxPageSize > 0 && opts.Limit > b.MaxPageSize {
		opts.Limit = b.MaxPageSize
	}

	return opts, nil
}
