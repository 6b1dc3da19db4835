// Package dto 定义服务层输入输出的值对象契约：
// 分页/排序请求、列表结果以及携带主键的 DTO 基类。
// 请求对象由调用方每次构造，传入后视为不可变。
package dto

// ListResult 列表结果
type ListResult[T any] struct {
	Items []T `json:"items"`
}

// PagedResult 分页结果，Total 为过滤后的总记录数（与分页无关）
type PagedResult[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

// IEntityDto 携带实体主键的 DTO 接口。
// Update 输入必须实现该接口，服务层据此定位待更新的实体。
type IEntityDto[ID comparable] interface {
	// GetID 返回 DTO 携带的实体主键
	GetID() ID
}

// EntityDto 携带主键的 DTO 基类（用于嵌入）
type EntityDto[ID comparable] struct {
	ID ID `json:"id"`
}

// GetID 实现 IEntityDto 接口
func (d EntityDto[ID]) GetID() ID { return d.ID }

// ISortedResultRequest 声明排序意图的请求接口
type ISortedResultRequest interface {
	// GetSorting 返回排序字段名，空字符串表示未指定
	GetSorting() string

	// GetSortDesc 是否降序
	GetSortDesc() bool
}

// ILimitedResultRequest 声明结果集上限的请求接口
type ILimitedResultRequest interface {
	// GetMaxResultCount 返回单页最大记录数，0 表示未指定
	GetMaxResultCount() int
}

// IPagedResultRequest 声明分页意图的请求接口
type IPagedResultRequest interface {
	ILimitedResultRequest

	// GetSkipCount 返回跳过的记录数
	GetSkipCount() int
}

// PagedResultRequest 分页请求基类（用于嵌入）。
// 不变式：SkipCount >= 0；MaxResultCount = 0 表示未指定，
// 此时结果集是否有界由查询构建器的默认页大小配置决定。
type PagedResultRequest struct {
	SkipCount      int `json:"skip_count"`
	MaxResultCount int `json:"max_result_count"`
}

// GetSkipCount 实现 IPagedResultRequest 接口
func (r PagedResultRequest) GetSkipCount() int { return r.SkipCount }

// GetMaxResultCount 实现 IPagedResultRequest 接口
func (r PagedResultRequest) GetMaxResultCount() int { return r.MaxResultCount }

// PagedAndSortedResultRequest 分页+排序请求基类（用于嵌入）。
// 实体特有的过滤字段由派生请求类型自行补充。
type PagedAndSortedResultRequest struct {
	PagedResultRequest

	// Sorting 排序字段名，空表示使用默认排序
	Sorting string `json:"sorting"`

	// SortDesc 是否降序
	SortDesc bool `json:"sort_desc"`
}

// GetSorting 实现 ISortedResultRequest 接口
func (r PagedAndSortedResultRequest) GetSorting() string { return r.Sorting }

// GetSortDesc 实现 ISortedResultRequest 接口
func (r PagedAndSortedResultRequest) GetSortDesc() bool { return r.SortDesc }
