package query

import "strings"

// FilterBuilder 提供类型安全的过滤条件构建器，用于填充 QueryOptions.Filters。
//
// 约定：
//   - 通过显式方法（Eq/Like/Gt 等）表达常见条件，避免调用方手写 magic key；
//   - 内部使用 map[string]any 承载，与 repository.QueryOptions 完全兼容；
//   - 操作符通过字段后缀（_like/_gt 等）表达，由仓储实现解释；
//   - 字段名为空的条件被静默跳过，多个条件之间为 AND 关系。
type FilterBuilder struct {
	filters map[string]any
}

// NewFilterBuilder 创建新的过滤构建器
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{
		filters: make(map[string]any),
	}
}

// Eq 等值匹配：field = value
func (b *FilterBuilder) Eq(field string, value any) *FilterBuilder {
	if field == "" {
		return b
	}
	b.filters[field] = value
	return b
}

// Like 模糊匹配，对应 SQL: field LIKE '%value%'
func (b *FilterBuilder) Like(field string, value string) *FilterBuilder {
	if field == "" {
		return b
	}
	b.filters[field+"_like"] = value
	return b
}

// Gt 大于：field > value
func (b *FilterBuilder) Gt(field string, value any) *FilterBuilder {
	if field == "" {
		return b
	}
	b.filters[field+"_gt"] = value
	return b
}

// Gte 大于等于：field >= value
func (b *FilterBuilder) Gte(field string, value any) *FilterBuilder {
	if field == "" {
		return b
	}
	b.filters[field+"_gte"] = value
	return b
}

// Lt 小于：field < value
func (b *FilterBuilder) Lt(field string, value any) *FilterBuilder {
	if field == "" {
		return b
	}
	b.filters[field+"_lt"] = value
	return b
}

// Lte 小于等于：field <= value
func (b *FilterBuilder) Lte(field string, value any) *FilterBuilder {
	if field == "" {
		return b
	}
	b.filters[field+"_lte"] = value
	return b
}

// Ne 不等于：field != value
func (b *FilterBuilder) Ne(field string, value any) *FilterBuilder {
	if field == "" {
		return b
	}
	b.filters[field+"_ne"] = value
	return b
}

// In IN 列表，值以逗号分隔字符串承载，由仓储实现拆分
func (b *FilterBuilder) In(field string, values []string) *FilterBuilder {
	if field == "" || len(values) == 0 {
		return b
	}
	b.filters[field+"_in"] = strings.Join(values, ",")
	return b
}

// NotIn NOT IN 列表
func (b *FilterBuilder) NotIn(field string, values []string) *FilterBuilder {
	if field == "" || len(values) == 0 {
		return b
	}
	b.filters[field+"_not_in"] = strings.Join(values, ",")
	return b
}

// Len 返回已构建的条件数
func (b *FilterBuilder) Len() int { return len(b.filters) }

// Build 返回内部持有的 map 副本；无条件时返回 nil
func (b *FilterBuilder) Build() map[string]any {
	if len(b.filters) == 0 {
		return nil
	}
	out := make(map[string]any, len(b.filters))
	for k, v := range b.filters {
		out[k] = v
	}
	return out
}
