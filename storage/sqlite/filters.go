package sqlite

import (
	"fmt"
	"sort"
	"strings"
)

type condition struct {
	expr string
	args []any
}

// whereClause 将过滤条件转换为 WHERE 子句与参数列表。
// 字段名后缀表达操作符（与内存实现共用同一约定）；
// 不在白名单内的字段被直接忽略，多个条件之间为 AND 关系。
// 条件按表达式排序，保证生成的 SQL 可复现。
func (r *Repository[T, ID]) whereClause(filters map[string]any) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}

	var conds []condition
	appendCond := func(field, expr string, vals ...any) {
		if _, ok := r.allowed[field]; !ok {
			return
		}
		conds = append(conds, condition{expr: field + expr, args: vals})
	}

	for key, value := range filters {
		switch {
		case strings.HasSuffix(key, "_like"):
			appendCond(strings.TrimSuffix(key, "_like"), " LIKE ?", "%"+toString(value)+"%")
		case strings.HasSuffix(key, "_gte"):
			appendCond(strings.TrimSuffix(key, "_gte"), " >= ?", value)
		case strings.HasSuffix(key, "_lte"):
			appendCond(strings.TrimSuffix(key, "_lte"), " <= ?", value)
		case strings.HasSuffix(key, "_gt"):
			appendCond(strings.TrimSuffix(key, "_gt"), " > ?", value)
		case strings.HasSuffix(key, "_lt"):
			appendCond(strings.TrimSuffix(key, "_lt"), " < ?", value)
		case strings.HasSuffix(key, "_ne"):
			appendCond(strings.TrimSuffix(key, "_ne"), " != ?", value)
		case strings.HasSuffix(key, "_not_in"):
			field := strings.TrimSuffix(key, "_not_in")
			if parts := splitList(value); len(parts) > 0 {
				appendCond(field, " NOT IN ("+placeholders(len(parts))+")", parts...)
			}
		case strings.HasSuffix(key, "_in"):
			field := strings.TrimSuffix(key, "_in")
			if parts := splitList(value); len(parts) > 0 {
				appendCond(field, " IN ("+placeholders(len(parts))+")", parts...)
			}
		default:
			appendCond(key, " = ?", value)
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	sort.Slice(conds, func(i, j int) bool { return conds[i].expr < conds[j].expr })

	exprs := make([]string, 0, len(conds))
	var args []any
	for _, c := range conds {
		exprs = append(exprs, c.expr)
		args = append(args, c.args...)
	}
	return " WHERE " + strings.Join(exprs, " AND "), args
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func splitList(v any) []any {
	raw := toString(v)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
