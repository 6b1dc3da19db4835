package memory

import (
	"fmt"
	"strings"
	"time"
)

// matchesFilters 判断投影后的字段是否满足全部过滤条件（AND 组合）。
// 字段名后缀表达操作符，与 SQL 实现共用同一约定；
// 投影中不存在的字段上的条件被忽略。
func matchesFilters(fields map[string]any, filters map[string]any) bool {
	for key, want := range filters {
		field, op := splitOperator(key)
		got, ok := fields[field]
		if !ok {
			continue
		}
		if !applyOperator(op, got, want) {
			return false
		}
	}
	return true
}

func splitOperator(key string) (field, op string) {
	suffixes := []string{"_not_in", "_like", "_gte", "_lte", "_gt", "_lt", "_ne", "_in"}
	for _, s := range suffixes {
		if strings.HasSuffix(key, s) {
			return strings.TrimSuffix(key, s), strings.TrimPrefix(s, "_")
		}
	}
	return key, "eq"
}

func applyOperator(op string, got, want any) bool {
	switch op {
	case "eq":
		return equalValues(got, want)
	case "ne":
		return !equalValues(got, want)
	case "like":
		return strings.Contains(
			strings.ToLower(fmt.Sprint(got)),
			strings.ToLower(fmt.Sprint(want)))
	case "gt":
		return compareValues(got, want) > 0
	case "gte":
		return compareValues(got, want) >= 0
	case "lt":
		return compareValues(got, want) < 0
	case "lte":
		return compareValues(got, want) <= 0
	case "in":
		return containsValue(want, got)
	case "not_in":
		return !containsValue(want, got)
	}
	return false
}

// equalValues 跨数值类型的等值比较，其余类型比较字符串形式
func equalValues(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// compareValues 返回 -1/0/1。
// 数值按数值比较，时间按时刻比较，其余按字符串形式的字典序比较。
func compareValues(a, b any) int {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	if at, aok := a.(time.Time); aok {
		if bt, bok := b.(time.Time); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// containsValue 判断 got 是否出现在逗号分隔的列表值中
func containsValue(list any, got any) bool {
	needle := fmt.Sprint(got)
	for _, part := range strings.Split(fmt.Sprint(list), ",") {
		if strings.TrimSpace(part) == needle {
			return true
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
