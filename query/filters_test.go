package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFilterBuilder_Operators 测试各操作符的键后缀
func TestFilterBuilder_Operators(t *testing.T) {
	f := NewFilterBuilder().
		Eq("status", "active").
		Like("name", "go").
		Gt("age", 18).
		Gte("score", 60).
		Lt("price", 100).
		Lte("stock", 5).
		Ne("kind", "draft").
		In("tag", []string{"a", "b"}).
		NotIn("owner", []string{"x"})

	assert.Equal(t, map[string]any{
		"status":       "active",
		"name_like":    "go",
		"age_gt":       18,
		"score_gte":    60,
		"price_lt":     100,
		"stock_lte":    5,
		"kind_ne":      "draft",
		"tag_in":       "a,b",
		"owner_not_in": "x",
	}, f.Build())
}

// TestFilterBuilder_SkipsEmptyField 测试空字段名被跳过
func TestFilterBuilder_SkipsEmptyField(t *testing.T) {
	f := NewFilterBuilder().
		Eq("", "x").
		Like("", "x").
		In("tag", nil)

	assert.Zero(t, f.Len())
	assert.Nil(t, f.Build(), "无条件时返回 nil")
}

// TestFilterBuilder_BuildReturnsCopy 测试 Build 返回副本
func TestFilterBuilder_BuildReturnsCopy(t *testing.T) {
	f := NewFilterBuilder().Eq("a", 1)

	m1 := f.Build()
	m1["b"] = 2

	m2 := f.Build()
	assert.Equal(t, map[string]any{"a": 1}, m2)
}
