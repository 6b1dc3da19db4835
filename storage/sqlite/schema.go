// Package sqlite 提供基于 database/sql 与 modernc.org/sqlite 驱动的仓储实现。
// 调用方需在上层空导入驱动：_ "modernc.org/sqlite"。
package sqlite

import (
	"fmt"

	"gocrud/domain"
)

// IRowScanner 行扫描接口，*sql.Row 与 *sql.Rows 均满足
type IRowScanner interface {
	Scan(dest ...any) error
}

// Schema 实体的表结构描述。
// 不做反射字段拷贝：列值提取与行扫描都由显式函数完成，
// 保证编译期类型安全。
type Schema[T domain.IObject[ID], ID comparable] struct {
	// Table 表名
	Table string

	// Key 主键列名
	Key string

	// Columns 非主键列名，顺序与 Values 返回值对齐
	Columns []string

	// Values 提取实体的非主键列值，顺序与 Columns 对齐
	Values func(e T) []any

	// Scan 按 Key + Columns 的顺序扫描一行并构造实体
	Scan func(s IRowScanner) (T, error)

	// SetKey 将生成的主键写入实体（配合主键生成器使用，可选）
	SetKey func(e T, id ID)
}

func (s *Schema[T, ID]) validate() error {
	switch {
	case s.Table == "":
		return fmt.Errorf("sqlite: schema table name is required")
	case s.Key == "":
		return fmt.Errorf("sqlite: schema key column is required")
	case len(s.Columns) == 0:
		return fmt.Errorf("sqlite: schema requires at least one non-key column")
	case s.Values == nil:
		return fmt.Errorf("sqlite: schema Values func is required")
	case s.Scan == nil:
		return fmt.Errorf("sqlite: schema Scan func is required")
	}
	return nil
}

// allowedFields 返回可用于过滤与排序的列名白名单
func (s *Schema[T, ID]) allowedFields() map[string]struct{} {
	allowed := make(map[string]struct{}, len(s.Columns)+1)
	allowed[s.Key] = struct{}{}
	for _, c := range s.Columns {
		allowed[c] = struct{}{}
	}
	return allowed
}
