// Package permission 提供按权限名授权的策略抽象。
// 权限名是不透明字符串，其含义由具体的 IChecker 实现解释；
// 某操作未配置权限名时，该操作不受内置机制保护。
package permission

import "context"

// Operation 服务操作标识
type Operation string

const (
	OpGet    Operation = "get"
	OpGetAll Operation = "get_all"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// IChecker 权限检查器接口。
// 给定权限名与调用方上下文，返回允许/拒绝；拒绝在服务层表现为 FORBIDDEN 错误。
type IChecker interface {
	// IsGranted 判断当前调用方是否拥有指定权限
	IsGranted(ctx context.Context, name string) (bool, error)
}

// Names 各操作对应的权限名。
// 每个操作至多一个权限名；空字符串表示该操作不设防。
type Names struct {
	Get    string
	GetAll string
	Create string
	Update string
	Delete string
}

// For 返回指定操作的权限名
func (n Names) For(op Operation) string {
	switch op {
	case OpGet:
		return n.Get
	case OpGetAll:
		return n.GetAll
	case OpCreate:
		return n.Create
	case OpUpdate:
		return n.Update
	case OpDelete:
		return n.Delete
	}
	return ""
}

// AllowAll 放行所有权限的检查器（默认实现）
type AllowAll struct{}

// IsGranted 实现 IChecker 接口
func (AllowAll) IsGranted(ctx context.Context, name string) (bool, error) { return true, nil }

// DenyAll 拒绝所有权限的检查器（用于测试与安全兜底）
type DenyAll struct{}

// IsGranted 实现 IChecker 接口
func (DenyAll) IsGranted(ctx context.Context, name string) (bool, error) { return false, nil }

// StaticChecker 基于静态授权集合的检查器。
// 适合测试与简单场景；生产环境通常接入外部的权限系统。
type StaticChecker struct {
	granted map[string]struct{}
}

// NewStaticChecker 创建静态检查器，granted 为已授权的权限名集合
func NewStaticChecker(granted ...string) *StaticChecker {
	set := make(map[string]struct{}, len(granted))
	for _, name := range granted {
		set[name] = struct{}{}
	}
	return &StaticChecker{granted: set}
}

// IsGranted 实现 IChecker 接口
func (c *StaticChecker) IsGranted(ctx context.Context, name string) (bool, error) {
	_, ok := c.granted[name]
	return ok, nil
}

// CheckerFunc 函数型检查器适配
type CheckerFunc func(ctx context.Context, name string) (bool, error)

// IsGranted 实现 IChecker 接口
func (f CheckerFunc) IsGranted(ctx context.Context, name string) (bool, error) {
	return f(ctx, name)
}
