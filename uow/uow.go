// Package uow 提供工作单元（事务范围）抽象。
//
// 每次服务操作在入口处获取一个事务范围，出口处释放：
// 正常返回时提交，返回错误或 panic 时回滚。
// 任何操作不得跨越多个事务，也不会有两个操作共享同一事务。
package uow

import "context"

// IUnitOfWork 工作单元接口。
// Run 以操作体为单位执行：获取事务句柄，在所有退出路径上保证提交/回滚。
type IUnitOfWork interface {
	// Run 在一个事务范围内执行 fn。
	// fn 收到的 context 携带事务句柄，仓储实现据此加入同一事务；
	// fn 返回 nil 时提交，返回 error 或 panic 时回滚。
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// Noop 空实现，适用于自身保证原子性的存储（如内存仓储）
type Noop struct{}

// Run 实现 IUnitOfWork 接口，直接执行 fn
func (Noop) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
