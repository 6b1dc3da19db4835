package uow

import (
	"context"
	"database/sql"

	"gocrud/errors"
)

type txKey struct{}

// TxFromContext 提取 context 中携带的事务句柄。
// 仓储实现在执行语句前调用：存在事务时加入，否则直连数据库。
func TxFromContext(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

// SQLUnitOfWork 基于 database/sql 的工作单元实现。
// 事务通过 context 传递给同一操作内的所有仓储调用。
type SQLUnitOfWork struct {
	db   *sql.DB
	opts *sql.TxOptions
}

// NewSQLUnitOfWork 创建 SQL 工作单元
func NewSQLUnitOfWork(db *sql.DB) *SQLUnitOfWork {
	return &SQLUnitOfWork{db: db}
}

// WithTxOptions 设置事务选项（隔离级别、只读等）
func (u *SQLUnitOfWork) WithTxOptions(opts *sql.TxOptions) *SQLUnitOfWork {
	u.opts = opts
	return u
}

// Run 实现 IUnitOfWork 接口。
// context 已携带事务时直接加入现有范围，不开启嵌套事务。
func (u *SQLUnitOfWork) Run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := u.db.BeginTx(ctx, u.opts)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeDatabase, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = errors.WrapError(commitErr, errors.ErrCodeDatabase, "failed to commit transaction")
		}
	}()

	err = fn(context.WithValue(ctx, txKey{}, tx))
	return err
}
