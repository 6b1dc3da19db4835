package sqlite

import (
	"context"
	"database/sql"
	ers "errors"
	"strings"

	"gocrud/domain"
	"gocrud/errors"
	"gocrud/repository"
	"gocrud/uow"
)

// executor 语句执行接口，*sql.DB 与 *sql.Tx 均满足
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Option 仓储配置选项
type Option[T domain.IObject[ID], ID comparable] func(*Repository[T, ID])

// WithKeyGenerator 配置主键生成器：实体主键为零值时在插入前生成并写入。
// 需要 Schema.SetKey 配合。
func WithKeyGenerator[T domain.IObject[ID], ID comparable](gen func() (ID, error)) Option[T, ID] {
	return func(r *Repository[T, ID]) {
		r.keyGen = gen
	}
}

// Repository 基于 SQLite 的通用仓储实现。
// 所有方法在 context 携带事务句柄时自动加入该事务（见 uow 包）。
type Repository[T domain.IObject[ID], ID comparable] struct {
	db      *sql.DB
	schema  Schema[T, ID]
	allowed map[string]struct{}
	keyGen  func() (ID, error)
}

// NewRepository 创建 SQLite 仓储
func NewRepository[T domain.IObject[ID], ID comparable](db *sql.DB, schema Schema[T, ID], opts ...Option[T, ID]) (*Repository[T, ID], error) {
	if err := schema.validate(); err != nil {
		return nil, err
	}
	r := &Repository[T, ID]{
		db:      db,
		schema:  schema,
		allowed: schema.allowedFields(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// exec 返回当前调用应使用的执行器：事务优先，否则直连数据库
func (r *Repository[T, ID]) exec(ctx context.Context) executor {
	if tx, ok := uow.TxFromContext(ctx); ok {
		return tx
	}
	return r.db
}

// Create 实现 IRepository 接口。
// 唯一约束冲突映射为 ErrEntityAlreadyExists。
func (r *Repository[T, ID]) Create(ctx context.Context, e T) (T, error) {
	var zero T
	var zeroID ID
	if r.keyGen != nil && r.schema.SetKey != nil && e.GetID() == zeroID {
		id, err := r.keyGen()
		if err != nil {
			return zero, errors.WrapError(err, errors.ErrCodeDatabase, "failed to generate entity key")
		}
		r.schema.SetKey(e, id)
	}

	cols := append([]string{r.schema.Key}, r.schema.Columns...)
	args := append([]any{e.GetID()}, r.schema.Values(e)...)
	q := "INSERT INTO " + r.schema.Table +
		" (" + strings.Join(cols, ", ") + ") VALUES (" + placeholders(len(cols)) + ")"

	if _, err := r.exec(ctx).ExecContext(ctx, q, args...); err != nil {
		if isUniqueViolation(err) {
			return zero, &repository.RepositoryError{
				Code:     "ENTITY_ALREADY_EXISTS",
				Message:  "entity already exists",
				EntityID: e.GetID(),
				Cause:    err,
			}
		}
		return zero, errors.WrapError(err, errors.ErrCodeDatabase, "failed to insert record")
	}
	return e, nil
}

// GetByID 实现 IRepository 接口
func (r *Repository[T, ID]) GetByID(ctx context.Context, id ID) (T, error) {
	var zero T
	q := "SELECT " + r.selectColumns() + " FROM " + r.schema.Table +
		" WHERE " + r.schema.Key + " = ?"
	row := r.exec(ctx).QueryRowContext(ctx, q, id)

	e, err := r.schema.Scan(row)
	if err != nil {
		if ers.Is(err, sql.ErrNoRows) {
			return zero, repository.NewNotFoundError(id)
		}
		return zero, errors.WrapError(err, errors.ErrCodeDatabase, "failed to query record")
	}
	return e, nil
}

// Update 实现 IRepository 接口
func (r *Repository[T, ID]) Update(ctx context.Context, e T) error {
	sets := make([]string, len(r.schema.Columns))
	for i, c := range r.schema.Columns {
		sets[i] = c + " = ?"
	}
	args := append(r.schema.Values(e), e.GetID())
	q := "UPDATE " + r.schema.Table + " SET " + strings.Join(sets, ", ") +
		" WHERE " + r.schema.Key + " = ?"

	res, err := r.exec(ctx).ExecContext(ctx, q, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return &repository.RepositoryError{
				Code:     "ENTITY_ALREADY_EXISTS",
				Message:  "entity already exists",
				EntityID: e.GetID(),
				Cause:    err,
			}
		}
		return errors.WrapError(err, errors.ErrCodeDatabase, "failed to update record")
	}
	return r.requireAffected(res, e.GetID())
}

// Delete 实现 IRepository 接口
func (r *Repository[T, ID]) Delete(ctx context.Context, id ID) error {
	q := "DELETE FROM " + r.schema.Table + " WHERE " + r.schema.Key + " = ?"
	res, err := r.exec(ctx).ExecContext(ctx, q, id)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeDatabase, "failed to delete record")
	}
	return r.requireAffected(res, id)
}

// Count 实现 IRepository 接口
func (r *Repository[T, ID]) Count(ctx context.Context) (int64, error) {
	var count int64
	q := "SELECT COUNT(*) FROM " + r.schema.Table
	if err := r.exec(ctx).QueryRowContext(ctx, q).Scan(&count); err != nil {
		return 0, errors.WrapError(err, errors.ErrCodeDatabase, "failed to count records")
	}
	return count, nil
}

// Exists 实现 IRepository 接口
func (r *Repository[T, ID]) Exists(ctx context.Context, id ID) (bool, error) {
	var count int64
	q := "SELECT COUNT(*) FROM " + r.schema.Table + " WHERE " + r.schema.Key + " = ?"
	if err := r.exec(ctx).QueryRowContext(ctx, q, id).Scan(&count); err != nil {
		return false, errors.WrapError(err, errors.ErrCodeDatabase, "failed to check record existence")
	}
	return count > 0, nil
}

// Query 实现 IQueryableRepository 接口。
// 组装顺序固定：WHERE（过滤）→ ORDER BY（排序）→ LIMIT/OFFSET（分页）。
func (r *Repository[T, ID]) Query(ctx context.Context, opts repository.QueryOptions) ([]T, error) {
	where, args := r.whereClause(opts.Filters)
	q := "SELECT " + r.selectColumns() + " FROM " + r.schema.Table + where

	// 排序字段不在白名单时回退到主键，保证分页的确定性
	orderBy := opts.OrderBy
	if _, ok := r.allowed[orderBy]; !ok {
		orderBy = r.schema.Key
	}
	q += " ORDER BY " + orderBy
	if opts.OrderDesc {
		q += " DESC"
	}
	// 主键作为并列时的决定性次序
	if orderBy != r.schema.Key {
		q += ", " + r.schema.Key
	}

	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	} else if opts.Offset > 0 {
		// SQLite 的 OFFSET 依附于 LIMIT，-1 表示不限制
		q += " LIMIT -1"
	}
	if opts.Offset > 0 {
		q += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.exec(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to query records")
	}
	defer rows.Close()

	var entities []T
	for rows.Next() {
		e, err := r.schema.Scan(rows)
		if err != nil {
			return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to scan record")
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to iterate records")
	}
	return entities, nil
}

// QueryCount 实现 IQueryableRepository 接口，只应用过滤条件
func (r *Repository[T, ID]) QueryCount(ctx context.Context, opts repository.QueryOptions) (int64, error) {
	where, args := r.whereClause(opts.Filters)
	q := "SELECT COUNT(*) FROM " + r.schema.Table + where

	var count int64
	if err := r.exec(ctx).QueryRowContext(ctx, q, args...).Scan(&count); err != nil {
		return 0, errors.WrapError(err, errors.ErrCodeDatabase, "failed to count records")
	}
	return count, nil
}

// CreateAll 实现 IBatchRepository 接口。
// 原子性由调用方的事务范围保证（服务层在一个 uow.Run 内调用）。
func (r *Repository[T, ID]) CreateAll(ctx context.Context, entities []T) ([]T, error) {
	created := make([]T, 0, len(entities))
	for _, e := range entities {
		c, err := r.Create(ctx, e)
		if err != nil {
			return nil, err
		}
		created = append(created, c)
	}
	return created, nil
}

// DeleteAll 实现 IBatchRepository 接口
func (r *Repository[T, ID]) DeleteAll(ctx context.Context, ids []ID) error {
	for _, id := range ids {
		if err := r.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository[T, ID]) selectColumns() string {
	return r.schema.Key + ", " + strings.Join(r.schema.Columns, ", ")
}

func (r *Repository[T, ID]) requireAffected(res sql.Result, id ID) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeDatabase, "failed to read rows affected")
	}
	if affected == 0 {
		return repository.NewNotFoundError(id)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// isUniqueViolation 识别 SQLite 唯一约束冲突
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}
