package service

import (
	"context"

	"gocrud/errors"
	"gocrud/events"
	"gocrud/permission"
	"gocrud/repository"
)

// 批量操作上限，防止单个事务承载过多写入
const defaultMaxBatchSize = 1000

// CreateBatch 批量创建实体，整个批次在一个事务内执行：
// 任一输入验证或写入失败时整批回滚。
// 返回的 DTO 顺序与输入顺序一致。
func (s *CrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) CreateBatch(ctx context.Context, ins []TCreateInput) ([]TDto, error) {
	if err := s.authorize(ctx, permission.OpCreate); err != nil {
		return nil, err
	}
	if len(ins) == 0 {
		return []TDto{}, nil
	}
	if len(ins) > defaultMaxBatchSize {
		return nil, errors.NewErrorf(errors.ErrCodeInvalidInput,
			"batch size %d exceeds limit %d", len(ins), defaultMaxBatchSize)
	}

	// 验证与映射先于任何持久化访问
	entities := make([]T, 0, len(ins))
	for _, in := range ins {
		if err := s.opts.Validator.Validate(in); err != nil {
			return nil, err
		}
		e, err := s.opts.Mapper.ToEntity(in)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}

	created := make([]T, 0, len(entities))
	err := s.opts.UnitOfWork.Run(ctx, func(ctx context.Context) error {
		if batch, ok := s.repo.(repository.IBatchRepository[T, ID]); ok {
			var err error
			created, err = batch.CreateAll(ctx, entities)
			return err
		}
		for _, e := range entities {
			c, err := s.repo.Create(ctx, e)
			if err != nil {
				return err
			}
			created = append(created, c)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "create_batch", err)
	}

	// 先完成全部映射再发布事件，映射失败时不发布任何事件
	dtos := make([]TDto, 0, len(created))
	for _, e := range created {
		d, err := s.mapToDto(ctx, e)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, d)
	}
	for _, e := range created {
		s.publish(ctx, events.ActionCreated, e.GetID())
	}
	return dtos, nil
}

// DeleteBatch 批量删除实体，整个批次在一个事务内执行：
// 任一主键不存在时整批回滚并返回 NOT_FOUND。
func (s *CrudService[T, ID, TDto, TListInput, TCreateInput, TUpdateInput]) DeleteBatch(ctx context.Context, ids []ID) error {
	if err := s.authorize(ctx, permission.OpDelete); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if len(ids) > defaultMaxBatchSize {
		return errors.NewErrorf(errors.ErrCodeInvalidInput,
			"batch size %d exceeds limit %d", len(ids), defaultMaxBatchSize)
	}

	err := s.opts.UnitOfWork.Run(ctx, func(ctx context.Context) error {
		if batch, ok := s.repo.(repository.IBatchRepository[T, ID]); ok {
			return batch.DeleteAll(ctx, ids)
		}
		for _, id := range ids {
			if err := s.repo.Delete(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return s.fail(ctx, "delete_batch", err)
	}

	for _, id := range ids {
		s.publish(ctx, events.ActionDeleted, id)
	}
	return nil
}
