package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocrud/errors"
	"gocrud/events"
	"gocrud/permission"
)

// TestCrudService_CreateBatch 测试批量创建
func TestCrudService_CreateBatch(t *testing.T) {
	svc, _ := newBookService(nil)
	ctx := context.Background()

	dtos, err := svc.CreateBatch(ctx, []bookDto{
		{Title: "A", Author: "alice"},
		{Title: "B", Author: "bob"},
		{Title: "C", Author: "alice"},
	})
	require.NoError(t, err)
	require.Len(t, dtos, 3)
	// 返回顺序与输入顺序一致
	assert.Equal(t, "A", dtos[0].Title)
	assert.Equal(t, "B", dtos[1].Title)
	assert.Equal(t, "C", dtos[2].Title)
	for _, d := range dtos {
		assert.NotZero(t, d.ID)
	}
}

// TestCrudService_CreateBatch_RollbackOnFailure 测试整批回滚：
// 任一实体失败时不留下部分写入
func TestCrudService_CreateBatch_RollbackOnFailure(t *testing.T) {
	svc, repo := newBookService(nil)
	ctx := context.Background()

	_, err := svc.CreateBatch(ctx, []bookDto{
		{Title: "A", Author: "alice"},
		{Title: "A", Author: "bob"}, // 与第一条唯一冲突
	})
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "批量失败后不应留下部分写入的实体")
}

// TestCrudService_CreateBatch_NoEventsOnMappingFailure 测试映射失败时
// 不发布任何实体变更事件：事件发布在整批映射完成之后
func TestCrudService_CreateBatch_NoEventsOnMappingFailure(t *testing.T) {
	publisher := events.NewLocalPublisher()
	var received []events.EntityChanged
	publisher.Subscribe(func(ctx context.Context, evt events.EntityChanged) {
		received = append(received, evt)
	})

	svc, _ := newBookService(&bookOptions{
		Publisher:  publisher,
		EntityType: "book",
		AfterMapToDto: func(ctx context.Context, e *book, d *bookDto) error {
			if e.Title == "B" {
				return errors.NewError(errors.ErrCodeInternal, "映射失败")
			}
			return nil
		},
	})

	_, err := svc.CreateBatch(context.Background(), []bookDto{
		{Title: "A", Author: "alice"},
		{Title: "B", Author: "bob"},
	})
	require.Error(t, err)
	assert.Empty(t, received, "映射失败的批次不应发布任何事件")
}

// TestCrudService_CreateBatch_ValidatesAllFirst 测试验证先于任何写入
func TestCrudService_CreateBatch_ValidatesAllFirst(t *testing.T) {
	svc, repo := newBookService(nil)

	_, err := svc.CreateBatch(context.Background(), []bookDto{
		{Title: "A", Author: "alice"},
		{Title: "", Author: "bob"}, // 验证失败
	})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, int64(0), repo.calls.Load(), "验证失败时不应有任何仓储访问")
}

// TestCrudService_CreateBatch_Empty 测试空批次
func TestCrudService_CreateBatch_Empty(t *testing.T) {
	svc, _ := newBookService(nil)

	dtos, err := svc.CreateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, dtos)
}

// TestCrudService_CreateBatch_SizeLimit 测试批量大小上限
func TestCrudService_CreateBatch_SizeLimit(t *testing.T) {
	svc, _ := newBookService(nil)

	ins := make([]bookDto, defaultMaxBatchSize+1)
	_, err := svc.CreateBatch(context.Background(), ins)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

// TestCrudService_DeleteBatch 测试批量删除
func TestCrudService_DeleteBatch(t *testing.T) {
	svc, repo := newBookService(nil)
	ctx := context.Background()

	dtos, err := svc.CreateBatch(ctx, []bookDto{
		{Title: "A"}, {Title: "B"}, {Title: "C"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBatch(ctx, []int64{dtos[0].ID, dtos[2].ID}))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

// TestCrudService_DeleteBatch_RollbackOnMissing 测试缺失主键时整批回滚
func TestCrudService_DeleteBatch_RollbackOnMissing(t *testing.T) {
	svc, repo := newBookService(nil)
	ctx := context.Background()

	dtos, err := svc.CreateBatch(ctx, []bookDto{{Title: "A"}, {Title: "B"}})
	require.NoError(t, err)

	err = svc.DeleteBatch(ctx, []int64{dtos[0].ID, 999})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "批量删除失败后原有实体应保持不变")
}

// TestCrudService_Batch_PermissionDenied 测试批量操作同样受授权保护
func TestCrudService_Batch_PermissionDenied(t *testing.T) {
	svc, repo := newBookService(&bookOptions{
		Permissions: permission.Names{Create: "book.create", Delete: "book.delete"},
		Checker:     permission.DenyAll{},
	})
	ctx := context.Background()

	_, err := svc.CreateBatch(ctx, []bookDto{{Title: "A"}})
	assert.True(t, errors.IsForbidden(err))

	err = svc.DeleteBatch(ctx, []int64{1})
	assert.True(t, errors.IsForbidden(err))

	assert.Equal(t, int64(0), repo.calls.Load())
}
