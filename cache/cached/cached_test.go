package cached

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocrud/cache"
	"gocrud/dto"
	"gocrud/errors"
)

type item struct {
	ID   int64
	Name string
}

func (i *item) GetID() int64 { return i.ID }

type itemDto struct {
	dto.EntityDto[int64]
	Name string
}

// stubService 记录透传调用次数的内层服务
type stubService struct {
	items    map[int64]itemDto
	getCalls int
}

func newStubService() *stubService {
	return &stubService{items: make(map[int64]itemDto)}
}

func (s *stubService) Get(ctx context.Context, id int64) (itemDto, error) {
	s.getCalls++
	d, ok := s.items[id]
	if !ok {
		return itemDto{}, errors.NewError(errors.ErrCodeNotFound, "item not found")
	}
	return d, nil
}

func (s *stubService) GetAll(ctx context.Context, in struct{}) (*dto.PagedResult[itemDto], error) {
	out := make([]itemDto, 0, len(s.items))
	for _, d := range s.items {
		out = append(out, d)
	}
	return &dto.PagedResult[itemDto]{Items: out, Total: int64(len(out))}, nil
}

func (s *stubService) Create(ctx context.Context, in itemDto) (itemDto, error) {
	in.ID = int64(len(s.items) + 1)
	s.items[in.ID] = in
	return in, nil
}

func (s *stubService) Update(ctx context.Context, in itemDto) (itemDto, error) {
	if _, ok := s.items[in.ID]; !ok {
		return itemDto{}, errors.NewError(errors.ErrCodeNotFound, "item not found")
	}
	s.items[in.ID] = in
	return in, nil
}

func (s *stubService) Delete(ctx context.Context, id int64) error {
	if _, ok := s.items[id]; !ok {
		return errors.NewError(errors.ErrCodeNotFound, "item not found")
	}
	delete(s.items, id)
	return nil
}

func newCachedService(inner *stubService) *Service[*item, int64, itemDto, struct{}, itemDto, itemDto] {
	return New[*item, int64, itemDto, struct{}, itemDto, itemDto](
		inner,
		cache.NewMemory[itemDto](cache.MemoryConfig{MaxSize: 16, TTL: time.Minute}),
		Config{KeyPrefix: "item:"},
	)
}

// TestCached_GetThroughCache 测试重复读取命中缓存
func TestCached_GetThroughCache(t *testing.T) {
	inner := newStubService()
	svc := newCachedService(inner)
	ctx := context.Background()

	created, err := svc.Create(ctx, itemDto{Name: "a"})
	require.NoError(t, err)

	// Create 已写入缓存，读取不触碰内层服务
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Zero(t, inner.getCalls)

	_, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Zero(t, inner.getCalls, "缓存命中时不应透传")
}

// TestCached_MissFallsThrough 测试未命中时透传并回填
func TestCached_MissFallsThrough(t *testing.T) {
	inner := newStubService()
	inner.items[7] = itemDto{EntityDto: dto.EntityDto[int64]{ID: 7}, Name: "x"}
	svc := newCachedService(inner)
	ctx := context.Background()

	got, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Name)
	assert.Equal(t, 1, inner.getCalls)

	// 回填后第二次读取命中
	_, err = svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.getCalls)
}

// TestCached_ErrorsNotCached 测试错误不写入缓存
func TestCached_ErrorsNotCached(t *testing.T) {
	inner := newStubService()
	svc := newCachedService(inner)
	ctx := context.Background()

	_, err := svc.Get(ctx, 404)
	assert.True(t, errors.IsNotFound(err))

	_, err = svc.Get(ctx, 404)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, 2, inner.getCalls, "失败结果不应被缓存")
}

// TestCached_UpdateRefreshes 测试更新后缓存返回新值
func TestCached_UpdateRefreshes(t *testing.T) {
	inner := newStubService()
	svc := newCachedService(inner)
	ctx := context.Background()

	created, err := svc.Create(ctx, itemDto{Name: "old"})
	require.NoError(t, err)

	updated := created
	updated.Name = "new"
	_, err = svc.Update(ctx, updated)
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)
	assert.Zero(t, inner.getCalls, "更新后的值应直接来自缓存")
}

// rawDto 未嵌入 EntityDto 的纯数据 DTO，主键无法通过断言取得
type rawDto struct {
	Code int64
	Name string
}

type rawPatch struct {
	Code int64
	Name string
}

type rawStub struct {
	items    map[int64]rawDto
	getCalls int
}

func (s *rawStub) Get(ctx context.Context, id int64) (rawDto, error) {
	s.getCalls++
	d, ok := s.items[id]
	if !ok {
		return rawDto{}, errors.NewError(errors.ErrCodeNotFound, "item not found")
	}
	return d, nil
}

func (s *rawStub) GetAll(ctx context.Context, in struct{}) (*dto.PagedResult[rawDto], error) {
	out := make([]rawDto, 0, len(s.items))
	for _, d := range s.items {
		out = append(out, d)
	}
	return &dto.PagedResult[rawDto]{Items: out, Total: int64(len(out))}, nil
}

func (s *rawStub) Create(ctx context.Context, in rawDto) (rawDto, error) {
	s.items[in.Code] = in
	return in, nil
}

func (s *rawStub) Update(ctx context.Context, in rawPatch) (rawDto, error) {
	d, ok := s.items[in.Code]
	if !ok {
		return rawDto{}, errors.NewError(errors.ErrCodeNotFound, "item not found")
	}
	d.Name = in.Name
	s.items[in.Code] = d
	return d, nil
}

func (s *rawStub) Delete(ctx context.Context, id int64) error {
	delete(s.items, id)
	return nil
}

// TestCached_UpdateKeyExtractor 测试 DTO 与更新输入都不携带主键断言时，
// 通过 WithUpdateKey 提取主键并在更新后刷新缓存
func TestCached_UpdateKeyExtractor(t *testing.T) {
	inner := &rawStub{items: map[int64]rawDto{7: {Code: 7, Name: "old"}}}
	svc := New[*item, int64, rawDto, struct{}, rawDto, rawPatch](
		inner,
		cache.NewMemory[rawDto](cache.MemoryConfig{MaxSize: 16, TTL: time.Minute}),
		Config{KeyPrefix: "raw:"},
		WithUpdateKey[*item, int64, rawDto, struct{}, rawDto, rawPatch](
			func(in rawPatch) int64 { return in.Code },
		),
	)
	ctx := context.Background()

	got, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "old", got.Name)
	require.Equal(t, 1, inner.getCalls)

	_, err = svc.Update(ctx, rawPatch{Code: 7, Name: "new"})
	require.NoError(t, err)

	got, err = svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name, "更新后缓存应返回新值而非过期旧值")
	assert.Equal(t, 1, inner.getCalls, "刷新后的读取应命中缓存")
}

// TestCached_DeleteInvalidates 测试删除后缓存失效
func TestCached_DeleteInvalidates(t *testing.T) {
	inner := newStubService()
	svc := newCachedService(inner)
	ctx := context.Background()

	created, err := svc.Create(ctx, itemDto{Name: "a"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, 1, inner.getCalls, "失效后读取应透传到内层服务")
}
