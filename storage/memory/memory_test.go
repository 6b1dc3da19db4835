package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocrud/repository"
)

type user struct {
	ID    int64
	Name  string
	Email string
	Age   int
}

func (u *user) GetID() int64 { return u.ID }

func userProj(u *user) map[string]any {
	return map[string]any{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"age":   u.Age,
	}
}

func newUserRepo(opts ...Option[*user, int64]) *Repository[*user, int64] {
	var next int64
	base := []Option[*user, int64]{
		WithKeyGenerator[*user, int64](
			func() int64 { next++; return next },
			func(u *user, id int64) { u.ID = id },
		),
	}
	return NewRepository(userProj, append(base, opts...)...)
}

func seedUsers(t *testing.T, repo *Repository[*user, int64]) {
	t.Helper()
	for _, u := range []*user{
		{Name: "carol", Email: "carol@a.com", Age: 35},
		{Name: "alice", Email: "alice@a.com", Age: 30},
		{Name: "dave", Email: "dave@b.com", Age: 40},
		{Name: "bob", Email: "bob@b.com", Age: 25},
	} {
		_, err := repo.Create(context.Background(), u)
		require.NoError(t, err)
	}
}

// TestRepository_CRUD 测试基本增删改查
func TestRepository_CRUD(t *testing.T) {
	repo := newUserRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, &user{Name: "alice"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID, "零值主键应触发主键生成")

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)

	got.Name = "alice2"
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Name)

	exists, err := repo.Exists(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrEntityNotFound)
}

// TestRepository_NotFound 测试不存在实体的各操作
func TestRepository_NotFound(t *testing.T) {
	repo := newUserRepo()
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrEntityNotFound)

	assert.ErrorIs(t, repo.Update(ctx, &user{ID: 999}), repository.ErrEntityNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 999), repository.ErrEntityNotFound)

	exists, err := repo.Exists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestRepository_DuplicateKey 测试重复主键
func TestRepository_DuplicateKey(t *testing.T) {
	repo := NewRepository(userProj)
	ctx := context.Background()

	_, err := repo.Create(ctx, &user{ID: 1, Name: "a"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &user{ID: 1, Name: "b"})
	assert.ErrorIs(t, err, repository.ErrEntityAlreadyExists)

	// 未配置主键生成时零值主键非法
	_, err = repo.Create(ctx, &user{Name: "c"})
	assert.ErrorIs(t, err, repository.ErrInvalidID)
}

// TestRepository_UniqueFields 测试唯一字段约束
func TestRepository_UniqueFields(t *testing.T) {
	repo := newUserRepo(
		WithClone[*user, int64](func(u *user) *user { c := *u; return &c }),
		WithUniqueFields[*user, int64]("email"),
	)
	ctx := context.Background()

	first, err := repo.Create(ctx, &user{Name: "a", Email: "dup@x.com"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &user{Name: "b", Email: "dup@x.com"})
	assert.ErrorIs(t, err, repository.ErrEntityAlreadyExists)

	// 更新为他人的唯一值同样冲突
	second, err := repo.Create(ctx, &user{Name: "c", Email: "other@x.com"})
	require.NoError(t, err)
	second.Email = "dup@x.com"
	assert.ErrorIs(t, repo.Update(ctx, second), repository.ErrEntityAlreadyExists)

	// 自身更新不冲突
	first.Name = "a2"
	assert.NoError(t, repo.Update(ctx, first))
}

// TestRepository_Query_Filters 测试过滤操作符
func TestRepository_Query_Filters(t *testing.T) {
	repo := newUserRepo()
	seedUsers(t, repo)
	ctx := context.Background()

	tests := []struct {
		name      string
		filters   map[string]any
		wantNames []string
	}{
		{"等值", map[string]any{"name": "alice"}, []string{"alice"}},
		{"模糊", map[string]any{"email_like": "@a.com"}, []string{"carol", "alice"}},
		{"大于", map[string]any{"age_gt": 30}, []string{"carol", "dave"}},
		{"大于等于", map[string]any{"age_gte": 30}, []string{"carol", "alice", "dave"}},
		{"小于", map[string]any{"age_lt": 30}, []string{"bob"}},
		{"不等于", map[string]any{"name_ne": "bob"}, []string{"carol", "alice", "dave"}},
		{"IN 列表", map[string]any{"name_in": "alice,bob"}, []string{"alice", "bob"}},
		{"NOT IN 列表", map[string]any{"name_not_in": "alice,bob"}, []string{"carol", "dave"}},
		{"AND 组合", map[string]any{"age_gte": 30, "email_like": "@a.com"}, []string{"carol", "alice"}},
		{"未知字段被忽略", map[string]any{"nickname": "x"}, []string{"carol", "alice", "dave", "bob"}},
		{"无匹配", map[string]any{"name": "zoe"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Query(ctx, repository.QueryOptions{Filters: tt.filters})
			require.NoError(t, err)
			names := make([]string, 0, len(got))
			for _, u := range got {
				names = append(names, u.Name)
			}
			assert.Equal(t, tt.wantNames, names)

			count, err := repo.QueryCount(ctx, repository.QueryOptions{Filters: tt.filters})
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.wantNames)), count)
		})
	}
}

// TestRepository_Query_SortAndPage 测试排序与分页
func TestRepository_Query_SortAndPage(t *testing.T) {
	repo := newUserRepo()
	seedUsers(t, repo)
	ctx := context.Background()

	// 升序
	got, err := repo.Query(ctx, repository.QueryOptions{OrderBy: "name"})
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "alice", got[0].Name)
	assert.Equal(t, "dave", got[3].Name)

	// 降序 + 分页
	got, err = repo.Query(ctx, repository.QueryOptions{
		OrderBy: "age", OrderDesc: true, Offset: 1, Limit: 2,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "carol", got[0].Name)
	assert.Equal(t, "alice", got[1].Name)

	// 偏移越界
	got, err = repo.Query(ctx, repository.QueryOptions{Offset: 100})
	require.NoError(t, err)
	assert.Empty(t, got)

	// 未指定排序时按插入顺序
	got, err = repo.Query(ctx, repository.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "carol", got[0].Name)
}

// TestRepository_CloneIsolation 测试配置克隆后读取返回副本、失败的更新不留痕迹
func TestRepository_CloneIsolation(t *testing.T) {
	repo := newUserRepo(
		WithClone[*user, int64](func(u *user) *user { c := *u; return &c }),
		WithUniqueFields[*user, int64]("email"),
	)
	ctx := context.Background()

	a, err := repo.Create(ctx, &user{Name: "a", Email: "a@x.com"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, &user{Name: "b", Email: "b@x.com"})
	require.NoError(t, err)

	// 修改读取结果不影响存量实体
	loaded, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	loaded.Name = "changed"
	again, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", again.Name)

	// 唯一约束冲突的更新失败后实体保持原状
	loaded.Email = "b@x.com"
	assert.ErrorIs(t, repo.Update(ctx, loaded), repository.ErrEntityAlreadyExists)
	again, err = repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", again.Email)

	// Query 返回的同样是副本
	list, err := repo.Query(ctx, repository.QueryOptions{Filters: map[string]any{"name": "b"}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	list[0].Age = 99
	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Age)
}

// TestRepository_Batch 测试批量创建与删除的补偿回滚
func TestRepository_Batch(t *testing.T) {
	repo := newUserRepo(WithUniqueFields[*user, int64]("email"))
	ctx := context.Background()

	created, err := repo.CreateAll(ctx, []*user{
		{Name: "a", Email: "a@x.com"},
		{Name: "b", Email: "b@x.com"},
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)

	// 第二条冲突时整批回滚
	_, err = repo.CreateAll(ctx, []*user{
		{Name: "c", Email: "c@x.com"},
		{Name: "d", Email: "a@x.com"},
	})
	assert.ErrorIs(t, err, repository.ErrEntityAlreadyExists)
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// 缺失主键时删除整批回滚
	err = repo.DeleteAll(ctx, []int64{created[0].ID, 999})
	assert.ErrorIs(t, err, repository.ErrEntityNotFound)
	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.DeleteAll(ctx, []int64{created[0].ID, created[1].ID}))
	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
