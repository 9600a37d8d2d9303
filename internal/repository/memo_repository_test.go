package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Tomlord1122/memo-app/internal/domain"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&domain.MemoItem{}))
	return db
}

// exerciseRepository runs the shared contract against any backing database.
func exerciseRepository(t *testing.T, repo MemoRepository) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	memos, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, memos)
	assert.Empty(t, memos)

	a := &domain.MemoItem{Body: "a", CreatedAt: base}
	b := &domain.MemoItem{Body: "b", CreatedAt: base.Add(time.Minute)}
	c := &domain.MemoItem{Body: "c", CreatedAt: base.Add(time.Minute)}
	for _, m := range []*domain.MemoItem{a, b, c} {
		require.NoError(t, repo.Create(ctx, m))
		assert.Greater(t, m.ID, int64(0))
	}

	memos, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, memos, 3)
	assert.Equal(t, []string{"c", "b", "a"}, bodies(memos))

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Body)
	assert.True(t, got.CreatedAt.Equal(base))

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	later := base.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, a.ID, "a2", later))
	got, err = repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a2", got.Body)
	assert.True(t, got.CreatedAt.Equal(later))

	memos, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "c", "b"}, bodies(memos))

	require.NoError(t, repo.Update(ctx, 9999, "nobody", later))
	require.NoError(t, repo.Delete(ctx, 9999))

	require.NoError(t, repo.Delete(ctx, b.ID))
	_, err = repo.FindByID(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	memos, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "c"}, bodies(memos))
}

func bodies(memos []domain.MemoItem) []string {
	out := make([]string, 0, len(memos))
	for _, m := range memos {
		out = append(out, m.Body)
	}
	return out
}

func TestGormMemoRepositorySQLite(t *testing.T) {
	exerciseRepository(t, NewGormMemoRepository(newSQLiteDB(t)))
}

func TestGormMemoRepositoryCanceledContext(t *testing.T) {
	repo := NewGormMemoRepository(newSQLiteDB(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.List(ctx)
	assert.Error(t, err)
}
