package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tomlord1122/memo-app/internal/domain"

	"gorm.io/gorm"
)

// ErrNotFound is returned by FindByID when no memo has the given id.
var ErrNotFound = errors.New("memo not found")

// MemoRepository defines the data operations on the memo_item table
type MemoRepository interface {
	List(ctx context.Context) ([]domain.MemoItem, error)
	FindByID(ctx context.Context, id int64) (*domain.MemoItem, error)
	Create(ctx context.Context, memo *domain.MemoItem) error
	Update(ctx context.Context, id int64, body string, at time.Time) error
	Delete(ctx context.Context, id int64) error
}

// gormMemoRepository implements MemoRepository using GORM
type gormMemoRepository struct {
	db *gorm.DB
}

// NewGormMemoRepository creates a new GORM memo repository
func NewGormMemoRepository(db *gorm.DB) MemoRepository {
	return &gormMemoRepository{db: db}
}

// List returns every memo, most recently modified first. Rows that share a
// timestamp are ordered by id so later inserts still come first.
func (r *gormMemoRepository) List(ctx context.Context) ([]domain.MemoItem, error) {
	memos := make([]domain.MemoItem, 0)
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&memos)
	if result.Error != nil {
		return nil, fmt.Errorf("list memos: %w", result.Error)
	}
	return memos, nil
}

func (r *gormMemoRepository) FindByID(ctx context.Context, id int64) (*domain.MemoItem, error) {
	var memo domain.MemoItem
	result := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&memo)
	if result.Error != nil {
		return nil, fmt.Errorf("find memo %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &memo, nil
}

// Create inserts memo and fills in its generated id
func (r *gormMemoRepository) Create(ctx context.Context, memo *domain.MemoItem) error {
	if err := r.db.WithContext(ctx).Create(memo).Error; err != nil {
		return fmt.Errorf("create memo: %w", err)
	}
	return nil
}

// Update overwrites body and timestamp. A missing id is not an error.
func (r *gormMemoRepository) Update(ctx context.Context, id int64, body string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&domain.MemoItem{}).
		Where("id = ?", id).
		Updates(map[string]any{"body": body, "created_at": at})
	if result.Error != nil {
		return fmt.Errorf("update memo %d: %w", id, result.Error)
	}
	return nil
}

// Delete removes the row permanently. A missing id is not an error.
func (r *gormMemoRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&domain.MemoItem{}, id).Error; err != nil {
		return fmt.Errorf("delete memo %d: %w", id, err)
	}
	return nil
}
