package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Tomlord1122/memo-app/internal/domain"
	"github.com/Tomlord1122/memo-app/internal/repository"
)

var (
	// ErrEmptyBody is returned when a memo body is missing or only whitespace.
	ErrEmptyBody = errors.New("empty content")
	// ErrUnsavedMemo is returned when deleting the placeholder memo (id 0).
	ErrUnsavedMemo = errors.New("cannot delete an unsaved note")
)

// SaveMemoRequest holds the submitted edit form.
type SaveMemoRequest struct {
	ID   int64
	Body string
}

// MemoService defines the operations behind the memo pages.
type MemoService interface {
	// ListMemos returns all memos, newest first.
	ListMemos(ctx context.Context) ([]domain.MemoItem, error)

	// GetMemoForEdit returns the memo with the given id. Id 0 and unknown
	// ids both yield a blank, unsaved memo.
	GetMemoForEdit(ctx context.Context, id int64) (*domain.MemoItem, error)

	// SaveMemo inserts when req.ID is 0 and overwrites otherwise.
	SaveMemo(ctx context.Context, req SaveMemoRequest) error

	// DeleteMemo removes a saved memo. Unknown ids are ignored.
	DeleteMemo(ctx context.Context, id int64) error
}

type memoService struct {
	repo repository.MemoRepository
	now  func() time.Time
}

// Option configures a memoService.
type Option func(*memoService)

// WithClock overrides the time source used for memo timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *memoService) {
		s.now = now
	}
}

// NewMemoService creates a MemoService backed by repo.
func NewMemoService(repo repository.MemoRepository, opts ...Option) MemoService {
	s := &memoService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *memoService) ListMemos(ctx context.Context) ([]domain.MemoItem, error) {
	memos, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve memos: %w", err)
	}
	return memos, nil
}

func (s *memoService) GetMemoForEdit(ctx context.Context, id int64) (*domain.MemoItem, error) {
	if id == domain.UnsavedID {
		return domain.NewBlankMemo(s.now()), nil
	}

	memo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Unknown ids open an empty form instead of failing.
			return domain.NewBlankMemo(s.now()), nil
		}
		return nil, fmt.Errorf("failed to retrieve memo %d: %w", id, err)
	}
	return memo, nil
}

func (s *memoService) SaveMemo(ctx context.Context, req SaveMemoRequest) error {
	if strings.TrimSpace(req.Body) == "" {
		return ErrEmptyBody
	}

	now := s.now()
	if req.ID == domain.UnsavedID {
		memo := &domain.MemoItem{Body: req.Body, CreatedAt: now}
		if err := s.repo.Create(ctx, memo); err != nil {
			return fmt.Errorf("failed to create memo: %w", err)
		}
		log.Printf("Created memo %d", memo.ID)
		return nil
	}

	if err := s.repo.Update(ctx, req.ID, req.Body, now); err != nil {
		return fmt.Errorf("failed to update memo %d: %w", req.ID, err)
	}
	return nil
}

func (s *memoService) DeleteMemo(ctx context.Context, id int64) error {
	if id == domain.UnsavedID {
		return ErrUnsavedMemo
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete memo %d: %w", id, err)
	}
	return nil
}
