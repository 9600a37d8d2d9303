package domain

import "time"

// UnsavedID is the id of a memo that has not been persisted yet.
const UnsavedID int64 = 0

// MemoItem is a single note. CreatedAt is refreshed on every update,
// so it really holds the last modification time.
type MemoItem struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Body      string    `gorm:"column:body;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
}

// TableName maps MemoItem to the memo_item table.
func (MemoItem) TableName() string {
	return "memo_item"
}

// NewBlankMemo returns the placeholder shown when creating a new memo.
func NewBlankMemo(now time.Time) *MemoItem {
	return &MemoItem{ID: UnsavedID, CreatedAt: now}
}

// IsNew reports whether the memo has not been saved yet.
func (m *MemoItem) IsNew() bool {
	return m.ID == UnsavedID
}
