package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment carries a snapshot of the author's username/email taken at
// creation time so list views don't need a join. Safe while users are
// immutable; revisit if profile editing is ever added.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"not null" json:"content"`
	PostID    uint           `gorm:"not null" json:"post_id"`
	UserID    uint           `gorm:"not null" json:"user_id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	User      User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CommentView is the projected shape returned by the comment listing
// endpoint, resolving author fields from the live User relation.
type CommentView struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	PostID    uint      `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
}
