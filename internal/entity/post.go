package entity

import "time"

const (
	MaxPostLength    = 500
	MaxCommentLength = 300
)

type Post struct {
	ID        uint       `gorm:"primaryKey"`
	Content   string     `gorm:"size:500;not null"`
	UserID    uint       `gorm:"not null;index"`
	User      User       `gorm:"foreignKey:UserID"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	Comments  []Comment  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Likes     []PostLike `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`

	// Filled by repository queries, never stored.
	CommentCount int64 `gorm:"->;-:migration"`
}

// Comment replies point at their parent by id. Depth is not limited by the
// schema; the read API only walks one level at a time.
type Comment struct {
	ID        uint          `gorm:"primaryKey"`
	Content   string        `gorm:"size:300;not null"`
	UserID    uint          `gorm:"not null;index"`
	User      User          `gorm:"foreignKey:UserID"`
	PostID    uint          `gorm:"not null;index"`
	ParentID  *uint         `gorm:"index"`
	CreatedAt time.Time     `gorm:"autoCreateTime;index"`
	Replies   []Comment     `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Likes     []CommentLike `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE"`

	ReplyCount int64 `gorm:"->;-:migration"`
}
