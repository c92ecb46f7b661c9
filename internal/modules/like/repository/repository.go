package repository

import (
	"context"
	"fmt"

	"anoa.com/socialplatform/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Target names the liked table and its join table.
type Target struct {
	Table     string
	LikeTable string
	Column    string
}

var (
	PostTarget    = Target{Table: "posts", LikeTable: "post_likes", Column: "post_id"}
	CommentTarget = Target{Table: "comments", LikeTable: "comment_likes", Column: "comment_id"}
)

// ToggleResult reports what a toggle did and who owns the liked row.
type ToggleResult struct {
	Action  entity.LikeAction
	OwnerID uint
}

type LikeRepository interface {
	// Toggle flips the membership of userID in the like set of the target row.
	// Returns gorm.ErrRecordNotFound when the target row does not exist.
	Toggle(ctx context.Context, target Target, id, userID uint) (*ToggleResult, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

type lockedRow struct {
	ID     uint
	UserID uint
}

// Toggle locks the liked row for the length of the transaction so concurrent
// toggles on the same entity run one after another; each then sees the
// previous one's result. The (entity, user) primary key backs the insert.
func (r *likeRepository) Toggle(ctx context.Context, target Target, id, userID uint) (*ToggleResult, error) {
	result := &ToggleResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row lockedRow
		if err := tx.Table(target.Table).
			Select("id, user_id").
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			Take(&row).Error; err != nil {
			return err
		}
		result.OwnerID = row.UserID

		res := tx.Exec(
			fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND user_id = ?", target.LikeTable, target.Column),
			id, userID,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			result.Action = entity.Unliked
			return nil
		}

		if err := tx.Exec(
			fmt.Sprintf(
				"INSERT INTO %s (%s, user_id, created_at) VALUES (?, ?, NOW()) ON CONFLICT (%s, user_id) DO NOTHING",
				target.LikeTable, target.Column, target.Column,
			),
			id, userID,
		).Error; err != nil {
			return err
		}
		result.Action = entity.Liked
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
