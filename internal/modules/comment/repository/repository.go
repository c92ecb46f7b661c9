package repository

import (
	"context"

	"anoa.com/socialplatform/internal/entity"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id uint) (*entity.Comment, error)
	FindTopLevelByPostID(ctx context.Context, postID uint) ([]*entity.Comment, error)
	FindReplies(ctx context.Context, parentID uint) ([]*entity.Comment, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

const replyCountColumn = "(SELECT COUNT(*) FROM comments AS r WHERE r.parent_id = comments.id) AS reply_count"

func (r *commentRepository) withGraph(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&entity.Comment{}).
		Select("comments.*, " + replyCountColumn).
		Preload("User").
		Preload("Likes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Likes.User")
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).Omit("User", "Replies", "Likes").Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uint) (*entity.Comment, error) {
	var comment entity.Comment
	if err := r.withGraph(ctx).
		Where("comments.id = ?", id).
		First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindTopLevelByPostID lists comments without a parent, newest first.
func (r *commentRepository) FindTopLevelByPostID(ctx context.Context, postID uint) ([]*entity.Comment, error) {
	var comments []*entity.Comment
	err := r.withGraph(ctx).
		Where("comments.post_id = ? AND comments.parent_id IS NULL", postID).
		Order("comments.created_at DESC, comments.id DESC").
		Find(&comments).Error
	return comments, err
}

// FindReplies lists direct children of parentID, oldest first.
func (r *commentRepository) FindReplies(ctx context.Context, parentID uint) ([]*entity.Comment, error) {
	var comments []*entity.Comment
	err := r.withGraph(ctx).
		Where("comments.parent_id = ?", parentID).
		Order("comments.created_at ASC, comments.id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Comment{}).
		Where("id = ?", id).
		Update("content", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

const subtreeCTE = `WITH RECURSIVE subtree AS (
	SELECT id FROM comments WHERE id = ?
	UNION ALL
	SELECT c.id FROM comments c JOIN subtree s ON c.parent_id = s.id
)`

// Delete removes the comment, its replies at any depth, and their like rows.
func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			subtreeCTE+" DELETE FROM comment_likes WHERE comment_id IN (SELECT id FROM subtree)", id,
		).Error; err != nil {
			return err
		}

		res := tx.Exec(subtreeCTE+" DELETE FROM comments WHERE id IN (SELECT id FROM subtree)", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
