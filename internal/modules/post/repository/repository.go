package repository

import (
	"context"
	"strings"

	"anoa.com/socialplatform/internal/entity"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	FindByID(ctx context.Context, id uint) (*entity.Post, error)
	FindOwnerID(ctx context.Context, id uint) (uint, error)
	FindAll(ctx context.Context) ([]*entity.Post, error)
	FindByUserID(ctx context.Context, userID uint) ([]*entity.Post, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*entity.Post, error)
	Search(ctx context.Context, query string, limit int) ([]*entity.Post, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

const commentCountColumn = "(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

// withGraph loads everything the post projection needs in a fixed number of queries.
func (r *postRepository) withGraph(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Select("posts.*, " + commentCountColumn).
		Preload("User").
		Preload("Likes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Likes.User")
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	return r.db.WithContext(ctx).Omit("User", "Comments", "Likes").Create(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*entity.Post, error) {
	var post entity.Post
	if err := r.withGraph(ctx).
		Where("posts.id = ?", id).
		First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// FindOwnerID is the light existence check used before touching a post's comments.
func (r *postRepository) FindOwnerID(ctx context.Context, id uint) (uint, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).
		Select("id", "user_id").
		Where("id = ?", id).
		Take(&post).Error; err != nil {
		return 0, err
	}
	return post.UserID, nil
}

func (r *postRepository) FindAll(ctx context.Context) ([]*entity.Post, error) {
	var posts []*entity.Post
	err := r.withGraph(ctx).
		Order("posts.created_at DESC, posts.id DESC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) FindByUserID(ctx context.Context, userID uint) ([]*entity.Post, error) {
	var posts []*entity.Post
	err := r.withGraph(ctx).
		Where("posts.user_id = ?", userID).
		Order("posts.created_at DESC, posts.id DESC").
		Find(&posts).Error
	return posts, err
}

// FindByIDs returns the posts in the order of ids, skipping ids that no longer exist.
func (r *postRepository) FindByIDs(ctx context.Context, ids []uint) ([]*entity.Post, error) {
	if len(ids) == 0 {
		return []*entity.Post{}, nil
	}

	var posts []*entity.Post
	if err := r.withGraph(ctx).
		Where("posts.id IN ?", ids).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]*entity.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	ordered := make([]*entity.Post, 0, len(posts))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern matches query literally anywhere in the column.
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

// Search is the database fallback used when no search index is configured.
func (r *postRepository) Search(ctx context.Context, query string, limit int) ([]*entity.Post, error) {
	var posts []*entity.Post
	err := r.withGraph(ctx).
		Where("posts.content ILIKE ?", likePattern(query)).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Post{}).
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

// Delete removes the post with its like rows and every comment on it, replies
// included. The foreign keys cascade as well; doing it explicitly keeps the
// invariant even on databases migrated before the constraints existed.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM comment_likes WHERE comment_id IN (SELECT id FROM comments WHERE post_id = ?)", id,
		).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM comments WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_likes WHERE post_id = ?", id).Error; err != nil {
			return err
		}

		res := tx.Exec("DELETE FROM posts WHERE id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
