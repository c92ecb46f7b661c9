package post

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/socialplatform/internal/authz"
	"anoa.com/socialplatform/internal/entity"
	activity "anoa.com/socialplatform/internal/modules/activity/service"
	likeRepo "anoa.com/socialplatform/internal/modules/like/repository"
	postDto "anoa.com/socialplatform/internal/modules/post/dto"
	postRepo "anoa.com/socialplatform/internal/modules/post/repository"
	search "anoa.com/socialplatform/internal/modules/search/service"
	userRepo "anoa.com/socialplatform/internal/modules/user/repository"
	"anoa.com/socialplatform/pkg/apperror"
	"anoa.com/socialplatform/pkg/logging"
	"anoa.com/socialplatform/pkg/ratelimiter"
	"anoa.com/socialplatform/pkg/sanitize"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const searchLimit = 50

type PostService interface {
	ListAll(ctx context.Context) ([]postDto.PostResponse, error)
	ListByUser(ctx context.Context, userID uint) ([]postDto.PostResponse, error)
	GetByID(ctx context.Context, postID uint) (*postDto.PostResponse, error)
	Search(ctx context.Context, query string) ([]postDto.PostResponse, error)
	Create(ctx context.Context, userID uint, req postDto.PostRequest) error
	Update(ctx context.Context, postID, userID uint, req postDto.PostRequest) error
	Delete(ctx context.Context, postID, userID uint) error
	ToggleLike(ctx context.Context, postID, userID uint) (entity.LikeAction, error)
}

type postService struct {
	postRepo       postRepo.PostRepository
	userRepo       userRepo.UserRepository
	likeRepo       likeRepo.LikeRepository
	index          search.PostIndex
	limiter        ratelimiter.Limiter
	publisher      activity.Publisher
	createCooldown time.Duration
	log            *zap.Logger
}

// NewPostService wires the post use cases. index may be nil, in which case
// search falls back to the database.
func NewPostService(postRepo postRepo.PostRepository, userRepo userRepo.UserRepository, likeRepo likeRepo.LikeRepository, index search.PostIndex, limiter ratelimiter.Limiter, publisher activity.Publisher, createCooldown time.Duration) PostService {
	return &postService{
		postRepo:       postRepo,
		userRepo:       userRepo,
		likeRepo:       likeRepo,
		index:          index,
		limiter:        limiter,
		publisher:      publisher,
		createCooldown: createCooldown,
		log:            logging.WithComponent("post"),
	}
}

func postNotFound(id uint) error {
	return apperror.NotFound(fmt.Sprintf("Post not found with id %d", id))
}

func (s *postService) ListAll(ctx context.Context) ([]postDto.PostResponse, error) {
	posts, err := s.postRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return mapToResponses(posts), nil
}

func (s *postService) ListByUser(ctx context.Context, userID uint) ([]postDto.PostResponse, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user %d: %w", userID, err)
	}
	if !exists {
		return nil, apperror.NotFound(fmt.Sprintf("User not found with id %d", userID))
	}

	posts, err := s.postRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list posts of user %d: %w", userID, err)
	}
	return mapToResponses(posts), nil
}

func (s *postService) GetByID(ctx context.Context, postID uint) (*postDto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, postNotFound(postID)
		}
		return nil, fmt.Errorf("get post %d: %w", postID, err)
	}
	return mapToResponse(post), nil
}

func (s *postService) Search(ctx context.Context, query string) ([]postDto.PostResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.Invalid("search query must not be blank")
	}

	if s.index != nil {
		ids, err := s.index.SearchPostIDs(ctx, query, searchLimit)
		if err == nil {
			posts, err := s.postRepo.FindByIDs(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("load search hits: %w", err)
			}
			return mapToResponses(posts), nil
		}
		s.log.Warn("search index unavailable, falling back to database", zap.Error(err))
	}

	posts, err := s.postRepo.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return mapToResponses(posts), nil
}

func (s *postService) requireUser(ctx context.Context, userID uint) error {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check user %d: %w", userID, err)
	}
	if !exists {
		return apperror.Unauthorized("User not found")
	}
	return nil
}

func (s *postService) Create(ctx context.Context, userID uint, req postDto.PostRequest) error {
	if err := sanitize.CheckContent(req.Content, entity.MaxPostLength); err != nil {
		return err
	}

	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}

	if err := s.limiter.Allow(ctx, userID, "post", s.createCooldown); err != nil {
		return err
	}

	post := &entity.Post{
		Content: req.Content,
		UserID:  userID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		if rerr := s.limiter.Release(ctx, userID, "post"); rerr != nil {
			s.log.Warn("failed to release rate limit", zap.Uint("user_id", userID), zap.Error(rerr))
		}
		return fmt.Errorf("create post: %w", err)
	}

	s.reindex(ctx, post.ID)
	return nil
}

func (s *postService) Update(ctx context.Context, postID, userID uint, req postDto.PostRequest) error {
	if err := sanitize.CheckContent(req.Content, entity.MaxPostLength); err != nil {
		return err
	}

	ownerID, err := s.postRepo.FindOwnerID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return postNotFound(postID)
		}
		return fmt.Errorf("get post %d: %w", postID, err)
	}

	if !authz.IsOwner(ownerID, userID) {
		return apperror.NotOwner("Not authorized to update this post")
	}

	if err := s.postRepo.UpdateContent(ctx, postID, req.Content); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return postNotFound(postID)
		}
		return fmt.Errorf("update post %d: %w", postID, err)
	}

	s.reindex(ctx, postID)
	return nil
}

func (s *postService) Delete(ctx context.Context, postID, userID uint) error {
	ownerID, err := s.postRepo.FindOwnerID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return postNotFound(postID)
		}
		return fmt.Errorf("get post %d: %w", postID, err)
	}

	if !authz.IsOwner(ownerID, userID) {
		return apperror.NotOwner("Not authorized to delete this post")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return postNotFound(postID)
		}
		return fmt.Errorf("delete post %d: %w", postID, err)
	}

	if s.index != nil {
		if err := s.index.DeletePost(ctx, postID); err != nil {
			s.log.Warn("failed to remove post from index", zap.Uint("post_id", postID), zap.Error(err))
		}
	}
	return nil
}

func (s *postService) ToggleLike(ctx context.Context, postID, userID uint) (entity.LikeAction, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return "", err
	}

	res, err := s.likeRepo.Toggle(ctx, likeRepo.PostTarget, postID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", postNotFound(postID)
		}
		return "", fmt.Errorf("toggle like on post %d: %w", postID, err)
	}

	if res.Action == entity.Liked {
		s.publisher.Publish(ctx, activity.Event{
			Type:        activity.PostLiked,
			RecipientID: res.OwnerID,
			ActorID:     userID,
			PostID:      postID,
		})
	}
	return res.Action, nil
}

// reindex pushes the stored post to the search index. Index failures never
// fail the write that triggered them.
func (s *postService) reindex(ctx context.Context, postID uint) {
	if s.index == nil {
		return
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		s.log.Warn("failed to load post for indexing", zap.Uint("post_id", postID), zap.Error(err))
		return
	}
	if err := s.index.IndexPost(ctx, post); err != nil {
		s.log.Warn("failed to index post", zap.Uint("post_id", postID), zap.Error(err))
	}
}
