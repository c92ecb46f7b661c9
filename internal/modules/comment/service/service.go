package comment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/socialplatform/internal/authz"
	"anoa.com/socialplatform/internal/entity"
	activity "anoa.com/socialplatform/internal/modules/activity/service"
	commentDto "anoa.com/socialplatform/internal/modules/comment/dto"
	commentRepo "anoa.com/socialplatform/internal/modules/comment/repository"
	likeRepo "anoa.com/socialplatform/internal/modules/like/repository"
	postRepo "anoa.com/socialplatform/internal/modules/post/repository"
	userRepo "anoa.com/socialplatform/internal/modules/user/repository"
	"anoa.com/socialplatform/pkg/apperror"
	"anoa.com/socialplatform/pkg/logging"
	"anoa.com/socialplatform/pkg/ratelimiter"
	"anoa.com/socialplatform/pkg/sanitize"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CommentService interface {
	ListTopLevelByPost(ctx context.Context, postID uint) ([]commentDto.CommentResponse, error)
	ListReplies(ctx context.Context, commentID uint) ([]commentDto.CommentResponse, error)
	AddComment(ctx context.Context, postID, userID uint, req commentDto.CommentRequest) error
	AddReply(ctx context.Context, parentID, userID uint, req commentDto.CommentRequest) error
	Update(ctx context.Context, commentID, userID uint, req commentDto.CommentRequest) error
	Delete(ctx context.Context, commentID, userID uint) error
	ToggleLike(ctx context.Context, commentID, userID uint) (entity.LikeAction, error)
}

type commentService struct {
	commentRepo    commentRepo.CommentRepository
	postRepo       postRepo.PostRepository
	userRepo       userRepo.UserRepository
	likeRepo       likeRepo.LikeRepository
	limiter        ratelimiter.Limiter
	publisher      activity.Publisher
	createCooldown time.Duration
	log            *zap.Logger
}

func NewCommentService(commentRepo commentRepo.CommentRepository, postRepo postRepo.PostRepository, userRepo userRepo.UserRepository, likeRepo likeRepo.LikeRepository, limiter ratelimiter.Limiter, publisher activity.Publisher, createCooldown time.Duration) CommentService {
	return &commentService{
		commentRepo:    commentRepo,
		postRepo:       postRepo,
		userRepo:       userRepo,
		likeRepo:       likeRepo,
		limiter:        limiter,
		publisher:      publisher,
		createCooldown: createCooldown,
		log:            logging.WithComponent("comment"),
	}
}

func postNotFound(id uint) error {
	return apperror.NotFound(fmt.Sprintf("Post not found with id %d", id))
}

func commentNotFound(id uint) error {
	return apperror.NotFound(fmt.Sprintf("Comment not found with id %d", id))
}

func (s *commentService) ListTopLevelByPost(ctx context.Context, postID uint) ([]commentDto.CommentResponse, error) {
	if _, err := s.postRepo.FindOwnerID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, postNotFound(postID)
		}
		return nil, fmt.Errorf("get post %d: %w", postID, err)
	}

	comments, err := s.commentRepo.FindTopLevelByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments of post %d: %w", postID, err)
	}
	return mapToResponses(comments), nil
}

func (s *commentService) ListReplies(ctx context.Context, commentID uint) ([]commentDto.CommentResponse, error) {
	if _, err := s.commentRepo.FindByID(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commentNotFound(commentID)
		}
		return nil, fmt.Errorf("get comment %d: %w", commentID, err)
	}

	replies, err := s.commentRepo.FindReplies(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("list replies of comment %d: %w", commentID, err)
	}
	return mapToResponses(replies), nil
}

func (s *commentService) requireUser(ctx context.Context, userID uint) error {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check user %d: %w", userID, err)
	}
	if !exists {
		return apperror.Unauthorized("User not found")
	}
	return nil
}

// create stores comment behind the per-user cooldown, reopening the window
// when the insert fails.
func (s *commentService) create(ctx context.Context, comment *entity.Comment) error {
	if err := s.limiter.Allow(ctx, comment.UserID, "comment", s.createCooldown); err != nil {
		return err
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		if rerr := s.limiter.Release(ctx, comment.UserID, "comment"); rerr != nil {
			s.log.Warn("failed to release rate limit", zap.Uint("user_id", comment.UserID), zap.Error(rerr))
		}
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (s *commentService) AddComment(ctx context.Context, postID, userID uint, req commentDto.CommentRequest) error {
	if err := sanitize.CheckContent(req.Content, entity.MaxCommentLength); err != nil {
		return err
	}

	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}

	postOwnerID, err := s.postRepo.FindOwnerID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return postNotFound(postID)
		}
		return fmt.Errorf("get post %d: %w", postID, err)
	}

	comment := &entity.Comment{
		Content: req.Content,
		UserID:  userID,
		PostID:  postID,
	}
	if err := s.create(ctx, comment); err != nil {
		return err
	}

	s.publisher.Publish(ctx, activity.Event{
		Type:        activity.PostCommented,
		RecipientID: postOwnerID,
		ActorID:     userID,
		PostID:      postID,
		CommentID:   &comment.ID,
	})
	return nil
}

// AddReply attaches a reply under parentID. The reply always belongs to the
// parent's post; replies to replies are accepted.
func (s *commentService) AddReply(ctx context.Context, parentID, userID uint, req commentDto.CommentRequest) error {
	if err := sanitize.CheckContent(req.Content, entity.MaxCommentLength); err != nil {
		return err
	}

	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}

	parent, err := s.commentRepo.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return commentNotFound(parentID)
		}
		return fmt.Errorf("get comment %d: %w", parentID, err)
	}

	reply := &entity.Comment{
		Content:  req.Content,
		UserID:   userID,
		PostID:   parent.PostID,
		ParentID: &parent.ID,
	}
	if err := s.create(ctx, reply); err != nil {
		return err
	}

	s.publisher.Publish(ctx, activity.Event{
		Type:        activity.CommentReplied,
		RecipientID: parent.UserID,
		ActorID:     userID,
		PostID:      parent.PostID,
		CommentID:   &reply.ID,
	})
	return nil
}

func (s *commentService) Update(ctx context.Context, commentID, userID uint, req commentDto.CommentRequest) error {
	if err := sanitize.CheckContent(req.Content, entity.MaxCommentLength); err != nil {
		return err
	}

	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return commentNotFound(commentID)
		}
		return fmt.Errorf("get comment %d: %w", commentID, err)
	}

	if !authz.IsOwner(comment.UserID, userID) {
		return apperror.NotOwner("Not authorized to update this comment")
	}

	if err := s.commentRepo.UpdateContent(ctx, commentID, req.Content); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return commentNotFound(commentID)
		}
		return fmt.Errorf("update comment %d: %w", commentID, err)
	}
	return nil
}

func (s *commentService) Delete(ctx context.Context, commentID, userID uint) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return commentNotFound(commentID)
		}
		return fmt.Errorf("get comment %d: %w", commentID, err)
	}

	if !authz.IsOwner(comment.UserID, userID) {
		return apperror.NotOwner("Not authorized to delete this comment")
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return commentNotFound(commentID)
		}
		return fmt.Errorf("delete comment %d: %w", commentID, err)
	}
	return nil
}

func (s *commentService) ToggleLike(ctx context.Context, commentID, userID uint) (entity.LikeAction, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return "", err
	}

	res, err := s.likeRepo.Toggle(ctx, likeRepo.CommentTarget, commentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", commentNotFound(commentID)
		}
		return "", fmt.Errorf("toggle like on comment %d: %w", commentID, err)
	}

	if res.Action == entity.Liked {
		s.publisher.Publish(ctx, activity.Event{
			Type:        activity.CommentLiked,
			RecipientID: res.OwnerID,
			ActorID:     userID,
			CommentID:   &commentID,
		})
	}
	return res.Action, nil
}
