package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"anoa.com/socialplatform/internal/entity"
	profileDto "anoa.com/socialplatform/internal/modules/profile/dto"
	userRepo "anoa.com/socialplatform/internal/modules/user/repository"
	"anoa.com/socialplatform/pkg/apperror"
	commonDto "anoa.com/socialplatform/pkg/dto"
	"anoa.com/socialplatform/pkg/logging"
	"anoa.com/socialplatform/pkg/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxProfileField = 255

type ProfileService interface {
	GetProfile(ctx context.Context, userID uint) (*profileDto.ProfileResponse, error)
	GetCurrentUser(ctx context.Context, userID uint) (*profileDto.CurrentUserResponse, error)
	UpdateProfile(ctx context.Context, userID uint, input profileDto.UpdateProfileInput, avatar *commonDto.AvatarFile) error
}

type profileService struct {
	repo         userRepo.UserRepository
	imageStorage storage.ImageStorage
	uploadFolder string
	exposeEmail  bool
	log          *zap.Logger
}

// NewProfileService wires profile use cases. imageStorage may be nil, which
// disables avatar uploads.
func NewProfileService(repo userRepo.UserRepository, imageStorage storage.ImageStorage, uploadFolder string, exposeEmail bool) ProfileService {
	return &profileService{
		repo:         repo,
		imageStorage: imageStorage,
		uploadFolder: uploadFolder,
		exposeEmail:  exposeEmail,
		log:          logging.WithComponent("profile"),
	}
}

func toProfile(user *entity.User, withEmail bool) profileDto.ProfileResponse {
	resp := profileDto.ProfileResponse{
		ID:             user.ID,
		Username:       user.Username,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		JoinDate:       user.JoinDate,
	}
	if withEmail {
		resp.Email = user.Email
	}
	return resp
}

func (s *profileService) GetProfile(ctx context.Context, userID uint) (*profileDto.ProfileResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(fmt.Sprintf("User not found with id %d", userID))
		}
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}

	resp := toProfile(user, s.exposeEmail)
	return &resp, nil
}

func (s *profileService) GetCurrentUser(ctx context.Context, userID uint) (*profileDto.CurrentUserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("User not found")
		}
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}

	return &profileDto.CurrentUserResponse{
		ProfileResponse: toProfile(user, true),
		Roles:           user.RoleNames(),
	}, nil
}

func checkLength(field string, value *string) error {
	if value != nil && utf8.RuneCountInString(*value) > maxProfileField {
		return apperror.Invalid(fmt.Sprintf("%s must be at most %d characters", field, maxProfileField))
	}
	return nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uint, input profileDto.UpdateProfileInput, avatar *commonDto.AvatarFile) error {
	bio := input.Bio
	var picture *string
	if input.ProfilePicture != nil {
		trimmed := strings.TrimSpace(*input.ProfilePicture)
		picture = &trimmed
	}

	if err := checkLength("bio", bio); err != nil {
		return err
	}
	if err := checkLength("profilePicture", picture); err != nil {
		return err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Unauthorized("User not found")
		}
		return fmt.Errorf("get user %d: %w", userID, err)
	}

	uploaded := ""
	if avatar != nil && avatar.Reader != nil {
		if s.imageStorage == nil {
			return apperror.Invalid("avatar upload is not available")
		}
		url, err := s.imageStorage.UploadImage(ctx, avatar.Reader, s.uploadFolder, avatar.FileName)
		if err != nil {
			return fmt.Errorf("upload avatar for user %d: %w", userID, err)
		}
		uploaded = url
		picture = &url
	}

	if err := s.repo.UpdateProfile(ctx, userID, bio, picture); err != nil {
		if uploaded != "" {
			s.removePicture(ctx, userID, uploaded, "failed to delete orphaned avatar")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Unauthorized("User not found")
		}
		return fmt.Errorf("update profile of user %d: %w", userID, err)
	}

	if picture != nil && user.ProfilePicture != nil && *user.ProfilePicture != *picture {
		s.removePicture(ctx, userID, *user.ProfilePicture, "failed to delete previous avatar")
	}
	return nil
}

func (s *profileService) removePicture(ctx context.Context, userID uint, url, failure string) {
	if s.imageStorage == nil {
		return
	}
	err := s.imageStorage.DeleteImage(ctx, url)
	if err != nil && !errors.Is(err, storage.ErrNotManaged) {
		s.log.Warn(failure, zap.Uint("user_id", userID), zap.String("url", url), zap.Error(err))
	}
}
