package profile

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"anoa.com/socialplatform/internal/entity"
	profileDto "anoa.com/socialplatform/internal/modules/profile/dto"
	"anoa.com/socialplatform/pkg/apperror"
	commonDto "anoa.com/socialplatform/pkg/dto"
	"anoa.com/socialplatform/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users     map[uint]*entity.User
	updateErr error
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Exists(_ context.Context, id uint) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id uint, bio, picture *string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if bio != nil {
		u.Bio = bio
	}
	if picture != nil {
		u.ProfilePicture = picture
	}
	return nil
}

type fakeStorage struct {
	uploaded []string
	deleted  []string
}

func (s *fakeStorage) UploadImage(_ context.Context, r io.Reader, folder, fileName string) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	s.uploaded = append(s.uploaded, folder+"/"+fileName)
	return "https://res.cloudinary.com/demo/image/upload/v1/" + folder + "/" + fileName, nil
}

func (s *fakeStorage) DeleteImage(_ context.Context, fileURL string) error {
	if storage.PublicID(fileURL) == "" {
		return storage.ErrNotManaged
	}
	s.deleted = append(s.deleted, fileURL)
	return nil
}

func strPtr(s string) *string { return &s }

func newRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*entity.User{
		1: {
			ID:             1,
			Username:       "alice",
			Email:          "alice@example.com",
			PasswordHash:   "$2a$10$hash",
			Bio:            strPtr("hi"),
			ProfilePicture: strPtr("https://example.com/alice.png"),
			JoinDate:       time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			Roles:          []entity.Role{{ID: 1, Name: entity.RoleUser}},
		},
	}}
}

func TestGetProfile(t *testing.T) {
	svc := NewProfileService(newRepo(), nil, "avatars", true)

	got, err := svc.GetProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "hi", *got.Bio)
	assert.Equal(t, 2023, got.JoinDate.Year())
}

func TestGetProfileHidesEmailWhenConfigured(t *testing.T) {
	svc := NewProfileService(newRepo(), nil, "avatars", false)

	got, err := svc.GetProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, got.Email)
}

func TestGetProfileMissing(t *testing.T) {
	svc := NewProfileService(newRepo(), nil, "avatars", true)

	_, err := svc.GetProfile(context.Background(), 9)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, "User not found with id 9", err.Error())
}

func TestGetCurrentUserIncludesRoles(t *testing.T) {
	svc := NewProfileService(newRepo(), nil, "avatars", false)

	got, err := svc.GetCurrentUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{entity.RoleUser}, got.Roles)
	assert.Equal(t, "alice@example.com", got.Email)

	_, err = svc.GetCurrentUser(context.Background(), 9)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestUpdateProfilePartial(t *testing.T) {
	repo := newRepo()
	svc := NewProfileService(repo, nil, "avatars", true)

	err := svc.UpdateProfile(context.Background(), 1, profileDto.UpdateProfileInput{Bio: strPtr("  <b>new</b> bio ")}, nil)
	require.NoError(t, err)

	assert.Equal(t, "  <b>new</b> bio ", *repo.users[1].Bio)
	assert.Equal(t, "https://example.com/alice.png", *repo.users[1].ProfilePicture)
}

func TestUpdateProfileRejectsLongFields(t *testing.T) {
	repo := newRepo()
	svc := NewProfileService(repo, nil, "avatars", true)

	err := svc.UpdateProfile(context.Background(), 1, profileDto.UpdateProfileInput{Bio: strPtr(strings.Repeat("b", 256))}, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	err = svc.UpdateProfile(context.Background(), 1, profileDto.UpdateProfileInput{ProfilePicture: strPtr(strings.Repeat("p", 256))}, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	assert.Equal(t, "hi", *repo.users[1].Bio)
}

func TestUpdateProfileAvatarUpload(t *testing.T) {
	repo := newRepo()
	repo.users[1].ProfilePicture = strPtr("https://res.cloudinary.com/demo/image/upload/v1/avatars/old.webp")
	store := &fakeStorage{}
	svc := NewProfileService(repo, store, "avatars", true)

	avatar := &commonDto.AvatarFile{Reader: strings.NewReader("png-bytes"), FileName: "me.png"}
	require.NoError(t, svc.UpdateProfile(context.Background(), 1, profileDto.UpdateProfileInput{}, avatar))

	assert.Equal(t, []string{"avatars/me.png"}, store.uploaded)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/avatars/me.png", *repo.users[1].ProfilePicture)
	assert.Equal(t, []string{"https://res.cloudinary.com/demo/image/upload/v1/avatars/old.webp"}, store.deleted)
}

func TestUpdateProfileKeepsForeignPicture(t *testing.T) {
	repo := newRepo()
	store := &fakeStorage{}
	svc := NewProfileService(repo, store, "avatars", true)

	avatar := &commonDto.AvatarFile{Reader: strings.NewReader("png-bytes"), FileName: "me.png"}
	require.NoError(t, svc.UpdateProfile(context.Background(), 1, profileDto.UpdateProfileInput{}, avatar))
	assert.Empty(t, store.deleted)
}

func TestUpdateProfileAvatarWithoutStorage(t *testing.T) {
	repo := newRepo()
	svc := NewProfileService(repo, nil, "avatars", true)

	avatar := &commonDto.AvatarFile{Reader: strings.NewReader("x"), FileName: "me.png"}
	err := svc.UpdateProfile(context.Background(), 1, profileDto.UpdateProfileInput{}, avatar)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestUpdateProfileMissingUser(t *testing.T) {
	svc := NewProfileService(newRepo(), nil, "avatars", true)

	err := svc.UpdateProfile(context.Background(), 9, profileDto.UpdateProfileInput{Bio: strPtr("x")}, nil)
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
}

func TestUpdateProfileFailureDeletesNewAvatar(t *testing.T) {
	repo := newRepo()
	repo.users[1].ProfilePicture = strPtr("https://res.cloudinary.com/demo/image/upload/v1/avatars/old.webp")
	repo.updateErr = errors.New("connection reset")
	store := &fakeStorage{}
	svc := NewProfileService(repo, store, "avatars", true)

	avatar := &commonDto.AvatarFile{Reader: strings.NewReader("png-bytes"), FileName: "me.png"}
	err := svc.UpdateProfile(context.Background(), 1, profileDto.UpdateProfileInput{}, avatar)

	require.Error(t, err)
	assert.Equal(t, []string{"avatars/me.png"}, store.uploaded)
	assert.Equal(t, []string{"https://res.cloudinary.com/demo/image/upload/v1/avatars/me.png"}, store.deleted)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/avatars/old.webp", *repo.users[1].ProfilePicture)
}
