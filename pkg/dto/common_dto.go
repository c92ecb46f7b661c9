package dto

import (
	"io"

	"anoa.com/socialplatform/internal/entity"
)

// MessageResponse is the envelope for acknowledgements and every error.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserSummary is the only user shape embedded in post and comment payloads.
type UserSummary struct {
	ID             uint    `json:"id"`
	Username       string  `json:"username"`
	ProfilePicture *string `json:"profilePicture"`
}

func NewUserSummary(u entity.User) UserSummary {
	return UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
	}
}

// LikeSummaries maps like rows to their users, oldest like first.
func LikeSummaries[T interface{ Liker() entity.User }](likes []T) []UserSummary {
	out := make([]UserSummary, 0, len(likes))
	for _, l := range likes {
		out = append(out, NewUserSummary(l.Liker()))
	}
	return out
}

type AvatarFile struct {
	Reader   io.Reader
	FileName string
}
