package dto

import "time"

// UpdateProfileInput is a partial update: nil fields are left untouched.
type UpdateProfileInput struct {
	Bio            *string `json:"bio" form:"bio" binding:"omitempty,max=255"`
	ProfilePicture *string `json:"profilePicture" form:"profilePicture" binding:"omitempty,max=255"`
}

type ProfileResponse struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	Bio            *string   `json:"bio"`
	ProfilePicture *string   `json:"profilePicture"`
	JoinDate       time.Time `json:"joinDate"`
}

// CurrentUserResponse is the authenticated user's own view.
type CurrentUserResponse struct {
	ProfileResponse
	Roles []string `json:"roles"`
}
