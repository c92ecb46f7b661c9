package dto

import (
	"time"

	commonDto "anoa.com/socialplatform/pkg/dto"
)

type CommentRequest struct {
	Content string `json:"content" binding:"required,max=300"`
}

// CommentResponse references its post and parent by id and never embeds
// replies; clients page through replies with the replies endpoint.
type CommentResponse struct {
	ID         uint                    `json:"id"`
	Content    string                  `json:"content"`
	User       commonDto.UserSummary   `json:"user"`
	PostID     uint                    `json:"postId"`
	ParentID   *uint                   `json:"parentId"`
	CreatedAt  time.Time               `json:"createdAt"`
	Likes      []commonDto.UserSummary `json:"likes"`
	ReplyCount int64                   `json:"replyCount"`
}
