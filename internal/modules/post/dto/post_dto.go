package dto

import (
	"time"

	commonDto "anoa.com/socialplatform/pkg/dto"
)

type PostRequest struct {
	Content string `json:"content" binding:"required,max=500"`
}

type PostResponse struct {
	ID           uint                    `json:"id"`
	Content      string                  `json:"content"`
	User         commonDto.UserSummary   `json:"user"`
	CreatedAt    time.Time               `json:"createdAt"`
	Likes        []commonDto.UserSummary `json:"likes"`
	CommentCount int64                   `json:"commentCount"`
}

type SearchQuery struct {
	Q string `form:"q" binding:"required"`
}
