package post

import (
	"anoa.com/socialplatform/internal/entity"
	postDto "anoa.com/socialplatform/internal/modules/post/dto"
	"anoa.com/socialplatform/pkg/dto"
)

func mapToResponse(post *entity.Post) *postDto.PostResponse {
	return &postDto.PostResponse{
		ID:           post.ID,
		Content:      post.Content,
		User:         dto.NewUserSummary(post.User),
		CreatedAt:    post.CreatedAt,
		Likes:        dto.LikeSummaries(post.Likes),
		CommentCount: post.CommentCount,
	}
}

func mapToResponses(posts []*entity.Post) []postDto.PostResponse {
	out := make([]postDto.PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, *mapToResponse(p))
	}
	return out
}
