package comment

import (
	"anoa.com/socialplatform/internal/entity"
	commentDto "anoa.com/socialplatform/internal/modules/comment/dto"
	"anoa.com/socialplatform/pkg/dto"
)

func mapToResponse(c *entity.Comment) *commentDto.CommentResponse {
	return &commentDto.CommentResponse{
		ID:         c.ID,
		Content:    c.Content,
		User:       dto.NewUserSummary(c.User),
		PostID:     c.PostID,
		ParentID:   c.ParentID,
		CreatedAt:  c.CreatedAt,
		Likes:      dto.LikeSummaries(c.Likes),
		ReplyCount: c.ReplyCount,
	}
}

func mapToResponses(comments []*entity.Comment) []commentDto.CommentResponse {
	out := make([]commentDto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, *mapToResponse(c))
	}
	return out
}
