package handler

import (
	"net/http"

	"anoa.com/socialplatform/internal/entity"
	commentDto "anoa.com/socialplatform/internal/modules/comment/dto"
	comment "anoa.com/socialplatform/internal/modules/comment/service"
	"anoa.com/socialplatform/pkg/apperror"
	"anoa.com/socialplatform/pkg/response"
	"anoa.com/socialplatform/pkg/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	service comment.CommentService
}

func NewCommentHandler(service comment.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func (h *CommentHandler) GetCommentsByPost(c *gin.Context) {
	postID, err := response.ParseID(c, "postId")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	comments, err := h.service.ListTopLevelByPost(c.Request.Context(), postID)
	if err != nil {
		response.ResponseError(c, err, zap.Uint("post_id", postID))
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) GetReplies(c *gin.Context) {
	commentID, err := response.ParseID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	replies, err := h.service.ListReplies(c.Request.Context(), commentID)
	if err != nil {
		response.ResponseError(c, err, zap.Uint("comment_id", commentID))
		return
	}

	c.JSON(http.StatusOK, replies)
}

func (h *CommentHandler) bind(c *gin.Context) (commentDto.CommentRequest, uint, bool) {
	var req commentDto.CommentRequest

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return req, 0, false
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, apperror.Invalid(validator.FormatValidationError(err)))
		return req, 0, false
	}
	return req, userID, true
}

func (h *CommentHandler) AddComment(c *gin.Context) {
	postID, err := response.ParseID(c, "postId")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	req, userID, ok := h.bind(c)
	if !ok {
		return
	}

	if err := h.service.AddComment(c.Request.Context(), postID, userID, req); err != nil {
		response.ResponseError(c, err, zap.Uint("post_id", postID))
		return
	}

	response.Message(c, http.StatusOK, "Comment added successfully!")
}

func (h *CommentHandler) AddReply(c *gin.Context) {
	parentID, err := response.ParseID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	req, userID, ok := h.bind(c)
	if !ok {
		return
	}

	if err := h.service.AddReply(c.Request.Context(), parentID, userID, req); err != nil {
		response.ResponseError(c, err, zap.Uint("comment_id", parentID))
		return
	}

	response.Message(c, http.StatusOK, "Reply added successfully!")
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID, err := response.ParseID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	req, userID, ok := h.bind(c)
	if !ok {
		return
	}

	if err := h.service.Update(c.Request.Context(), commentID, userID, req); err != nil {
		response.ResponseError(c, err, zap.Uint("comment_id", commentID))
		return
	}

	response.Message(c, http.StatusOK, "Comment updated successfully!")
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, err := response.ParseID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), commentID, userID); err != nil {
		response.ResponseError(c, err, zap.Uint("comment_id", commentID))
		return
	}

	response.Message(c, http.StatusOK, "Comment deleted successfully!")
}

func (h *CommentHandler) ToggleLike(c *gin.Context) {
	commentID, err := response.ParseID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	action, err := h.service.ToggleLike(c.Request.Context(), commentID, userID)
	if err != nil {
		response.ResponseError(c, err, zap.Uint("comment_id", commentID))
		return
	}

	if action == entity.Liked {
		response.Message(c, http.StatusOK, "Comment liked successfully!")
		return
	}
	response.Message(c, http.StatusOK, "Comment unliked successfully!")
}
