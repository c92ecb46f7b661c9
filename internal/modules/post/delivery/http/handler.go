package handler

import (
	"net/http"

	"anoa.com/socialplatform/internal/entity"
	postDto "anoa.com/socialplatform/internal/modules/post/dto"
	post "anoa.com/socialplatform/internal/modules/post/service"
	"anoa.com/socialplatform/pkg/apperror"
	"anoa.com/socialplatform/pkg/response"
	"anoa.com/socialplatform/pkg/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostHandler struct {
	service post.PostService
}

func NewPostHandler(service post.PostService) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) GetAllPosts(c *gin.Context) {
	posts, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetPostsByUser(c *gin.Context) {
	userID, err := response.ParseID(c, "userId")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	posts, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err, zap.Uint("target_user_id", userID))
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetPostByID(c *gin.Context) {
	postID, err := response.ParseID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), postID)
	if err != nil {
		response.ResponseError(c, err, zap.Uint("post_id", postID))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PostHandler) SearchPosts(c *gin.Context) {
	var query postDto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ResponseError(c, apperror.Invalid("search query must not be blank"))
		return
	}

	posts, err := h.service.Search(c.Request.Context(), query.Q)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req postDto.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, apperror.Invalid(validator.FormatValidationError(err)))
		return
	}

	if err := h.service.Create(c.Request.Context(), userID, req); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Post created successfully!")
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	postID, err := response.ParseID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req postDto.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, apperror.Invalid(validator.FormatValidationError(err)))
		return
	}

	if err := h.service.Update(c.Request.Context(), postID, userID, req); err != nil {
		response.ResponseError(c, err, zap.Uint("post_id", postID))
		return
	}

	response.Message(c, http.StatusOK, "Post updated successfully!")
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, err := response.ParseID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), postID, userID); err != nil {
		response.ResponseError(c, err, zap.Uint("post_id", postID))
		return
	}

	response.Message(c, http.StatusOK, "Post deleted successfully!")
}

func (h *PostHandler) ToggleLike(c *gin.Context) {
	postID, err := response.ParseID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	action, err := h.service.ToggleLike(c.Request.Context(), postID, userID)
	if err != nil {
		response.ResponseError(c, err, zap.Uint("post_id", postID))
		return
	}

	if action == entity.Liked {
		response.Message(c, http.StatusOK, "Post liked successfully!")
		return
	}
	response.Message(c, http.StatusOK, "Post unliked successfully!")
}
