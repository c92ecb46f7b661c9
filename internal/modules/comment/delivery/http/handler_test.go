package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"anoa.com/socialplatform/internal/entity"
	commentDto "anoa.com/socialplatform/internal/modules/comment/dto"
	"anoa.com/socialplatform/pkg/apperror"
	commonDto "anoa.com/socialplatform/pkg/dto"
	"anoa.com/socialplatform/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	comments []commentDto.CommentResponse
	err      error
	action   entity.LikeAction

	calls    []string
	gotID    uint
	gotUser  uint
	gotInput string
}

func (s *stubService) record(name string, id, userID uint, content string) {
	s.calls = append(s.calls, name)
	s.gotID, s.gotUser, s.gotInput = id, userID, content
}

func (s *stubService) ListTopLevelByPost(_ context.Context, postID uint) ([]commentDto.CommentResponse, error) {
	s.record("top", postID, 0, "")
	return s.comments, s.err
}

func (s *stubService) ListReplies(_ context.Context, commentID uint) ([]commentDto.CommentResponse, error) {
	s.record("replies", commentID, 0, "")
	return s.comments, s.err
}

func (s *stubService) AddComment(_ context.Context, postID, userID uint, req commentDto.CommentRequest) error {
	s.record("add", postID, userID, req.Content)
	return s.err
}

func (s *stubService) AddReply(_ context.Context, parentID, userID uint, req commentDto.CommentRequest) error {
	s.record("reply", parentID, userID, req.Content)
	return s.err
}

func (s *stubService) Update(_ context.Context, commentID, userID uint, req commentDto.CommentRequest) error {
	s.record("update", commentID, userID, req.Content)
	return s.err
}

func (s *stubService) Delete(_ context.Context, commentID, userID uint) error {
	s.record("delete", commentID, userID, "")
	return s.err
}

func (s *stubService) ToggleLike(_ context.Context, commentID, userID uint) (entity.LikeAction, error) {
	s.record("like", commentID, userID, "")
	return s.action, s.err
}

func newRouter(svc *stubService, authUser string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCommentHandler(svc)
	r := gin.New()
	auth := func(c *gin.Context) {
		if authUser != "" {
			c.Set(response.UserIDKey, authUser)
		}
		c.Next()
	}

	r.GET("/api/comments/post/:postId", h.GetCommentsByPost)
	r.GET("/api/comments/:id/replies", h.GetReplies)
	r.POST("/api/comments/post/:postId", auth, h.AddComment)
	r.POST("/api/comments/:id/reply", auth, h.AddReply)
	r.PUT("/api/comments/:id", auth, h.UpdateComment)
	r.DELETE("/api/comments/:id", auth, h.DeleteComment)
	r.POST("/api/comments/:id/like", auth, h.ToggleLike)
	return r
}

func do(r http.Handler, method, path, body string) (int, string) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code, w.Body.String()
}

func messageOf(t *testing.T, body string) string {
	t.Helper()
	var out commonDto.MessageResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out.Message
}

func TestGetCommentsByPostPayload(t *testing.T) {
	parent := uint(4)
	svc := &stubService{comments: []commentDto.CommentResponse{{
		ID:         9,
		Content:    "nice",
		User:       commonDto.UserSummary{ID: 2, Username: "alice"},
		PostID:     1,
		ParentID:   &parent,
		CreatedAt:  time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
		Likes:      []commonDto.UserSummary{},
		ReplyCount: 0,
	}}}

	code, body := do(newRouter(svc, ""), http.MethodGet, "/api/comments/post/1", "")

	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[{
		"id":9,"content":"nice",
		"user":{"id":2,"username":"alice","profilePicture":null},
		"postId":1,"parentId":4,
		"createdAt":"2024-02-01T12:00:00Z",
		"likes":[],"replyCount":0
	}]`, body)
	assert.Equal(t, []string{"top"}, svc.calls)
}

func TestGetRepliesMissingParent(t *testing.T) {
	svc := &stubService{err: apperror.NotFound("Comment not found with id 3")}

	code, body := do(newRouter(svc, ""), http.MethodGet, "/api/comments/3/replies", "")

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Comment not found with id 3", messageOf(t, body))
}

func TestWriteMessages(t *testing.T) {
	tests := []struct {
		method string
		path   string
		body   string
		call   string
		want   string
	}{
		{http.MethodPost, "/api/comments/post/1", `{"content":"first"}`, "add", "Comment added successfully!"},
		{http.MethodPost, "/api/comments/5/reply", `{"content":"answer"}`, "reply", "Reply added successfully!"},
		{http.MethodPut, "/api/comments/5", `{"content":"edited"}`, "update", "Comment updated successfully!"},
		{http.MethodDelete, "/api/comments/5", "", "delete", "Comment deleted successfully!"},
	}

	for _, tt := range tests {
		t.Run(tt.call, func(t *testing.T) {
			svc := &stubService{}
			code, body := do(newRouter(svc, "8"), tt.method, tt.path, tt.body)

			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, tt.want, messageOf(t, body))
			assert.Equal(t, []string{tt.call}, svc.calls)
			assert.Equal(t, uint(8), svc.gotUser)
		})
	}
}

func TestAddCommentRequiresAuth(t *testing.T) {
	svc := &stubService{}
	code, _ := do(newRouter(svc, ""), http.MethodPost, "/api/comments/post/1", `{"content":"x"}`)

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Empty(t, svc.calls)
}

func TestAddReplyTooLong(t *testing.T) {
	svc := &stubService{}
	body := `{"content":"` + strings.Repeat("b", 301) + `"}`

	code, resp := do(newRouter(svc, "8"), http.MethodPost, "/api/comments/5/reply", body)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "content must be at most 300 characters", messageOf(t, resp))
	assert.Empty(t, svc.calls)
}

func TestDeleteCommentNotOwner(t *testing.T) {
	svc := &stubService{err: apperror.NotOwner("Not authorized to delete this comment")}

	code, body := do(newRouter(svc, "8"), http.MethodDelete, "/api/comments/5", "")

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Not authorized to delete this comment", messageOf(t, body))
}

func TestToggleCommentLike(t *testing.T) {
	svc := &stubService{action: entity.Liked}
	_, body := do(newRouter(svc, "8"), http.MethodPost, "/api/comments/5/like", "")
	assert.Equal(t, "Comment liked successfully!", messageOf(t, body))

	svc.action = entity.Unliked
	_, body = do(newRouter(svc, "8"), http.MethodPost, "/api/comments/5/like", "")
	assert.Equal(t, "Comment unliked successfully!", messageOf(t, body))
}
