package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"anoa.com/socialplatform/internal/entity"
	"anoa.com/socialplatform/pkg/logging"
	"anoa.com/socialplatform/pkg/sanitize"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

const postsIndex = "posts"

// PostIndex keeps a full-text copy of posts. Callers treat a nil PostIndex as
// "search index not configured".
type PostIndex interface {
	IndexPost(ctx context.Context, post *entity.Post) error
	DeletePost(ctx context.Context, id uint) error
	SearchPostIDs(ctx context.Context, query string, limit int) ([]uint, error)
}

type meiliPostIndex struct {
	client meilisearch.ServiceManager
	log    *zap.Logger
}

func NewMeiliClient(host, apiKey string) meilisearch.ServiceManager {
	return meilisearch.New(host, meilisearch.WithAPIKey(apiKey))
}

func NewPostIndex(client meilisearch.ServiceManager) PostIndex {
	s := &meiliPostIndex{
		client: client,
		log:    logging.WithComponent("search"),
	}
	s.initIndex()
	return s
}

func (s *meiliPostIndex) initIndex() {
	sortable := []string{"created_at"}
	if _, err := s.client.Index(postsIndex).UpdateSortableAttributes(&sortable); err != nil {
		s.log.Warn("failed to update posts sortable attributes", zap.Error(err))
	}

	filterable := []interface{}{"user_id"}
	if _, err := s.client.Index(postsIndex).UpdateFilterableAttributes(&filterable); err != nil {
		s.log.Warn("failed to update posts filterable attributes", zap.Error(err))
	}
}

type postDoc struct {
	ID        string  `json:"id"`
	Content   string  `json:"content"`
	UserID    uint    `json:"user_id"`
	CreatedAt int64   `json:"created_at"`
	User      userDoc `json:"user"`
}

type userDoc struct {
	Username string `json:"username"`
}

func cleanForIndex(content string) string {
	return strings.Join(strings.Fields(sanitize.Text(content)), " ")
}

func (s *meiliPostIndex) IndexPost(_ context.Context, post *entity.Post) error {
	doc := postDoc{
		ID:        strconv.FormatUint(uint64(post.ID), 10),
		Content:   cleanForIndex(post.Content),
		UserID:    post.UserID,
		CreatedAt: post.CreatedAt.Unix(),
		User:      userDoc{Username: post.User.Username},
	}

	task, err := s.client.Index(postsIndex).AddDocuments([]postDoc{doc}, strPtr("id"))
	if err != nil {
		return fmt.Errorf("index post %d: %w", post.ID, err)
	}
	s.log.Debug("post indexed", zap.Uint("post_id", post.ID), zap.Int64("task_uid", task.TaskUID))
	return nil
}

func (s *meiliPostIndex) DeletePost(_ context.Context, id uint) error {
	if _, err := s.client.Index(postsIndex).DeleteDocument(strconv.FormatUint(uint64(id), 10)); err != nil {
		return fmt.Errorf("remove post %d from index: %w", id, err)
	}
	return nil
}

type searchHits struct {
	Hits []struct {
		ID string `json:"id"`
	} `json:"hits"`
}

// SearchPostIDs returns matching post ids, best match first.
func (s *meiliPostIndex) SearchPostIDs(_ context.Context, query string, limit int) ([]uint, error) {
	raw, err := s.client.Index(postsIndex).SearchRaw(query, &meilisearch.SearchRequest{
		Limit:                int64(limit),
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}

	return decodeHitIDs(*raw)
}

func decodeHitIDs(raw []byte) ([]uint, error) {
	var res searchHits
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uint, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
