package activity

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel(t *testing.T) {
	assert.Equal(t, "user_activity:9", Channel(9))
}

func TestShouldNotify(t *testing.T) {
	assert.True(t, ShouldNotify(Event{Type: PostLiked, RecipientID: 1, ActorID: 2}))
	assert.False(t, ShouldNotify(Event{Type: PostLiked, RecipientID: 2, ActorID: 2}))
	assert.False(t, ShouldNotify(Event{Type: PostLiked, ActorID: 2}))
}

func TestNilClientPublishIsNoop(t *testing.T) {
	p := NewPublisher(nil)
	assert.NotPanics(t, func() {
		p.Publish(context.Background(), Event{Type: CommentReplied, RecipientID: 1, ActorID: 2})
	})
}

func TestEventJSON(t *testing.T) {
	commentID := uint(5)
	ev := Event{
		Type:        CommentLiked,
		RecipientID: 1,
		ActorID:     2,
		PostID:      3,
		CommentID:   &commentID,
		CreatedAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type":"comment_liked","recipientId":1,"actorId":2,"postId":3,"commentId":5,
		"createdAt":"2024-01-02T03:04:05Z"
	}`, string(b))
}
