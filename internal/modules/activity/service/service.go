package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"anoa.com/socialplatform/pkg/logging"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type EventType string

const (
	PostLiked      EventType = "post_liked"
	CommentLiked   EventType = "comment_liked"
	PostCommented  EventType = "post_commented"
	CommentReplied EventType = "comment_replied"
)

// Event tells RecipientID that ActorID interacted with their content.
type Event struct {
	Type        EventType `json:"type"`
	RecipientID uint      `json:"recipientId"`
	ActorID     uint      `json:"actorId"`
	PostID      uint      `json:"postId,omitempty"`
	CommentID   *uint     `json:"commentId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Publisher fans activity out to connected clients. Delivery is best effort:
// failures are logged, never returned.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type redisPublisher struct {
	redisClient *redis.Client
	log         *zap.Logger
}

// NewPublisher returns a redis pub/sub publisher. A nil client drops every event.
func NewPublisher(redisClient *redis.Client) Publisher {
	return &redisPublisher{
		redisClient: redisClient,
		log:         logging.WithComponent("activity"),
	}
}

func Channel(userID uint) string {
	return fmt.Sprintf("user_activity:%d", userID)
}

func (p *redisPublisher) Publish(ctx context.Context, event Event) {
	if !ShouldNotify(event) || p.redisClient == nil {
		return
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Error("failed to encode activity event", zap.Error(err))
		return
	}

	if err := p.redisClient.Publish(ctx, Channel(event.RecipientID), payload).Err(); err != nil {
		p.log.Warn("failed to publish activity event",
			zap.String("type", string(event.Type)),
			zap.Uint("recipient_id", event.RecipientID),
			zap.Error(err),
		)
	}
}

// ShouldNotify drops events a user caused on their own content.
func ShouldNotify(event Event) bool {
	return event.RecipientID != 0 && event.RecipientID != event.ActorID
}
