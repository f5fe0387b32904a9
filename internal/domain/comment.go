package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Comment is a reply attached to a tweet.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	TweetID   uuid.UUID `json:"tweetId"`
	AuthorID  uuid.UUID `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentRepository is the port for comment persistence. Lookups never
// return comments whose parent tweet has been deleted.
type CommentRepository interface {
	CreateComment(ctx context.Context, c *Comment) error
	// CommentByID returns nil, nil when no comment exists with the given
	// id or its parent tweet is gone.
	CommentByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
	// CommentsByTweet returns comments oldest first, ties broken by id.
	CommentsByTweet(ctx context.Context, tweetID uuid.UUID) ([]Comment, error)
}
