package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tweet is a short user-authored post.
type Tweet struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedItem is a tweet enriched with viewer-scoped derived attributes.
type FeedItem struct {
	Tweet
	Hashtags  []string `json:"hashtags"`
	LikeCount int      `json:"likeCount"`
	LikedByMe bool     `json:"likedByMe"`
}

// TweetRepository is the port for tweet persistence.
type TweetRepository interface {
	// CreateTweet inserts a tweet together with its hashtag labels as a
	// single atomic operation.
	CreateTweet(ctx context.Context, t *Tweet, hashtags []string) error
	// TweetByID returns nil, nil when no tweet exists with the given id.
	TweetByID(ctx context.Context, id uuid.UUID) (*Tweet, error)
	// DeleteTweet removes a tweet and its dependent likes, comments and
	// hashtag links.
	DeleteTweet(ctx context.Context, id uuid.UUID) error
	// TweetsByAuthors returns all tweets by the given authors, ordered by
	// creation time descending, ties broken by id ascending.
	TweetsByAuthors(ctx context.Context, authorIDs []uuid.UUID) ([]Tweet, error)
}
