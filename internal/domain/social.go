package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Like records that a user liked a tweet. At most one per (user, tweet).
type Like struct {
	UserID    uuid.UUID `json:"userId"`
	TweetID   uuid.UUID `json:"tweetId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Follow is a directed edge: the follower sees the followee's tweets.
type Follow struct {
	FollowerID uuid.UUID `json:"followerId"`
	FolloweeID uuid.UUID `json:"followeeId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SocialGraphRepository answers who-follows-whom and who-liked-what.
// All batched lookups issue one query per collection, never one per item.
type SocialGraphRepository interface {
	// LikeCounts returns like totals keyed by tweet id. Tweets with zero
	// likes are absent from the map.
	LikeCounts(ctx context.Context, tweetIDs []uuid.UUID) (map[uuid.UUID]int, error)
	// LikedBy reports which of the given tweets the viewer has liked.
	LikedBy(ctx context.Context, viewerID uuid.UUID, tweetIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	// HashtagsFor returns hashtag labels keyed by tweet id, each list
	// sorted lexicographically.
	HashtagsFor(ctx context.Context, tweetIDs []uuid.UUID) (map[uuid.UUID][]string, error)
	// Followees returns the ids the given user follows.
	Followees(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// AddLike inserts a like atomically. Returns ErrConflict when the
	// pair already exists.
	AddLike(ctx context.Context, userID, tweetID uuid.UUID) error
	// RemoveLike deletes a like. Returns ErrNotFound when none exists.
	RemoveLike(ctx context.Context, userID, tweetID uuid.UUID) error
	// AddFollow inserts a follow edge atomically. Returns ErrConflict
	// when the edge already exists.
	AddFollow(ctx context.Context, followerID, followeeID uuid.UUID) error
	// RemoveFollow deletes a follow edge. Returns ErrNotFound when no
	// edge exists.
	RemoveFollow(ctx context.Context, followerID, followeeID uuid.UUID) error
}
