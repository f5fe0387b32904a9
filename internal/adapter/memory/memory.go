// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"microblog/internal/domain"
)

// DB implements all domain repositories on in-memory maps.
type DB struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*domain.User
	tweets   map[uuid.UUID]*domain.Tweet
	likes    map[likeKey]time.Time
	follows  map[followKey]time.Time
	hashtags map[uuid.UUID][]string
	comments map[uuid.UUID]*domain.Comment
}

type likeKey struct {
	userID  uuid.UUID
	tweetID uuid.UUID
}

type followKey struct {
	followerID uuid.UUID
	followeeID uuid.UUID
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		users:    make(map[uuid.UUID]*domain.User),
		tweets:   make(map[uuid.UUID]*domain.Tweet),
		likes:    make(map[likeKey]time.Time),
		follows:  make(map[followKey]time.Time),
		hashtags: make(map[uuid.UUID][]string),
		comments: make(map[uuid.UUID]*domain.Comment),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.TweetRepository = (*DB)(nil)
var _ domain.SocialGraphRepository = (*DB)(nil)
var _ domain.CommentRepository = (*DB)(nil)

// --- UserRepository ---

func (db *DB) CreateUser(ctx context.Context, u *domain.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.users {
		if existing.Email == u.Email {
			return fmt.Errorf("email %w", domain.ErrConflict)
		}
		if existing.Username == u.Username {
			return fmt.Errorf("username %w", domain.ErrConflict)
		}
	}

	cp := *u
	db.users[u.ID] = &cp
	return nil
}

func (db *DB) UserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (db *DB) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// --- TweetRepository ---

func (db *DB) CreateTweet(ctx context.Context, t *domain.Tweet, hashtags []string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	cp := *t
	db.tweets[t.ID] = &cp
	if len(hashtags) > 0 {
		db.hashtags[t.ID] = append([]string(nil), hashtags...)
	}
	return nil
}

func (db *DB) TweetByID(ctx context.Context, id uuid.UUID) (*domain.Tweet, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	t, ok := db.tweets[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (db *DB) DeleteTweet(ctx context.Context, id uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.tweets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(db.tweets, id)
	delete(db.hashtags, id)

	// Cascade: dependent likes and comments go with the tweet.
	for k := range db.likes {
		if k.tweetID == id {
			delete(db.likes, k)
		}
	}
	for cid, c := range db.comments {
		if c.TweetID == id {
			delete(db.comments, cid)
		}
	}
	return nil
}

func (db *DB) TweetsByAuthors(ctx context.Context, authorIDs []uuid.UUID) ([]domain.Tweet, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	authors := make(map[uuid.UUID]bool, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = true
	}

	var out []domain.Tweet
	for _, t := range db.tweets {
		if authors[t.AuthorID] {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// --- SocialGraphRepository ---

func (db *DB) LikeCounts(ctx context.Context, tweetIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	wanted := make(map[uuid.UUID]bool, len(tweetIDs))
	for _, id := range tweetIDs {
		wanted[id] = true
	}

	counts := make(map[uuid.UUID]int)
	for k := range db.likes {
		if wanted[k.tweetID] {
			counts[k.tweetID]++
		}
	}
	return counts, nil
}

func (db *DB) LikedBy(ctx context.Context, viewerID uuid.UUID, tweetIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	liked := make(map[uuid.UUID]bool)
	for _, id := range tweetIDs {
		if _, ok := db.likes[likeKey{userID: viewerID, tweetID: id}]; ok {
			liked[id] = true
		}
	}
	return liked, nil
}

func (db *DB) HashtagsFor(ctx context.Context, tweetIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	labels := make(map[uuid.UUID][]string)
	for _, id := range tweetIDs {
		if tags, ok := db.hashtags[id]; ok {
			labels[id] = append([]string(nil), tags...)
		}
	}
	return labels, nil
}

func (db *DB) Followees(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []uuid.UUID
	for k := range db.follows {
		if k.followerID == userID {
			out = append(out, k.followeeID)
		}
	}
	return out, nil
}

func (db *DB) AddLike(ctx context.Context, userID, tweetID uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	k := likeKey{userID: userID, tweetID: tweetID}
	if _, ok := db.likes[k]; ok {
		return domain.ErrConflict
	}
	db.likes[k] = time.Now().UTC()
	return nil
}

func (db *DB) RemoveLike(ctx context.Context, userID, tweetID uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	k := likeKey{userID: userID, tweetID: tweetID}
	if _, ok := db.likes[k]; !ok {
		return domain.ErrNotFound
	}
	delete(db.likes, k)
	return nil
}

func (db *DB) AddFollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	k := followKey{followerID: followerID, followeeID: followeeID}
	if _, ok := db.follows[k]; ok {
		return domain.ErrConflict
	}
	db.follows[k] = time.Now().UTC()
	return nil
}

func (db *DB) RemoveFollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	k := followKey{followerID: followerID, followeeID: followeeID}
	if _, ok := db.follows[k]; !ok {
		return domain.ErrNotFound
	}
	delete(db.follows, k)
	return nil
}

// --- CommentRepository ---

func (db *DB) CreateComment(ctx context.Context, c *domain.Comment) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	cp := *c
	db.comments[c.ID] = &cp
	return nil
}

func (db *DB) CommentByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	c, ok := db.comments[id]
	if !ok {
		return nil, nil
	}
	// Hide orphans: a comment whose parent tweet is gone does not exist.
	if _, ok := db.tweets[c.TweetID]; !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (db *DB) DeleteComment(ctx context.Context, id uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.comments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(db.comments, id)
	return nil
}

func (db *DB) CommentsByTweet(ctx context.Context, tweetID uuid.UUID) ([]domain.Comment, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.tweets[tweetID]; !ok {
		return nil, nil
	}

	var out []domain.Comment
	for _, c := range db.comments {
		if c.TweetID == tweetID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}
