// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"microblog/internal/domain"
)

// DB wraps a *sql.DB and implements the domain repository interfaces.
type DB struct {
	sql *sql.DB
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.TweetRepository = (*DB)(nil)
var _ domain.SocialGraphRepository = (*DB)(nil)
var _ domain.CommentRepository = (*DB)(nil)

// Open connects to PostgreSQL, pings, and bootstraps the schema.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	// Cascades are declared explicitly: deleting a tweet removes its
	// likes, comments and hashtag links at the storage layer.
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS users (id UUID PRIMARY KEY, username TEXT UNIQUE NOT NULL, email TEXT UNIQUE NOT NULL, password_hash TEXT NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS tweets (id UUID PRIMARY KEY, author_id UUID NOT NULL REFERENCES users(id), body TEXT NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_tweets_author_id ON tweets(author_id);",
		"CREATE INDEX IF NOT EXISTS idx_tweets_created_at ON tweets(created_at);",
		"CREATE TABLE IF NOT EXISTS likes (user_id UUID NOT NULL REFERENCES users(id), tweet_id UUID NOT NULL REFERENCES tweets(id) ON DELETE CASCADE, created_at TIMESTAMPTZ NOT NULL, PRIMARY KEY (user_id, tweet_id));",
		"CREATE INDEX IF NOT EXISTS idx_likes_tweet_id ON likes(tweet_id);",
		"CREATE TABLE IF NOT EXISTS follows (follower_id UUID NOT NULL REFERENCES users(id), followee_id UUID NOT NULL REFERENCES users(id), created_at TIMESTAMPTZ NOT NULL, PRIMARY KEY (follower_id, followee_id), CHECK (follower_id <> followee_id));",
		"CREATE TABLE IF NOT EXISTS comments (id UUID PRIMARY KEY, tweet_id UUID NOT NULL REFERENCES tweets(id) ON DELETE CASCADE, author_id UUID NOT NULL REFERENCES users(id), body TEXT NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_comments_tweet_id ON comments(tweet_id);",
		"CREATE TABLE IF NOT EXISTS tweet_hashtags (tweet_id UUID NOT NULL REFERENCES tweets(id) ON DELETE CASCADE, label TEXT NOT NULL, PRIMARY KEY (tweet_id, label));",
		"CREATE INDEX IF NOT EXISTS idx_tweet_hashtags_label ON tweet_hashtags(label);",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// uuidStrings converts ids for use with pq.Array and ANY($n::uuid[]).
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
