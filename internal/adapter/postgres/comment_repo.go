package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"microblog/internal/domain"
)

// CreateComment inserts a comment.
func (d *DB) CreateComment(ctx context.Context, c *domain.Comment) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO comments (id, tweet_id, author_id, body, created_at) VALUES ($1, $2, $3, $4, $5)",
		c.ID, c.TweetID, c.AuthorID, c.Body, c.CreatedAt,
	)
	return err
}

// CommentByID retrieves a comment. The join through tweets guarantees an
// orphaned comment is never exposed.
func (d *DB) CommentByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var c domain.Comment
	err := d.sql.QueryRowContext(ctx,
		"SELECT c.id, c.tweet_id, c.author_id, c.body, c.created_at FROM comments c JOIN tweets t ON t.id = c.tweet_id WHERE c.id = $1",
		id,
	).Scan(&c.ID, &c.TweetID, &c.AuthorID, &c.Body, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteComment removes a comment.
func (d *DB) DeleteComment(ctx context.Context, id uuid.UUID) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CommentsByTweet lists a tweet's comments oldest first.
func (d *DB) CommentsByTweet(ctx context.Context, tweetID uuid.UUID) ([]domain.Comment, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT c.id, c.tweet_id, c.author_id, c.body, c.created_at FROM comments c JOIN tweets t ON t.id = c.tweet_id WHERE c.tweet_id = $1 ORDER BY c.created_at ASC, c.id ASC",
		tweetID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.TweetID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
