package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"microblog/internal/domain"
)

// CreateTweet inserts a tweet and its hashtag links in one transaction.
func (d *DB) CreateTweet(ctx context.Context, t *domain.Tweet, hashtags []string) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO tweets (id, author_id, body, created_at) VALUES ($1, $2, $3, $4)",
		t.ID, t.AuthorID, t.Body, t.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert tweet: %w", err)
	}

	for _, label := range hashtags {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO tweet_hashtags (tweet_id, label) VALUES ($1, $2)",
			t.ID, label,
		); err != nil {
			return fmt.Errorf("insert hashtag %q: %w", label, err)
		}
	}

	return tx.Commit()
}

// TweetByID retrieves a tweet by id.
func (d *DB) TweetByID(ctx context.Context, id uuid.UUID) (*domain.Tweet, error) {
	var t domain.Tweet
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, author_id, body, created_at FROM tweets WHERE id = $1", id,
	).Scan(&t.ID, &t.AuthorID, &t.Body, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTweet removes a tweet; dependent rows go via ON DELETE CASCADE.
func (d *DB) DeleteTweet(ctx context.Context, id uuid.UUID) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM tweets WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TweetsByAuthors returns all tweets by the given authors in feed order.
func (d *DB) TweetsByAuthors(ctx context.Context, authorIDs []uuid.UUID) ([]domain.Tweet, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, author_id, body, created_at FROM tweets WHERE author_id = ANY($1::uuid[]) ORDER BY created_at DESC, id ASC",
		pq.Array(uuidStrings(authorIDs)),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Tweet
	for rows.Next() {
		var t domain.Tweet
		if err := rows.Scan(&t.ID, &t.AuthorID, &t.Body, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
