package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"microblog/internal/domain"
)

// LikeCounts returns per-tweet like totals in a single grouped query.
// Tweets with zero likes are absent from the map.
func (d *DB) LikeCounts(ctx context.Context, tweetIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT tweet_id, COUNT(*) FROM likes WHERE tweet_id = ANY($1::uuid[]) GROUP BY tweet_id",
		pq.Array(uuidStrings(tweetIDs)),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// LikedBy returns the subset of the given tweets the viewer has liked.
func (d *DB) LikedBy(ctx context.Context, viewerID uuid.UUID, tweetIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT tweet_id FROM likes WHERE user_id = $1 AND tweet_id = ANY($2::uuid[])",
		viewerID, pq.Array(uuidStrings(tweetIDs)),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	liked := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		liked[id] = true
	}
	return liked, rows.Err()
}

// HashtagsFor returns hashtag labels per tweet, sorted lexicographically.
func (d *DB) HashtagsFor(ctx context.Context, tweetIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT tweet_id, label FROM tweet_hashtags WHERE tweet_id = ANY($1::uuid[]) ORDER BY tweet_id, label",
		pq.Array(uuidStrings(tweetIDs)),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := make(map[uuid.UUID][]string)
	for rows.Next() {
		var id uuid.UUID
		var label string
		if err := rows.Scan(&id, &label); err != nil {
			return nil, err
		}
		labels[id] = append(labels[id], label)
	}
	return labels, rows.Err()
}

// Followees returns the ids the given user follows.
func (d *DB) Followees(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT followee_id FROM follows WHERE follower_id = $1", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// AddLike inserts a like; the primary key makes duplicate detection
// atomic, no read-then-write.
func (d *DB) AddLike(ctx context.Context, userID, tweetID uuid.UUID) error {
	res, err := d.sql.ExecContext(ctx,
		"INSERT INTO likes (user_id, tweet_id, created_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
		userID, tweetID, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrConflict
	}
	return nil
}

// RemoveLike deletes a like.
func (d *DB) RemoveLike(ctx context.Context, userID, tweetID uuid.UUID) error {
	res, err := d.sql.ExecContext(ctx,
		"DELETE FROM likes WHERE user_id = $1 AND tweet_id = $2", userID, tweetID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddFollow inserts a follow edge atomically.
func (d *DB) AddFollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	res, err := d.sql.ExecContext(ctx,
		"INSERT INTO follows (follower_id, followee_id, created_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
		followerID, followeeID, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrConflict
	}
	return nil
}

// RemoveFollow deletes a follow edge.
func (d *DB) RemoveFollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	res, err := d.sql.ExecContext(ctx,
		"DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2", followerID, followeeID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
