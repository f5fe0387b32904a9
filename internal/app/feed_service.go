package app

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"microblog/internal/domain"
)

const maxBodyLen = 280

// FeedService composes viewer-scoped timelines and handles all tweet,
// like, follow and comment mutations.
type FeedService struct {
	users    domain.UserRepository
	tweets   domain.TweetRepository
	graph    domain.SocialGraphRepository
	comments domain.CommentRepository
}

// NewFeedService creates a feed service over the given ports.
func NewFeedService(
	users domain.UserRepository,
	tweets domain.TweetRepository,
	graph domain.SocialGraphRepository,
	comments domain.CommentRepository,
) *FeedService {
	return &FeedService{users: users, tweets: tweets, graph: graph, comments: comments}
}

// Timeline returns the viewer's own and their followees' tweets, newest
// first, enriched with like counts, liked-by-me flags and hashtags.
func (s *FeedService) Timeline(ctx context.Context, viewerID uuid.UUID) ([]domain.FeedItem, error) {
	followees, err := s.graph.Followees(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	authors := append(followees, viewerID)
	tweets, err := s.tweets.TweetsByAuthors(ctx, authors)
	if err != nil {
		return nil, err
	}

	return s.enrich(ctx, viewerID, tweets)
}

// Item returns a single tweet with the same enrichment as Timeline.
// An anonymous viewer (uuid.Nil) always sees likedByMe false.
func (s *FeedService) Item(ctx context.Context, tweetID, viewerID uuid.UUID) (*domain.FeedItem, error) {
	t, err := s.tweets.TweetByID(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}

	items, err := s.enrich(ctx, viewerID, []domain.Tweet{*t})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Post validates and persists a new tweet along with its hashtag labels.
func (s *FeedService) Post(ctx context.Context, viewerID uuid.UUID, body string) (*domain.FeedItem, error) {
	if err := validateBody(body); err != nil {
		return nil, err
	}

	t := &domain.Tweet{
		ID:        uuid.New(),
		AuthorID:  viewerID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	hashtags := domain.ExtractHashtags(body)
	if err := s.tweets.CreateTweet(ctx, t, hashtags); err != nil {
		return nil, err
	}

	return &domain.FeedItem{Tweet: *t, Hashtags: hashtags}, nil
}

// Delete removes a tweet. Only the author may delete it; dependent
// likes, comments and hashtag links go with it.
func (s *FeedService) Delete(ctx context.Context, viewerID, tweetID uuid.UUID) error {
	t, err := s.tweets.TweetByID(ctx, tweetID)
	if err != nil {
		return err
	}
	if t == nil {
		return domain.ErrNotFound
	}
	if t.AuthorID != viewerID {
		return ErrForbidden
	}
	return s.tweets.DeleteTweet(ctx, tweetID)
}

// Like records that the viewer liked a tweet.
func (s *FeedService) Like(ctx context.Context, viewerID, tweetID uuid.UUID) error {
	if err := s.requireTweet(ctx, tweetID); err != nil {
		return err
	}
	return s.graph.AddLike(ctx, viewerID, tweetID)
}

// Unlike removes the viewer's like from a tweet.
func (s *FeedService) Unlike(ctx context.Context, viewerID, tweetID uuid.UUID) error {
	if err := s.requireTweet(ctx, tweetID); err != nil {
		return err
	}
	return s.graph.RemoveLike(ctx, viewerID, tweetID)
}

// Follow creates a follow edge from follower to followee.
func (s *FeedService) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	if followerID == followeeID {
		return fmt.Errorf("%w: cannot follow yourself", ErrValidation)
	}
	followee, err := s.users.UserByID(ctx, followeeID)
	if err != nil {
		return err
	}
	if followee == nil {
		return domain.ErrNotFound
	}
	return s.graph.AddFollow(ctx, followerID, followeeID)
}

// Unfollow removes a follow edge.
func (s *FeedService) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return s.graph.RemoveFollow(ctx, followerID, followeeID)
}

// Comment attaches a reply to a tweet.
func (s *FeedService) Comment(ctx context.Context, viewerID, tweetID uuid.UUID, body string) (*domain.Comment, error) {
	if err := validateBody(body); err != nil {
		return nil, err
	}
	if err := s.requireTweet(ctx, tweetID); err != nil {
		return nil, err
	}

	c := &domain.Comment{
		ID:        uuid.New(),
		TweetID:   tweetID,
		AuthorID:  viewerID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.comments.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteComment removes a comment. Only the author may delete it.
func (s *FeedService) DeleteComment(ctx context.Context, viewerID, commentID uuid.UUID) error {
	c, err := s.comments.CommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	if c.AuthorID != viewerID {
		return ErrForbidden
	}
	return s.comments.DeleteComment(ctx, commentID)
}

// Comments lists a tweet's comments oldest first.
func (s *FeedService) Comments(ctx context.Context, tweetID uuid.UUID) ([]domain.Comment, error) {
	if err := s.requireTweet(ctx, tweetID); err != nil {
		return nil, err
	}
	comments, err := s.comments.CommentsByTweet(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		// Callers serialize the result; an empty list, not null.
		comments = []domain.Comment{}
	}
	return comments, nil
}

// enrich attaches the derived per-viewer attributes to a batch of tweets
// with one graph query per attribute, regardless of batch size.
func (s *FeedService) enrich(ctx context.Context, viewerID uuid.UUID, tweets []domain.Tweet) ([]domain.FeedItem, error) {
	items := make([]domain.FeedItem, 0, len(tweets))
	if len(tweets) == 0 {
		return items, nil
	}

	ids := make([]uuid.UUID, len(tweets))
	for i, t := range tweets {
		ids[i] = t.ID
	}

	counts, err := s.graph.LikeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	hashtags, err := s.graph.HashtagsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	var liked map[uuid.UUID]bool
	if viewerID != uuid.Nil {
		liked, err = s.graph.LikedBy(ctx, viewerID, ids)
		if err != nil {
			return nil, err
		}
	}

	for _, t := range tweets {
		items = append(items, domain.FeedItem{
			Tweet:     t,
			Hashtags:  hashtags[t.ID],
			LikeCount: counts[t.ID],
			LikedByMe: liked[t.ID],
		})
	}
	return items, nil
}

func (s *FeedService) requireTweet(ctx context.Context, tweetID uuid.UUID) error {
	t, err := s.tweets.TweetByID(ctx, tweetID)
	if err != nil {
		return err
	}
	if t == nil {
		return domain.ErrNotFound
	}
	return nil
}

func validateBody(body string) error {
	if n := utf8.RuneCountInString(body); n == 0 || n > maxBodyLen {
		return fmt.Errorf("%w: body must be between 1 and %d characters", ErrValidation, maxBodyLen)
	}
	return nil
}
