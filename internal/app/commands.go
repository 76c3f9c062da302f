package app

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog/log"

	"tpreviews/internal/domain"
)

// ReviewClient answers rating and review queries for one account. The
// dataset is loaded once by NewReviewClient and never changes afterwards, so
// a ReviewClient is safe for concurrent readers.
type ReviewClient struct {
	key  string
	ds   domain.Dataset
	intn func(n int) int
}

type Option func(*ReviewClient)

// WithRandom sets the source used by RandomReview. intn must return a value
// in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(c *ReviewClient) {
		if intn != nil {
			c.intn = intn
		}
	}
}

// NewReviewClient loads the feed for accountKey from src. Any retrieval,
// decompression or parse failure is returned and no client is built.
func NewReviewClient(ctx context.Context, src domain.FeedSource, accountKey string, opts ...Option) (*ReviewClient, error) {
	if src == nil {
		return nil, fmt.Errorf("feed source is required")
	}
	ds, err := src.Fetch(ctx, accountKey)
	if err != nil {
		return nil, fmt.Errorf("load reviews for %s: %w", accountKey, err)
	}
	c := NewReviewClientFromDataset(accountKey, ds, opts...)
	log.Info().
		Str("account_key", accountKey).
		Float64("score", ds.TrustScore.Score).
		Int("reviews", len(ds.Reviews)).
		Msg("review client ready")
	return c, nil
}

// NewReviewClientFromDataset wraps an already decoded dataset. The client
// keeps its own copy of the review slice.
func NewReviewClientFromDataset(accountKey string, ds domain.Dataset, opts ...Option) *ReviewClient {
	ds.Reviews = append([]domain.Review(nil), ds.Reviews...)
	c := &ReviewClient{key: accountKey, ds: ds, intn: rand.IntN}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *ReviewClient) AccountKey() string { return c.key }

// Dataset returns a copy of the loaded dataset.
func (c *ReviewClient) Dataset() domain.Dataset {
	out := c.ds
	out.Reviews = append([]domain.Review(nil), c.ds.Reviews...)
	return out
}
