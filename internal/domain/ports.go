package domain

import "context"

// FeedSource retrieves and decodes the review feed of one account.
type FeedSource interface {
	Fetch(ctx context.Context, accountKey string) (Dataset, error)
}
