package app

import "tpreviews/internal/domain"

// RatingScore is the overall score, 0..100.
func (c *ReviewClient) RatingScore() float64 { return c.ds.TrustScore.Score }

// RatingStars is the overall star rating, 0..5.
func (c *ReviewClient) RatingStars() float64 { return c.ds.TrustScore.Stars }

// RatingString is the human label, e.g. "Excellent".
func (c *ReviewClient) RatingString() string { return c.ds.TrustScore.Human }

// RatingImage returns the star image for small, medium or large. Any other
// size reports false.
func (c *ReviewClient) RatingImage(size domain.ImageSize) (string, bool) {
	return c.ds.TrustScore.ImageURLs.URL(size)
}

func (c *ReviewClient) ReviewCount() int { return c.ds.ReviewCount.Total }

// ReviewStarDistribution maps star level 1..5 to its review count.
func (c *ReviewClient) ReviewStarDistribution() map[int]int {
	out := make(map[int]int, len(c.ds.ReviewCount.DistributionOverStars))
	for i, n := range c.ds.ReviewCount.DistributionOverStars {
		out[i+1] = n
	}
	return out
}

func (c *ReviewClient) ReviewPageURL() string { return c.ds.ReviewPageURL }

// AllReviews returns the matching reviews in feed order, or false when none match.
func (c *ReviewClient) AllReviews(f Filter) ([]domain.ReviewRecord, bool) {
	var out []domain.ReviewRecord
	for _, r := range c.ds.Reviews {
		if f.Match(r) {
			out = append(out, toRecord(r))
		}
	}
	return out, len(out) > 0
}

// FirstReview returns the earliest matching review in feed order.
func (c *ReviewClient) FirstReview(f Filter) (domain.ReviewRecord, bool) {
	for _, r := range c.ds.Reviews {
		if f.Match(r) {
			return toRecord(r), true
		}
	}
	return domain.ReviewRecord{}, false
}

// RandomReview picks one matching review uniformly at random. It samples a
// single pass over the reviews (reservoir of one) and leaves their order alone.
func (c *ReviewClient) RandomReview(f Filter) (domain.ReviewRecord, bool) {
	var (
		pick domain.Review
		seen int
	)
	for _, r := range c.ds.Reviews {
		if !f.Match(r) {
			continue
		}
		seen++
		if c.intn(seen) == 0 {
			pick = r
		}
	}
	if seen == 0 {
		return domain.ReviewRecord{}, false
	}
	return toRecord(pick), true
}
