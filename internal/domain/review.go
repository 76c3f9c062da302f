package domain

import "time"

// Review is one review node as delivered by the feed.
type Review struct {
	Title      string
	Content    string
	URL        string
	User       ReviewUser
	TrustScore TrustScore
	CreatedAt  int64 // unix seconds
}

type ReviewUser struct {
	Name       string
	Locale     string
	IsVerified bool
}

// ReviewRecord is the public, flattened shape handed to callers.
type ReviewRecord struct {
	Title        string         `json:"title" yaml:"title"`
	Content      string         `json:"content" yaml:"content"`
	Name         string         `json:"name" yaml:"name"`
	URL          string         `json:"url" yaml:"url"`
	Language     string         `json:"language" yaml:"language"`
	IsVerified   bool           `json:"is_verified" yaml:"is_verified"`
	Score        float64        `json:"score" yaml:"score"`
	Stars        float64        `json:"stars" yaml:"stars"`
	ScoreValue   string         `json:"score_value" yaml:"score_value"`
	Timestamp    int64          `json:"timestamp" yaml:"timestamp"`
	RatingImages StarsImageURLs `json:"rating_images" yaml:"rating_images"`
}

func (r ReviewRecord) CreatedAt() time.Time { return time.Unix(r.Timestamp, 0).UTC() }
