package app

import "tpreviews/internal/domain"

func toRecord(r domain.Review) domain.ReviewRecord {
	return domain.ReviewRecord{
		Title:        r.Title,
		Content:      r.Content,
		Name:         r.User.Name,
		URL:          r.URL,
		Language:     r.User.Locale,
		IsVerified:   r.User.IsVerified,
		Score:        r.TrustScore.Score,
		Stars:        r.TrustScore.Stars,
		ScoreValue:   r.TrustScore.Human,
		Timestamp:    r.CreatedAt,
		RatingImages: r.TrustScore.ImageURLs,
	}
}
