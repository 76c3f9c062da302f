package domain

// Dataset is the parsed tpelements feed for one account.
type Dataset struct {
	TrustScore    TrustScore
	ReviewCount   ReviewCount
	ReviewPageURL string
	Reviews       []Review
}

type TrustScore struct {
	Score     float64 // 0..100
	Stars     float64 // 0..5, may be fractional (4.5)
	Human     string  // e.g. "Excellent"
	ImageURLs StarsImageURLs
}

type StarsImageURLs struct {
	Small  string `json:"small" yaml:"small"`
	Medium string `json:"medium" yaml:"medium"`
	Large  string `json:"large" yaml:"large"`
}

type ImageSize string

const (
	ImageSmall  ImageSize = "small"
	ImageMedium ImageSize = "medium"
	ImageLarge  ImageSize = "large"
)

// URL returns the image for size. Unknown sizes, including "", report false.
func (u StarsImageURLs) URL(size ImageSize) (string, bool) {
	switch size {
	case ImageSmall:
		return u.Small, true
	case ImageMedium:
		return u.Medium, true
	case ImageLarge:
		return u.Large, true
	default:
		return "", false
	}
}

type ReviewCount struct {
	Total int
	// DistributionOverStars[0] is the 1-star bucket, [4] the 5-star bucket.
	DistributionOverStars [5]int
}
