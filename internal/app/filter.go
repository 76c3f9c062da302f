package app

import "tpreviews/internal/domain"

// AnyLocale disables locale filtering.
const AnyLocale = "any"

// Filter selects reviews by minimum score and reviewer locale. The zero
// value matches every review: an empty Locale is read as AnyLocale, so
// there is no way to select only reviews whose locale is empty.
//
// By default the match is (score >= MinimumRating && locale == Locale) ||
// Locale == "any", so with Locale "any" the minimum is not applied at all.
// Existing consumers rely on that; set Strict to apply the minimum in every
// case.
type Filter struct {
	MinimumRating float64
	Locale        string
	Strict        bool
}

func (f Filter) locale() string {
	if f.Locale == "" {
		return AnyLocale
	}
	return f.Locale
}

func (f Filter) Match(r domain.Review) bool {
	loc := f.locale()
	if f.Strict {
		return r.TrustScore.Score >= f.MinimumRating && (r.User.Locale == loc || loc == AnyLocale)
	}
	return (r.TrustScore.Score >= f.MinimumRating && r.User.Locale == loc) || loc == AnyLocale
}
