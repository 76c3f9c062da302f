package trustpilot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"tpreviews/internal/domain"
)

var gzipMagic = []byte{0x1f, 0x8b}

// payloadLimit normalises a size cap. Readers take limit+1 bytes to detect an
// overrun, so the cap stays below math.MaxInt64.
func payloadLimit(n int64) int64 {
	switch {
	case n <= 0:
		return DefaultMaxPayload
	case n == math.MaxInt64:
		return n - 1
	}
	return n
}

// Decompress inflates a feed body. gzip is the primary format; anything that
// does not open as gzip is retried as a zlib stream. limit bounds the
// decompressed size (<= 0 means DefaultMaxPayload).
func Decompress(b []byte, limit int64) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty payload", domain.ErrDecompression)
	}
	limit = payloadLimit(limit)

	var (
		r   io.ReadCloser
		err error
	)
	if bytes.HasPrefix(b, gzipMagic) {
		var gr *gzip.Reader
		if gr, err = gzip.NewReader(bytes.NewReader(b)); err == nil {
			r = gr
		}
	}
	if r == nil {
		// legacy feeds were served as bare zlib
		zr, zerr := zlib.NewReader(bytes.NewReader(b))
		if zerr != nil {
			if err != nil {
				return nil, fmt.Errorf("%w: gzip: %v; zlib: %v", domain.ErrDecompression, err, zerr)
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrDecompression, zerr)
		}
		r = zr
	}
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecompression, err)
	}
	if int64(len(out)) > limit {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", domain.ErrDecompression, limit)
	}
	return out, nil
}

// ---- wire shape ----

type wireImages struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

type wireTrustScore struct {
	Score          *float64    `json:"Score"`
	Stars          *float64    `json:"Stars"`
	Human          string      `json:"Human"`
	StarsImageUrls *wireImages `json:"StarsImageUrls"`
}

type wireReviewCount struct {
	Total                 *int  `json:"Total"`
	DistributionOverStars []int `json:"DistributionOverStars"`
}

type wireUser struct {
	Name       string `json:"Name"`
	Locale     string `json:"Locale"`
	IsVerified bool   `json:"IsVerified"`
}

type wireReview struct {
	Title      string          `json:"Title"`
	Content    string          `json:"Content"`
	Url        string          `json:"Url"`
	User       *wireUser       `json:"User"`
	TrustScore *wireTrustScore `json:"TrustScore"`
	Created    struct {
		UnixTime int64 `json:"UnixTime"`
	} `json:"Created"`
}

type wireFeed struct {
	TrustScore    *wireTrustScore  `json:"TrustScore"`
	ReviewCount   *wireReviewCount `json:"ReviewCount"`
	ReviewPageUrl string           `json:"ReviewPageUrl"`
	Reviews       []wireReview     `json:"Reviews"`
}

// Parse decodes a feed document and validates its shape. Any mismatch is
// reported as domain.ErrParse; nothing partial is returned.
func Parse(doc []byte) (domain.Dataset, error) {
	var f wireFeed
	if err := json.Unmarshal(doc, &f); err != nil {
		return domain.Dataset{}, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	ts, err := mapTrustScore(f.TrustScore, "TrustScore")
	if err != nil {
		return domain.Dataset{}, err
	}
	rc, err := mapReviewCount(f.ReviewCount)
	if err != nil {
		return domain.Dataset{}, err
	}

	reviews := make([]domain.Review, 0, len(f.Reviews))
	for i, wr := range f.Reviews {
		if wr.User == nil {
			return domain.Dataset{}, fmt.Errorf("%w: Reviews[%d].User missing", domain.ErrParse, i)
		}
		rts, err := mapTrustScore(wr.TrustScore, fmt.Sprintf("Reviews[%d].TrustScore", i))
		if err != nil {
			return domain.Dataset{}, err
		}
		reviews = append(reviews, domain.Review{
			Title:   wr.Title,
			Content: wr.Content,
			URL:     wr.Url,
			User: domain.ReviewUser{
				Name:       wr.User.Name,
				Locale:     wr.User.Locale,
				IsVerified: wr.User.IsVerified,
			},
			TrustScore: rts,
			CreatedAt:  wr.Created.UnixTime,
		})
	}

	return domain.Dataset{
		TrustScore:    ts,
		ReviewCount:   rc,
		ReviewPageURL: f.ReviewPageUrl,
		Reviews:       reviews,
	}, nil
}

func mapTrustScore(w *wireTrustScore, path string) (domain.TrustScore, error) {
	switch {
	case w == nil:
		return domain.TrustScore{}, fmt.Errorf("%w: %s missing", domain.ErrParse, path)
	case w.Score == nil || *w.Score < 0 || *w.Score > 100:
		return domain.TrustScore{}, fmt.Errorf("%w: %s.Score missing or outside 0..100", domain.ErrParse, path)
	case w.Stars == nil || *w.Stars < 0 || *w.Stars > 5:
		return domain.TrustScore{}, fmt.Errorf("%w: %s.Stars missing or outside 0..5", domain.ErrParse, path)
	}
	ts := domain.TrustScore{Score: *w.Score, Stars: *w.Stars, Human: w.Human}
	if w.StarsImageUrls != nil {
		ts.ImageURLs = domain.StarsImageURLs{
			Small:  w.StarsImageUrls.Small,
			Medium: w.StarsImageUrls.Medium,
			Large:  w.StarsImageUrls.Large,
		}
	}
	return ts, nil
}

func mapReviewCount(w *wireReviewCount) (domain.ReviewCount, error) {
	if w == nil || w.Total == nil {
		return domain.ReviewCount{}, fmt.Errorf("%w: ReviewCount.Total missing", domain.ErrParse)
	}
	if *w.Total < 0 {
		return domain.ReviewCount{}, fmt.Errorf("%w: ReviewCount.Total negative", domain.ErrParse)
	}
	if len(w.DistributionOverStars) != 5 {
		return domain.ReviewCount{}, fmt.Errorf("%w: ReviewCount.DistributionOverStars has %d buckets, want 5",
			domain.ErrParse, len(w.DistributionOverStars))
	}
	rc := domain.ReviewCount{Total: *w.Total}
	for i, n := range w.DistributionOverStars {
		if n < 0 {
			return domain.ReviewCount{}, fmt.Errorf("%w: ReviewCount.DistributionOverStars[%d] negative", domain.ErrParse, i)
		}
		rc.DistributionOverStars[i] = n
	}
	return rc, nil
}
