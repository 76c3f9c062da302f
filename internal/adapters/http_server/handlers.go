// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tpreviews/internal/app"
	"tpreviews/internal/domain"
)

// Handlers serves the read-only queries of one loaded ReviewClient.
type Handlers struct{ C *app.ReviewClient }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type ratingResponse struct {
	AccountKey    string  `json:"account_key"`
	Score         float64 `json:"score"`
	Stars         float64 `json:"stars"`
	Label         string  `json:"label"`
	ReviewCount   int     `json:"review_count"`
	ReviewPageURL string  `json:"review_page_url"`
}

type imageResponse struct {
	Size string `json:"size"`
	URL  string `json:"url"`
}

type reviewsResponse struct {
	Items []domain.ReviewRecord `json:"items"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/rating", h.getRating)
	s.mux.Get("/v1/rating/images/{size}", h.getRatingImage)
	s.mux.Get("/v1/reviews", h.listReviews)
	s.mux.Get("/v1/reviews/first", h.firstReview)
	s.mux.Get("/v1/reviews/random", h.randomReview)
	s.mux.Get("/v1/reviews/distribution", h.distribution)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached writes v as JSON with an ETag, answering 304 when the client
// already holds it. The dataset never changes, so ETags stay valid for the
// life of the process.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); etag != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// parseFilter reads min, locale and strict from the query string.
func parseFilter(r *http.Request) (app.Filter, bool) {
	q := r.URL.Query()
	f := app.Filter{Locale: q.Get("locale")}
	if ms := q.Get("min"); ms != "" {
		m, err := strconv.ParseFloat(ms, 64)
		if err != nil || m < 0 || m > 100 {
			return f, false
		}
		f.MinimumRating = m
	}
	if ss := q.Get("strict"); ss != "" {
		b, err := strconv.ParseBool(ss)
		if err != nil {
			return f, false
		}
		f.Strict = b
	}
	return f, true
}

func (h *Handlers) getRating(w http.ResponseWriter, r *http.Request) {
	writeCached(w, r, ratingResponse{
		AccountKey:    h.C.AccountKey(),
		Score:         h.C.RatingScore(),
		Stars:         h.C.RatingStars(),
		Label:         h.C.RatingString(),
		ReviewCount:   h.C.ReviewCount(),
		ReviewPageURL: h.C.ReviewPageURL(),
	})
}

func (h *Handlers) getRatingImage(w http.ResponseWriter, r *http.Request) {
	size := chi.URLParam(r, "size")
	u, ok := h.C.RatingImage(domain.ImageSize(size))
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "size must be small, medium or large")
		return
	}
	writeCached(w, r, imageResponse{Size: size, URL: u})
}

func (h *Handlers) distribution(w http.ResponseWriter, r *http.Request) {
	// JSON object keys are strings; "1".."5"
	out := make(map[string]int, 5)
	for stars, n := range h.C.ReviewStarDistribution() {
		out[strconv.Itoa(stars)] = n
	}
	writeCached(w, r, out)
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	f, ok := parseFilter(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid filter", "min must be a number between 0 and 100, strict a boolean")
		return
	}
	items, ok := h.C.AllReviews(f)
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "no review matches the filter")
		return
	}
	writeCached(w, r, reviewsResponse{Items: items})
}

func (h *Handlers) firstReview(w http.ResponseWriter, r *http.Request) {
	f, ok := parseFilter(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid filter", "min must be a number between 0 and 100, strict a boolean")
		return
	}
	rv, ok := h.C.FirstReview(f)
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "no review matches the filter")
		return
	}
	writeCached(w, r, rv)
}

// randomReview is never cached: every call may pick a different review.
func (h *Handlers) randomReview(w http.ResponseWriter, r *http.Request) {
	f, ok := parseFilter(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid filter", "min must be a number between 0 and 100, strict a boolean")
		return
	}
	rv, ok := h.C.RandomReview(f)
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "no review matches the filter")
		return
	}
	writeJSON(w, r, rv)
}
