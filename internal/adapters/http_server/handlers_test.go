package httpserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	server "tpreviews/internal/adapters/http_server"
	"tpreviews/internal/app"
	"tpreviews/internal/domain"
)

func testDataset() domain.Dataset {
	rv := func(title, locale string, score float64) domain.Review {
		return domain.Review{
			Title:      title,
			User:       domain.ReviewUser{Name: "u" + title, Locale: locale},
			TrustScore: domain.TrustScore{Score: score, Stars: score / 20},
			CreatedAt:  1500000000,
		}
	}
	return domain.Dataset{
		TrustScore: domain.TrustScore{
			Score: 91, Stars: 4.5, Human: "Excellent",
			ImageURLs: domain.StarsImageURLs{Small: "s.png", Medium: "m.png", Large: "l.png"},
		},
		ReviewCount:   domain.ReviewCount{Total: 42, DistributionOverStars: [5]int{1, 2, 3, 4, 32}},
		ReviewPageURL: "https://www.trustpilot.com/review/example.com",
		Reviews: []domain.Review{
			rv("a", "en-GB", 100),
			rv("b", "da-DK", 20),
			rv("c", "en-GB", 40),
		},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c := app.NewReviewClientFromDataset("1234567", testDataset())
	srv := server.New()
	srv.MountHandlers(&server.Handlers{C: c})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string, hdr map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func TestRating_AndETag(t *testing.T) {
	ts := newTestServer(t)

	res := get(t, ts.URL+"/v1/rating", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	var body struct {
		AccountKey  string  `json:"account_key"`
		Score       float64 `json:"score"`
		Stars       float64 `json:"stars"`
		Label       string  `json:"label"`
		ReviewCount int     `json:"review_count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.AccountKey != "1234567" || body.Score != 91 || body.Stars != 4.5 || body.Label != "Excellent" || body.ReviewCount != 42 {
		t.Fatalf("unexpected body: %+v", body)
	}

	etag := res.Header.Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag")
	}
	res2 := get(t, ts.URL+"/v1/rating", map[string]string{"If-None-Match": etag})
	if res2.StatusCode != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", res2.StatusCode)
	}
}

func TestRatingImage(t *testing.T) {
	ts := newTestServer(t)

	res := get(t, ts.URL+"/v1/rating/images/medium", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	var body struct {
		Size string `json:"size"`
		URL  string `json:"url"`
	}
	_ = json.NewDecoder(res.Body).Decode(&body)
	if body.Size != "medium" || body.URL != "m.png" {
		t.Fatalf("unexpected body: %+v", body)
	}

	res = get(t, ts.URL+"/v1/rating/images/huge", nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown size, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("expected problem json, got %q", ct)
	}
}

func TestDistribution(t *testing.T) {
	ts := newTestServer(t)
	res := get(t, ts.URL+"/v1/reviews/distribution", nil)
	var body map[string]int
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]int{"1": 1, "2": 2, "3": 3, "4": 4, "5": 32}
	if len(body) != 5 {
		t.Fatalf("expected 5 buckets, got %v", body)
	}
	for k, v := range want {
		if body[k] != v {
			t.Fatalf("bucket %s: got %d want %d", k, body[k], v)
		}
	}
}

func TestListReviews_Filters(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		query  string
		status int
		count  int
	}{
		{"", 200, 3},
		{"?min=90", 200, 3}, // locale defaults to any, minimum not applied
		{"?min=90&strict=true", 200, 1},
		{"?min=30&locale=en-GB", 200, 2},
		{"?min=30&locale=da-DK", 404, 0},
		{"?min=abc", 400, 0},
		{"?min=101", 400, 0},
		{"?strict=maybe", 400, 0},
	}
	for _, tc := range cases {
		res := get(t, ts.URL+"/v1/reviews"+tc.query, nil)
		if res.StatusCode != tc.status {
			t.Fatalf("%q: status %d want %d", tc.query, res.StatusCode, tc.status)
		}
		if tc.status != 200 {
			continue
		}
		var body struct {
			Items []domain.ReviewRecord `json:"items"`
		}
		if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
			t.Fatalf("%q: decode: %v", tc.query, err)
		}
		if len(body.Items) != tc.count {
			t.Fatalf("%q: got %d items want %d", tc.query, len(body.Items), tc.count)
		}
	}
}

func TestFirstAndRandomReview(t *testing.T) {
	ts := newTestServer(t)

	res := get(t, ts.URL+"/v1/reviews/first?locale=da-DK", nil)
	var rv domain.ReviewRecord
	if err := json.NewDecoder(res.Body).Decode(&rv); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rv.Title != "b" || rv.Language != "da-DK" || rv.Timestamp != 1500000000 {
		t.Fatalf("unexpected first review: %+v", rv)
	}

	res = get(t, ts.URL+"/v1/reviews/random?min=50&locale=en-GB", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	if res.Header.Get("ETag") != "" {
		t.Fatalf("random review must not carry an ETag")
	}
	rv = domain.ReviewRecord{}
	_ = json.NewDecoder(res.Body).Decode(&rv)
	if rv.Title != "a" {
		t.Fatalf("only review a matches, got %+v", rv)
	}

	res = get(t, ts.URL+"/v1/reviews/random?locale=fr-FR", nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	if res := get(t, ts.URL+"/healthz", nil); res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
}

func TestReadOnlyRouting(t *testing.T) {
	ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodHead, ts.URL+"/v1/rating", nil)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("HEAD: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK || res.Header.Get("ETag") == "" {
		t.Fatalf("HEAD: status %d, etag %q", res.StatusCode, res.Header.Get("ETag"))
	}

	res, err = http.Post(ts.URL+"/v1/reviews", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("POST: expected 405, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("POST: expected problem json, got %q", ct)
	}
	if allow := res.Header.Get("Allow"); allow != "GET, HEAD" {
		t.Fatalf("POST: unexpected Allow %q", allow)
	}

	res = get(t, ts.URL+"/v2/nothing", nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
	var p struct {
		Status int    `json:"status"`
		Title  string `json:"title"`
	}
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if p.Status != http.StatusNotFound || p.Title != "Not Found" {
		t.Fatalf("unexpected problem: %+v", p)
	}
}
