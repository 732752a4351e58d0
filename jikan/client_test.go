package jikan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rushteam/anirec/core"
)

const animeJSON = `{
  "data": {
    "mal_id": 1535,
    "title": "Death Note",
    "title_english": "Death Note",
    "score": 8.62,
    "scored_by": 2800000,
    "rank": 80,
    "popularity": 2,
    "members": 4000000,
    "favorites": 170000,
    "synopsis": "A shinigami drops a notebook.",
    "episodes": 37,
    "rating": "R - 17+ (violence & profanity)",
    "year": 2006,
    "genres": [{"name": "Supernatural"}, {"name": "Suspense"}],
    "themes": [{"name": "Psychological"}],
    "demographics": [{"name": "Shounen"}],
    "studios": [{"name": "Madhouse"}],
    "aired": {"string": "Oct 4, 2006 to Jun 27, 2007"},
    "images": {"jpg": {"image_url": "small.jpg", "large_image_url": "large.jpg"}}
  }
}`

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient(
		WithBaseURL(srv.URL),
		WithDelay(0),
		WithHTTPClient(srv.Client()),
	)
	return c, srv
}

func TestClient_GetByID(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/anime/1535" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(animeJSON))
	})
	defer srv.Close()

	a, err := c.GetByID(context.Background(), 1535)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if a.MALID != 1535 || a.Title != "Death Note" {
		t.Fatalf("unexpected anime: %+v", a)
	}

	// genres + themes + demographics 合并为一个类型列表
	wantGenres := []string{"Supernatural", "Suspense", "Psychological", "Shounen"}
	if len(a.Genres) != len(wantGenres) {
		t.Fatalf("Genres = %v, want %v", a.Genres, wantGenres)
	}
	for i, g := range wantGenres {
		if a.Genres[i] != g {
			t.Fatalf("Genres[%d] = %q, want %q", i, a.Genres[i], g)
		}
	}

	if a.ImageURL != "large.jpg" {
		t.Fatalf("ImageURL = %q, want large image preferred", a.ImageURL)
	}
	if a.Aired != "Oct 4, 2006 to Jun 27, 2007" {
		t.Fatalf("Aired = %q", a.Aired)
	}
}

func TestClient_GetByID_UpstreamFailure(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer srv.Close()

	_, err := c.GetByID(context.Background(), 1)
	if !core.IsNotFound(err) {
		t.Fatalf("GetByID on upstream failure = %v, want NOT_FOUND", err)
	}
}

func TestClient_Search_FailureFoldsToEmpty(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer srv.Close()

	animes, err := c.Search(context.Background(), "mystery anime", 10)
	if err != nil {
		t.Fatalf("Search must fold failures to empty, got error: %v", err)
	}
	if len(animes) != 0 {
		t.Fatalf("Search on failure = %d results, want 0", len(animes))
	}
}

func TestClient_Search_LimitClamped(t *testing.T) {
	var gotLimit string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"data": []}`))
	})
	defer srv.Close()

	tests := []struct {
		limit int
		want  string
	}{
		{limit: 100, want: "25"},
		{limit: 0, want: "25"},
		{limit: -1, want: "25"},
		{limit: 10, want: "10"},
	}
	for _, tt := range tests {
		if _, err := c.Search(context.Background(), "anime", tt.limit); err != nil {
			t.Fatalf("Search: %v", err)
		}
		if gotLimit != tt.want {
			t.Fatalf("limit %d sent as %q, want %q", tt.limit, gotLimit, tt.want)
		}
	}
}

func TestClient_Top(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/top/anime" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"data": [
			{"mal_id": 5114, "title": "Fullmetal Alchemist: Brotherhood", "score": 9.1},
			{"mal_id": 9253, "title": "Steins;Gate", "score": 9.07}
		]}`))
	})
	defer srv.Close()

	animes, err := c.Top(context.Background(), 2)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(animes) != 2 || animes[0].MALID != 5114 {
		t.Fatalf("Top order not preserved: %+v", animes)
	}
}

func TestLimiter_SpacesRequests(t *testing.T) {
	delay := 30 * time.Millisecond
	lim := NewLimiter(delay)

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := lim.Wait(context.Background()); err != nil {
				t.Errorf("Wait: %v", err)
			}
		}()
	}
	wg.Wait()

	// 3 次调用共享同一个时钟，至少要跨 2 个间隔
	if elapsed := time.Since(start); elapsed < 2*delay {
		t.Fatalf("3 concurrent waits finished in %v, want >= %v", elapsed, 2*delay)
	}
}

func TestLimiter_CancelledContext(t *testing.T) {
	lim := NewLimiter(time.Minute)
	if err := lim.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := lim.Wait(ctx); err == nil {
		t.Fatal("Wait with cancelled context must return error")
	}
}
