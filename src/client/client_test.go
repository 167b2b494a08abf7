package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	movies "movieexplorer/src/modules/movies/models"
)

func newTestClient(t *testing.T, h http.Handler, cache Cache) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL + "/", Timeout: 2 * time.Second, Cache: cache})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListMoviesGenreParams(t *testing.T) {
	tests := []struct {
		name      string
		genre     string
		wantGenre string
		hasGenre  bool
	}{
		{"specific genre", "Action", "Action", true},
		{"empty genre omitted", "", "", false},
		{"blank genre omitted", "   ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery atomic.Value
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery.Store(r.URL.Query())
				writeJSON(w, http.StatusOK, map[string]any{
					"movies":     []map[string]any{{"id": 1, "title": "Heat"}},
					"pagination": map[string]any{"total_pages": 4},
				})
			}), nil)

			res, err := c.ListMovies(context.Background(), tt.genre, 2, 10)
			if err != nil {
				t.Fatalf("ListMovies: %v", err)
			}
			q := gotQuery.Load().(url.Values)
			if got := q.Get("genre"); got != tt.wantGenre {
				t.Errorf("genre param = %q, want %q", got, tt.wantGenre)
			}
			if q.Get("page") != "2" || q.Get("per_page") != "10" {
				t.Errorf("paging params = page %q per_page %q", q.Get("page"), q.Get("per_page"))
			}
			if res.TotalPages != 4 {
				t.Errorf("TotalPages = %d, want 4", res.TotalPages)
			}
			if len(res.Movies) != 1 || res.Movies[0].Title != "Heat" {
				t.Errorf("Movies = %+v", res.Movies)
			}
		})
	}
}

func TestListMoviesMissingPaginationCountsAsOnePage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "title": "Heat"}})
	}), nil)

	res, err := c.ListMovies(context.Background(), "", 1, 10)
	if err != nil {
		t.Fatalf("ListMovies: %v", err)
	}
	if res.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", res.TotalPages)
	}
}

func TestListMoviesFailureReturnsEmptySet(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "database down"})
	}), nil)

	res, err := c.ListMovies(context.Background(), "Action", 1, 10)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %T is not *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Message != "database down" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if res.Movies == nil || len(res.Movies) != 0 || res.TotalPages != 0 {
		t.Errorf("result = %+v, want empty list and zero pages", res)
	}
}

func TestNormalizationDefaults(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"movies":[
			{"id":"7","rating":"8.5","release_year":"1999","duration":"136","premium":"true"},
			{"id":8,"title":"Alien","image":"http://img/alien.jpg","desc":"In space","languages":["English","French"]}
		]}`)
	}), nil)

	got, err := c.SearchMovies(context.Background(), "x")
	if err != nil {
		t.Fatalf("SearchMovies: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	first := got[0]
	if first.ID != 7 || first.Rating != 8.5 || first.ReleaseYear != 1999 || first.DurationMinutes != 136 || !first.Premium {
		t.Errorf("coerced numbers wrong: %+v", first)
	}
	if first.Title != movies.UnknownTitle || first.Description != movies.NoDescription || first.Director != movies.NotAvailable {
		t.Errorf("text defaults wrong: %+v", first)
	}
	if first.PosterURL != movies.PlaceholderPoster || first.BannerURL != movies.PlaceholderPoster {
		t.Errorf("image defaults wrong: %+v", first)
	}
	second := got[1]
	if second.PosterURL != "http://img/alien.jpg" || second.BannerURL != "http://img/alien.jpg" || second.Description != "In space" {
		t.Errorf("alternate fields ignored: %+v", second)
	}
}

func TestGetMovieUnwrapsEnvelope(t *testing.T) {
	bodies := map[string]string{
		"movie": `{"movie":{"id":3,"title":"Up","duration":96,"languages":["English","Hindi"]}}`,
		"data":  `{"data":{"id":3,"title":"Up","duration":96,"languages":"English, Hindi"}}`,
		"root":  `{"id":3,"title":"Up","duration":96,"languages":["English","Hindi"]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "Bearer tok" {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				io.WriteString(w, body)
			}), nil)
			d, err := c.GetMovie(context.Background(), "tok", 3)
			if err != nil {
				t.Fatalf("GetMovie: %v", err)
			}
			if d.Title != "Up" || d.DurationLabel != "96 min" || d.Languages != "English, Hindi" || d.Subtitles != movies.NotAvailable {
				t.Errorf("detail = %+v", d)
			}
		})
	}
}

func TestGetMovieWithoutToken(t *testing.T) {
	c := New(Options{BaseURL: "http://127.0.0.1:1"})
	if _, err := c.GetMovie(context.Background(), "", 1); !errors.Is(err, ErrNoToken) {
		t.Errorf("err = %v, want ErrNoToken", err)
	}
}

func TestTransportErrorMapsToBadGateway(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(Options{BaseURL: base, Timeout: time.Second})
	_, err := c.SearchMovies(context.Background(), "x")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.HTTPStatus() != http.StatusBadGateway || apiErr.Err == nil {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/sign_in" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var body struct {
			User struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			} `json:"user"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.User.Password != "secret12!" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": "abc", "id": 5, "name": "Ann", "email": body.User.Email})
	}), nil)

	res, err := c.Login(context.Background(), "ann@example.com", "secret12!")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token != "abc" || res.User.Role != "user" || res.User.ID != 5 {
		t.Errorf("result = %+v", res)
	}
	if !strings.Contains(string(res.Raw), `"ann@example.com"`) {
		t.Errorf("raw profile = %s", res.Raw)
	}

	_, err = c.Login(context.Background(), "ann@example.com", "wrong")
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("err = %v, want 401", err)
	}
	var apiErr *APIError
	errors.As(err, &apiErr)
	if apiErr.UserMessage() != "Invalid email or password" {
		t.Errorf("message = %q", apiErr.UserMessage())
	}
}

func TestCurrentUserSendsBearer(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/current_user" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer abc" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Not authorized"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "5", "name": "Ann Lee", "email": "ann@example.com", "role": "supervisor"})
	}), nil)

	u, err := c.CurrentUser(context.Background(), "abc")
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if u.ID != 5 || u.Name != "Ann Lee" || u.Role != "supervisor" {
		t.Errorf("user = %+v", u)
	}
	if _, err := c.CurrentUser(context.Background(), "stale"); !IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("stale token err = %v, want 401", err)
	}
	if _, err := c.CurrentUser(context.Background(), ""); !errors.Is(err, ErrNoToken) {
		t.Errorf("empty token err = %v", err)
	}
}

func TestCreateSubscriptionCheckoutURL(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr string
	}{
		{"top level", `{"checkoutUrl":"https://pay/1"}`, "https://pay/1", ""},
		{"nested data", `{"data":{"checkoutUrl":"https://pay/2"}}`, "https://pay/2", ""},
		{"url field", `{"url":"https://pay/3"}`, "https://pay/3", ""},
		{"error field", `{"error":"Already subscribed"}`, "", "Already subscribed"},
		{"nothing", `{}`, "", "No checkout URL returned from server."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			}), nil)
			got, err := c.CreateSubscription(context.Background(), "tok", "1_month")
			if tt.wantErr != "" {
				var apiErr *APIError
				if !errors.As(err, &apiErr) || apiErr.Message != tt.wantErr {
					t.Fatalf("err = %v, want message %q", err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("got %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestVerifySubscriptionSendsSessionID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("session_id") != "cs_123" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		io.WriteString(w, `{"plan_type":"premium"}`)
	}), nil)
	v, err := c.VerifySubscription(context.Background(), "tok", "cs_123")
	if err != nil {
		t.Fatalf("VerifySubscription: %v", err)
	}
	if v.PlanType != "premium" || v.Message != "Subscription Activated!" {
		t.Errorf("verification = %+v", v)
	}
}

func TestCreateMovieSendsMultipartAndPurgesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	var lists atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			lists.Add(1)
			io.WriteString(w, `{"movies":[{"id":1,"title":"Heat"}]}`)
		case http.MethodPost:
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if r.FormValue("movie[title]") != "Ronin" || r.FormValue("movie[premium]") != "true" {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": []string{"bad form"}})
				return
			}
			if _, _, err := r.FormFile("movie[poster]"); err != nil {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": "poster missing"})
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"movie": map[string]any{"id": 2, "title": "Ronin"}})
		}
	}), NewRedisCache(rdb, nil))

	ctx := context.Background()
	if _, err := c.AllMovies(ctx); err != nil {
		t.Fatalf("AllMovies: %v", err)
	}
	if _, err := c.AllMovies(ctx); err != nil {
		t.Fatalf("AllMovies: %v", err)
	}
	if lists.Load() != 1 {
		t.Fatalf("remote lists = %d, want 1 (second read cached)", lists.Load())
	}

	created, err := c.CreateMovie(ctx, "tok", MovieInput{
		Title:   "Ronin",
		Premium: true,
		Poster:  &Upload{Filename: "ronin.jpg", Body: strings.NewReader("jpeg")},
	})
	if err != nil {
		t.Fatalf("CreateMovie: %v", err)
	}
	if created.ID != 2 {
		t.Errorf("created = %+v", created)
	}
	if mr.Exists(tagKey) {
		t.Error("tag set survived purge")
	}

	if _, err := c.AllMovies(ctx); err != nil {
		t.Fatalf("AllMovies: %v", err)
	}
	if lists.Load() != 2 {
		t.Errorf("remote lists = %d, want 2 after purge", lists.Load())
	}
}

func TestRemoteMessage(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"message":"m"}`, "m"},
		{`{"error":"e"}`, "e"},
		{`{"errors":["a","b"]}`, "a, b"},
		{`{"errors":"single"}`, "single"},
		{`not json`, ""},
	}
	for _, tt := range tests {
		if got := remoteMessage([]byte(tt.body)); got != tt.want {
			t.Errorf("remoteMessage(%s) = %q, want %q", tt.body, got, tt.want)
		}
	}
}
