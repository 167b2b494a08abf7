package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	movies "movieexplorer/src/modules/movies/models"
)

const moviesPath = "/api/v1/movies"

// ListMovies fetches one server-side page of the catalog. An empty genre
// means no genre filter. A response without pagination counts as one page.
func (c *Client) ListMovies(ctx context.Context, genre string, page, perPage int) (movies.SearchResultSet, error) {
	q := url.Values{}
	if g := strings.TrimSpace(genre); g != "" {
		q.Set("genre", g)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var list movieList
	err := c.getCached(ctx, request{
		op:       "list movies",
		fallback: "Failed to fetch movies",
		method:   http.MethodGet,
		path:     moviesPath,
		query:    q,
	}, &list)
	if err != nil {
		return movies.SearchResultSet{Movies: []movies.MovieSummary{}}, err
	}

	total := list.TotalPages
	if !list.HasPages || total <= 0 {
		total = 1
	}
	return movies.SearchResultSet{Movies: list.summaries(), TotalPages: total}, nil
}

// SearchMovies returns the full set of movies whose title matches. The
// service does not page search results.
func (c *Client) SearchMovies(ctx context.Context, title string) ([]movies.MovieSummary, error) {
	q := url.Values{}
	if t := strings.TrimSpace(title); t != "" {
		q.Set("title", t)
	}
	var list movieList
	err := c.getCached(ctx, request{
		op:       "search movies",
		fallback: "Failed to fetch movies",
		method:   http.MethodGet,
		path:     moviesPath,
		query:    q,
	}, &list)
	if err != nil {
		return nil, err
	}
	return list.summaries(), nil
}

// MoviesByGenre returns every movie of a genre, for the dashboard rows.
func (c *Client) MoviesByGenre(ctx context.Context, genre string) ([]movies.MovieSummary, error) {
	var list movieList
	err := c.getCached(ctx, request{
		op:       "movies by genre",
		fallback: fmt.Sprintf("Failed to load %s movies", genre),
		method:   http.MethodGet,
		path:     moviesPath,
		query:    url.Values{"genre": {genre}},
	}, &list)
	if err != nil {
		return nil, err
	}
	return list.summaries(), nil
}

// AllMovies returns the first hundred movies of the catalog.
func (c *Client) AllMovies(ctx context.Context) ([]movies.MovieSummary, error) {
	var list movieList
	err := c.getCached(ctx, request{
		op:       "all movies",
		fallback: "No movies found",
		method:   http.MethodGet,
		path:     moviesPath,
		query:    url.Values{"per_page": {"100"}},
	}, &list)
	if err != nil {
		return nil, err
	}
	return list.summaries(), nil
}

// GetMovie fetches a single movie for the detail page.
func (c *Client) GetMovie(ctx context.Context, token string, id int64) (movies.MovieDetail, error) {
	if token == "" {
		return movies.MovieDetail{}, ErrNoToken
	}
	var env movieEnvelope
	err := c.do(ctx, request{
		op:       "get movie",
		fallback: "Failed to load movie details",
		method:   http.MethodGet,
		path:     fmt.Sprintf("%s/%d", moviesPath, id),
		token:    token,
	}, &env)
	if err != nil {
		return movies.MovieDetail{}, err
	}
	if !env.Found {
		return movies.MovieDetail{}, &APIError{Op: "get movie", StatusCode: http.StatusNotFound, Message: "Movie not found"}
	}
	return env.Movie.detail(), nil
}

// Upload is an image file attached to a movie write.
type Upload struct {
	Filename string
	Body     io.Reader
}

// MovieInput is the admin form as it is sent to the service.
type MovieInput struct {
	Title             string
	Genre             string
	ReleaseYear       string
	Director          string
	Duration          string
	Description       string
	MainLead          string
	StreamingPlatform string
	Rating            string
	Premium           bool
	Poster            *Upload
	Banner            *Upload
}

func (in MovieInput) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	fields := []struct{ name, value string }{
		{"movie[title]", in.Title},
		{"movie[genre]", in.Genre},
		{"movie[release_year]", in.ReleaseYear},
		{"movie[director]", in.Director},
		{"movie[duration]", in.Duration},
		{"movie[description]", in.Description},
		{"movie[main_lead]", in.MainLead},
		{"movie[streaming_platform]", in.StreamingPlatform},
		{"movie[rating]", in.Rating},
		{"movie[premium]", strconv.FormatBool(in.Premium)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}
	files := []struct {
		name   string
		upload *Upload
	}{
		{"movie[poster]", in.Poster},
		{"movie[banner]", in.Banner},
	}
	for _, f := range files {
		if f.upload == nil || f.upload.Body == nil {
			continue
		}
		part, err := w.CreateFormFile(f.name, f.upload.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.upload.Body); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// CreateMovie posts a new movie record.
func (c *Client) CreateMovie(ctx context.Context, token string, in MovieInput) (movies.MovieSummary, error) {
	return c.writeMovie(ctx, token, http.MethodPost, moviesPath, "create movie", "Failed to create movie", in)
}

// UpdateMovie patches an existing movie record.
func (c *Client) UpdateMovie(ctx context.Context, token string, id int64, in MovieInput) (movies.MovieSummary, error) {
	return c.writeMovie(ctx, token, http.MethodPatch, fmt.Sprintf("%s/%d", moviesPath, id), "update movie", "Failed to update movie", in)
}

func (c *Client) writeMovie(ctx context.Context, token, method, path, op, fallback string, in MovieInput) (movies.MovieSummary, error) {
	if token == "" {
		return movies.MovieSummary{}, ErrNoToken
	}
	body, contentType, err := in.encode()
	if err != nil {
		return movies.MovieSummary{}, &APIError{Op: op, StatusCode: http.StatusBadRequest, Message: fallback, Err: err}
	}
	var env movieEnvelope
	err = c.do(ctx, request{
		op:          op,
		fallback:    fallback,
		method:      method,
		path:        path,
		token:       token,
		body:        body,
		contentType: contentType,
	}, &env)
	if err != nil {
		return movies.MovieSummary{}, err
	}
	c.invalidate(ctx)
	return env.Movie.summary(), nil
}

// DeleteMovie removes a movie record.
func (c *Client) DeleteMovie(ctx context.Context, token string, id int64) error {
	if token == "" {
		return ErrNoToken
	}
	err := c.do(ctx, request{
		op:       "delete movie",
		fallback: "Failed to delete movie",
		method:   http.MethodDelete,
		path:     fmt.Sprintf("%s/%d", moviesPath, id),
		token:    token,
	}, nil)
	if err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}
