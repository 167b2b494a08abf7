package client

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	movies "movieexplorer/src/modules/movies/models"
)

// flexNumber accepts a JSON number, a numeric string or null. Anything else
// decodes as zero instead of failing the whole response.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	*n = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		*n = flexNumber(f)
	}
	return nil
}

func (n flexNumber) Int() int { return int(n) }

// flexBool accepts true/false, "true"/"false", 1/0 and null.
type flexBool bool

func (v *flexBool) UnmarshalJSON(b []byte) error {
	*v = false
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if parsed, err := strconv.ParseBool(s); err == nil {
		*v = flexBool(parsed)
	}
	return nil
}

// flexText accepts a string, a list of strings, a number or null.
type flexText string

func (t *flexText) UnmarshalJSON(b []byte) error {
	*t = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*t = flexText(strings.TrimSpace(s))
		}
	case '[':
		var items []flexText
		if err := json.Unmarshal(b, &items); err == nil {
			parts := make([]string, 0, len(items))
			for _, it := range items {
				if it != "" {
					parts = append(parts, string(it))
				}
			}
			*t = flexText(strings.Join(parts, ", "))
		}
	case '{':
	default:
		*t = flexText(string(b))
	}
	return nil
}

func (t flexText) or(def string) string {
	if s := strings.TrimSpace(string(t)); s != "" {
		return s
	}
	return def
}

// rawMovie is a movie record exactly as the remote service sends it.
type rawMovie struct {
	ID                flexNumber `json:"id"`
	Title             flexText   `json:"title"`
	Genre             flexText   `json:"genre"`
	Description       flexText   `json:"description"`
	Desc              flexText   `json:"desc"`
	Director          flexText   `json:"director"`
	Duration          flexNumber `json:"duration"`
	MainLead          flexText   `json:"main_lead"`
	PosterURL         flexText   `json:"poster_url"`
	Image             flexText   `json:"image"`
	BannerURL         flexText   `json:"banner_url"`
	Premium           flexBool   `json:"premium"`
	Rating            flexNumber `json:"rating"`
	StarRating        flexNumber `json:"starRating"`
	ReleaseYear       flexNumber `json:"release_year"`
	Year              flexNumber `json:"year"`
	StreamingPlatform flexText   `json:"streaming_platform"`
	Languages         flexText   `json:"languages"`
	Subtitles         flexText   `json:"subtitles"`
}

func (r rawMovie) summary() movies.MovieSummary {
	poster := r.PosterURL.or(r.Image.or(movies.PlaceholderPoster))
	rating := float64(r.Rating)
	if rating == 0 {
		rating = float64(r.StarRating)
	}
	year := r.ReleaseYear.Int()
	if year == 0 {
		year = r.Year.Int()
	}
	return movies.MovieSummary{
		ID:                int64(r.ID),
		Title:             r.Title.or(movies.UnknownTitle),
		Genre:             r.Genre.or(movies.NotAvailable),
		Description:       r.Description.or(r.Desc.or(movies.NoDescription)),
		Director:          r.Director.or(movies.NotAvailable),
		DurationMinutes:   r.Duration.Int(),
		MainLead:          r.MainLead.or(movies.NotAvailable),
		PosterURL:         poster,
		BannerURL:         r.BannerURL.or(poster),
		Premium:           bool(r.Premium),
		Rating:            rating,
		ReleaseYear:       year,
		StreamingPlatform: r.StreamingPlatform.or(movies.NotAvailable),
	}
}

func (r rawMovie) detail() movies.MovieDetail {
	s := r.summary()
	return movies.MovieDetail{
		MovieSummary:  s,
		Languages:     r.Languages.or(movies.NotAvailable),
		Subtitles:     r.Subtitles.or(movies.NotAvailable),
		DurationLabel: s.DurationLabel(),
	}
}

// movieList decodes both `{"movies": [...], "pagination": {...}}` and a bare
// array of movies.
type movieList struct {
	Movies     []rawMovie
	TotalPages int
	HasPages   bool
}

func (l *movieList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		return json.Unmarshal(b, &l.Movies)
	}
	var env struct {
		Movies     []rawMovie `json:"movies"`
		Pagination *struct {
			TotalPages flexNumber `json:"total_pages"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	l.Movies = env.Movies
	if env.Pagination != nil {
		l.TotalPages = env.Pagination.TotalPages.Int()
		l.HasPages = true
	}
	return nil
}

func (l movieList) summaries() []movies.MovieSummary {
	out := make([]movies.MovieSummary, 0, len(l.Movies))
	for _, m := range l.Movies {
		out = append(out, m.summary())
	}
	return out
}

// movieEnvelope unwraps a single record found under "movie", "data" or at
// the root of the body.
type movieEnvelope struct {
	Movie rawMovie
	Found bool
}

func (e *movieEnvelope) UnmarshalJSON(b []byte) error {
	var wrapped struct {
		Movie json.RawMessage `json:"movie"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	for _, candidate := range []json.RawMessage{wrapped.Movie, wrapped.Data} {
		c := bytes.TrimSpace(candidate)
		if len(c) > 0 && c[0] == '{' {
			if err := json.Unmarshal(c, &e.Movie); err != nil {
				return err
			}
			e.Found = true
			return nil
		}
	}
	if err := json.Unmarshal(b, &e.Movie); err != nil {
		return err
	}
	e.Found = e.Movie.ID != 0 || e.Movie.Title != ""
	return nil
}
