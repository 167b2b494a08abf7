package movies

import (
	"net/url"
	"strconv"
	"strings"
)

// AllGenres is the genre sentinel meaning "no genre filter".
const AllGenres = "all"

// BrowseState is the genre/query/page triple behind the catalog page. The
// query string produced by Encode is its canonical form.
type BrowseState struct {
	Genre string `json:"genre" form:"genre"`
	Query string `json:"query" form:"q"`
	Page  int    `json:"page" form:"page"`
}

// DefaultBrowseState is what a fresh URL without parameters resolves to.
func DefaultBrowseState() BrowseState {
	return BrowseState{Genre: AllGenres, Page: 1}
}

// ParseBrowseState reads a state from URL query values. Missing or invalid
// values fall back to the defaults.
func ParseBrowseState(v url.Values) BrowseState {
	s := BrowseState{
		Genre: v.Get("genre"),
		Query: v.Get("q"),
	}
	if p, err := strconv.Atoi(strings.TrimSpace(v.Get("page"))); err == nil {
		s.Page = p
	}
	return s.Normalize()
}

// Normalize trims the fields and enforces genre != "" and page >= 1.
func (s BrowseState) Normalize() BrowseState {
	s.Genre = strings.TrimSpace(s.Genre)
	if s.Genre == "" || strings.EqualFold(s.Genre, AllGenres) {
		s.Genre = AllGenres
	}
	s.Query = strings.TrimSpace(s.Query)
	if s.Page < 1 {
		s.Page = 1
	}
	return s
}

// RemoteGenre is the genre filter to send to the catalog, empty for "all".
func (s BrowseState) RemoteGenre() string {
	if s.Genre == AllGenres {
		return ""
	}
	return s.Genre
}

// Searching reports whether the state is in free-text search mode.
func (s BrowseState) Searching() bool {
	return s.Query != ""
}

// Encode renders the canonical query string. The "all" genre and an empty
// query are omitted; the page is always present.
func (s BrowseState) Encode() string {
	s = s.Normalize()
	v := url.Values{}
	if g := s.RemoteGenre(); g != "" {
		v.Set("genre", g)
	}
	if s.Query != "" {
		v.Set("q", s.Query)
	}
	v.Set("page", strconv.Itoa(s.Page))
	return v.Encode()
}

// WithGenre switches genre, clearing the query and returning to page 1.
func (s BrowseState) WithGenre(genre string) BrowseState {
	return BrowseState{Genre: genre, Page: 1}.Normalize()
}

// WithQuery sets the free-text query and returns to page 1.
func (s BrowseState) WithQuery(q string) BrowseState {
	s.Query = q
	s.Page = 1
	return s.Normalize()
}

// WithPage moves to page p, leaving genre and query alone.
func (s BrowseState) WithPage(p int) BrowseState {
	s.Page = p
	return s.Normalize()
}
