package movies

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	lib "movieexplorer/src/modules/movies/lib"
	models "movieexplorer/src/modules/movies/models"
)

const DefaultPageSize = 10

// Catalog is the slice of the remote client the browser needs.
type Catalog interface {
	ListMovies(ctx context.Context, genre string, page, perPage int) (models.SearchResultSet, error)
	SearchMovies(ctx context.Context, title string) ([]models.MovieSummary, error)
}

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusEmpty   Status = "empty"
	StatusErrored Status = "errored"
)

// Snapshot is what the shell renders for the catalog page.
type Snapshot struct {
	State          lib.BrowseState       `json:"state"`
	CanonicalQuery string                `json:"canonical_query"`
	Movies         []models.MovieSummary `json:"movies"`
	TotalPages     int                   `json:"total_pages"`
	Status         Status                `json:"status"`
	Message        string                `json:"message,omitempty"`
	ScrollTop      bool                  `json:"scroll_top,omitempty"`
}

type BrowserOptions struct {
	PageSize int
	Logger   *slog.Logger
	// OnChange receives every snapshot the browser publishes. It runs with
	// the browser locked and must not call back into it.
	OnChange func(Snapshot)
}

// Browser owns one catalog browsing session: the current BrowseState, the
// result page shown for it and the full match set of the active search.
//
// Every refetch takes a sequence number and its result is applied only while
// that number is still the latest issued, so a slow response can never
// overwrite a newer one.
type Browser struct {
	catalog  Catalog
	pageSize int
	logger   *slog.Logger
	onChange func(Snapshot)

	seq atomic.Uint64
	wg  sync.WaitGroup

	mu     sync.Mutex
	state  lib.BrowseState
	snap   Snapshot
	search searchSet
}

type searchSet struct {
	query  string
	movies []models.MovieSummary
	ok     bool
}

func NewBrowser(catalog Catalog, opts BrowserOptions) *Browser {
	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	state := lib.DefaultBrowseState()
	return &Browser{
		catalog:  catalog,
		pageSize: size,
		logger:   logger,
		onChange: opts.OnChange,
		state:    state,
		snap: Snapshot{
			State:          state,
			CanonicalQuery: state.Encode(),
			Movies:         []models.MovieSummary{},
			Status:         StatusIdle,
		},
	}
}

func (b *Browser) State() lib.BrowseState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Browser) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap
}

// Restore replaces the state, typically with one parsed from a URL, without
// fetching anything.
func (b *Browser) Restore(s lib.BrowseState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = s.Normalize()
	b.snap.State = b.state
	b.snap.CanonicalQuery = b.state.Encode()
}

// SetGenre switches genre, clears the query and fetches page 1.
func (b *Browser) SetGenre(ctx context.Context, genre string) {
	b.transition(ctx, func(s lib.BrowseState) lib.BrowseState { return s.WithGenre(genre) }, false)
}

// SetQuery sets the free-text query and fetches page 1 of its matches.
func (b *Browser) SetQuery(ctx context.Context, q string) {
	b.transition(ctx, func(s lib.BrowseState) lib.BrowseState { return s.WithQuery(q) }, false)
}

// SetPage moves to page p and asks the shell to scroll to the top.
func (b *Browser) SetPage(ctx context.Context, p int) {
	b.transition(ctx, func(s lib.BrowseState) lib.BrowseState { return s.WithPage(p) }, true)
}

func (b *Browser) transition(ctx context.Context, next func(lib.BrowseState) lib.BrowseState, scrollTop bool) {
	b.mu.Lock()
	b.state = next(b.state)
	state := b.state
	seq := b.seq.Add(1)
	b.publish(Snapshot{
		State:          state,
		CanonicalQuery: state.Encode(),
		Movies:         b.snap.Movies,
		TotalPages:     b.snap.TotalPages,
		Status:         StatusLoading,
		ScrollTop:      scrollTop,
	})
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.apply(seq, b.fetch(ctx, state, scrollTop))
	}()
}

// Refresh fetches the current state synchronously and returns the settled
// snapshot. Used by the plain HTTP browse endpoint.
func (b *Browser) Refresh(ctx context.Context) Snapshot {
	b.mu.Lock()
	state := b.state
	seq := b.seq.Add(1)
	b.mu.Unlock()

	snap := b.fetch(ctx, state, false)
	b.apply(seq, snap)
	return snap
}

// Wait blocks until every in-flight refetch has settled.
func (b *Browser) Wait() {
	b.wg.Wait()
}

func (b *Browser) apply(seq uint64, snap Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if latest := b.seq.Load(); seq != latest {
		b.logger.Debug("[Browse] dropping stale response",
			slog.Uint64("seq", seq), slog.Uint64("latest", latest), slog.String("query", snap.CanonicalQuery))
		return
	}
	b.publish(snap)
}

// publish must be called with b.mu held.
func (b *Browser) publish(snap Snapshot) {
	b.snap = snap
	if b.onChange != nil {
		b.onChange(snap)
	}
}

func (b *Browser) fetch(ctx context.Context, state lib.BrowseState, scrollTop bool) Snapshot {
	snap := Snapshot{
		State:          state,
		CanonicalQuery: state.Encode(),
		ScrollTop:      scrollTop,
	}

	var (
		res models.SearchResultSet
		err error
	)
	if state.Searching() {
		var all []models.MovieSummary
		all, err = b.searchMatches(ctx, state.Query)
		if err == nil {
			res = SlicePage(all, state.Page, b.pageSize)
		}
	} else {
		res, err = b.catalog.ListMovies(ctx, state.RemoteGenre(), state.Page, b.pageSize)
	}

	switch {
	case err != nil:
		b.logger.Error("[Browse] fetch failed",
			slog.String("genre", state.Genre), slog.String("query", state.Query),
			slog.Int("page", state.Page), slog.String("error", err.Error()))
		snap.Movies = []models.MovieSummary{}
		snap.TotalPages = 0
		snap.Status = StatusErrored
		snap.Message = emptyMessage(state)
	case len(res.Movies) == 0:
		snap.Movies = []models.MovieSummary{}
		snap.TotalPages = res.TotalPages
		snap.Status = StatusEmpty
		snap.Message = emptyMessage(state)
	default:
		snap.Movies = res.Movies
		snap.TotalPages = res.TotalPages
		snap.Status = StatusLoaded
	}
	return snap
}

// searchMatches returns the full match set for q, calling the remote search
// only when q differs from the set already held.
func (b *Browser) searchMatches(ctx context.Context, q string) ([]models.MovieSummary, error) {
	b.mu.Lock()
	cached := b.search
	b.mu.Unlock()
	if cached.ok && cached.query == q {
		return cached.movies, nil
	}

	found, err := b.catalog.SearchMovies(ctx, q)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.search = searchSet{query: q, movies: found, ok: true}
	b.mu.Unlock()
	return found, nil
}

// SlicePage cuts page p out of the full match set and reports how many pages
// the set spans.
func SlicePage(all []models.MovieSummary, page, size int) models.SearchResultSet {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	total := (len(all) + size - 1) / size
	if page > total {
		return models.SearchResultSet{Movies: []models.MovieSummary{}, TotalPages: total}
	}
	start := (page - 1) * size
	end := min(start+size, len(all))
	out := make([]models.MovieSummary, end-start)
	copy(out, all[start:end])
	return models.SearchResultSet{Movies: out, TotalPages: total}
}

func emptyMessage(s lib.BrowseState) string {
	if s.Searching() {
		return fmt.Sprintf("No movies found matching %q", s.Query)
	}
	if g := s.RemoteGenre(); g != "" {
		return fmt.Sprintf("No movies found for genre: %s", g)
	}
	return "No movies found"
}
