package suggest

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	models "movieexplorer/src/modules/movies/models"
)

const (
	DefaultDebounce = 300 * time.Millisecond
	DefaultGrace    = 150 * time.Millisecond
	DefaultCutoff   = 30
	DefaultLimit    = 5
)

// Searcher is the remote free-text search the engine draws titles from.
type Searcher interface {
	SearchMovies(ctx context.Context, title string) ([]models.MovieSummary, error)
}

// QuerySetter receives a chosen suggestion as the new catalog query.
type QuerySetter interface {
	SetQuery(ctx context.Context, q string)
}

// State is the suggestion panel as the shell should draw it.
type State struct {
	Query string   `json:"query"`
	Items []string `json:"items"`
	Open  bool     `json:"open"`
}

type Options struct {
	Debounce time.Duration
	Grace    time.Duration
	Cutoff   int
	Limit    int
	Logger   *slog.Logger
	// Target takes selected suggestions; may be nil.
	Target QuerySetter
	// OnChange runs on every panel change, from timer goroutines.
	OnChange func(State)
}

// Engine produces "did you mean" titles while the user types.
type Engine struct {
	searcher Searcher
	cutoff   int
	limit    int
	logger   *slog.Logger
	target   QuerySetter
	onChange func(State)

	debounce *Debouncer
	grace    *Debouncer
	seq      atomic.Uint64

	mu    sync.Mutex
	state State
}

func NewEngine(searcher Searcher, opts Options) *Engine {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Grace <= 0 {
		opts.Grace = DefaultGrace
	}
	if opts.Cutoff <= 0 {
		opts.Cutoff = DefaultCutoff
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{
		searcher: searcher,
		cutoff:   opts.Cutoff,
		limit:    opts.Limit,
		logger:   opts.Logger,
		target:   opts.Target,
		onChange: opts.OnChange,
		debounce: NewDebouncer(opts.Debounce),
		grace:    NewDebouncer(opts.Grace),
		state:    State{Items: []string{}},
	}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// OnQueryChange restarts the quiet period. Only the last query typed before
// the period elapses reaches the remote search. Typing also keeps a pending
// blur from closing the panel.
func (e *Engine) OnQueryChange(ctx context.Context, q string) {
	e.grace.Cancel()
	seq := e.seq.Add(1)
	e.debounce.Trigger(func() { e.fire(ctx, seq, q) })
}

func (e *Engine) fire(ctx context.Context, seq uint64, q string) {
	q = strings.TrimSpace(q)
	if q == "" {
		e.set(seq, State{Items: []string{}})
		return
	}
	items, err := e.Suggest(ctx, q)
	if err != nil {
		e.logger.Warn("[Suggest] search failed", slog.String("query", q), slog.String("error", err.Error()))
		e.set(seq, State{Query: q, Items: []string{}})
		return
	}
	e.set(seq, State{Query: q, Items: items, Open: len(items) > 0})
}

// Suggest runs one search for q and ranks the titles it returns, without
// any debounce.
func (e *Engine) Suggest(ctx context.Context, q string) ([]string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []string{}, nil
	}
	found, err := e.searcher.SearchMovies(ctx, q)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(found))
	for _, m := range found {
		titles = append(titles, m.Title)
	}
	ranked := Rank(q, titles, e.cutoff, e.limit)
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Title
	}
	return out, nil
}

// Select closes the panel and hands the suggestion, verbatim, to the target
// as the new query.
func (e *Engine) Select(ctx context.Context, s string) {
	e.grace.Cancel()
	e.debounce.Cancel()
	seq := e.seq.Add(1)
	e.set(seq, State{Query: s, Items: []string{}})
	if e.target != nil {
		e.target.SetQuery(ctx, s)
	}
}

// Blur closes the panel once the grace delay passes, so a selection made
// in the meantime still lands.
func (e *Engine) Blur() {
	e.grace.Trigger(e.Dismiss)
}

// Dismiss closes the panel now and drops any pending or in-flight search.
func (e *Engine) Dismiss() {
	e.debounce.Cancel()
	seq := e.seq.Add(1)
	e.mu.Lock()
	query := e.state.Query
	e.mu.Unlock()
	e.set(seq, State{Query: query, Items: []string{}})
}

// Stop cancels every pending timer.
func (e *Engine) Stop() {
	e.debounce.Cancel()
	e.grace.Cancel()
	e.seq.Add(1)
}

func (e *Engine) set(seq uint64, s State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if seq != e.seq.Load() {
		e.logger.Debug("[Suggest] dropping stale result", slog.String("query", s.Query))
		return
	}
	e.state = s
	if e.onChange != nil {
		e.onChange(s)
	}
}
