package movies

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	models "movieexplorer/src/modules/movies/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const carouselCacheKey = "carousels:dashboard"

// Row is one dashboard carousel: the heading shown and the genre sent to the
// catalog, which spells Sci-Fi as "Si-Fi".
type Row struct {
	Title string
	Genre string
}

var DashboardRows = []Row{
	{Title: "Sci-Fi", Genre: "Si-Fi"},
	{Title: "Thriller", Genre: "Thriller"},
	{Title: "Action", Genre: "Action"},
}

type GenreSource interface {
	MoviesByGenre(ctx context.Context, genre string) ([]models.MovieSummary, error)
}

type CarouselService struct {
	source GenreSource
	rdb    *redis.Client
	ttl    time.Duration
	rows   []Row
	logger *slog.Logger
}

// NewCarouselService builds the dashboard rows service. rdb may be nil, in
// which case every call goes to the catalog.
func NewCarouselService(source GenreSource, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CarouselService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CarouselService{source: source, rdb: rdb, ttl: ttl, rows: DashboardRows, logger: logger}
}

// Dashboard returns the carousels, from redis when warm.
func (s *CarouselService) Dashboard(ctx context.Context) []models.Carousel {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, carouselCacheKey).Bytes()
		if err == nil {
			var rows []models.Carousel
			if jsonErr := json.Unmarshal(cached, &rows); jsonErr == nil {
				return rows
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("[Cache] carousel read failed", slog.String("error", err.Error()))
		}
	}

	rows := s.load(ctx)
	s.store(ctx, rows)
	return rows
}

// Warm refetches every row and replaces the cached copy. Rows that failed are
// not cached so the next request retries them.
func (s *CarouselService) Warm(ctx context.Context) error {
	rows := s.load(ctx)
	failed := 0
	for _, r := range rows {
		if r.Error != "" {
			failed++
		}
	}
	s.store(ctx, rows)
	if failed > 0 {
		return fmt.Errorf("%d of %d carousels failed to load", failed, len(rows))
	}
	return nil
}

func (s *CarouselService) load(ctx context.Context) []models.Carousel {
	rows := make([]models.Carousel, len(s.rows))
	g, gctx := errgroup.WithContext(ctx)
	for i, row := range s.rows {
		i, row := i, row
		g.Go(func() error {
			c := models.Carousel{Title: row.Title, Genre: row.Genre, Movies: []models.MovieSummary{}}
			movies, err := s.source.MoviesByGenre(gctx, row.Genre)
			switch {
			case err != nil:
				s.logger.Warn("[Browse] carousel failed", slog.String("genre", row.Genre), slog.String("error", err.Error()))
				c.Error = fmt.Sprintf("Failed to load %s movies", row.Genre)
			case len(movies) == 0:
				c.Error = fmt.Sprintf("No %s movies found", row.Genre)
			default:
				c.Movies = movies
			}
			rows[i] = c
			// Row failures are reported in the row, never to the group.
			return nil
		})
	}
	_ = g.Wait()
	return rows
}

func (s *CarouselService) store(ctx context.Context, rows []models.Carousel) {
	if s.rdb == nil {
		return
	}
	for _, r := range rows {
		if r.Error != "" {
			s.rdb.Del(ctx, carouselCacheKey)
			return
		}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, carouselCacheKey, data, s.ttl).Err(); err != nil {
		s.logger.Warn("[Cache] carousel write failed", slog.String("error", err.Error()))
	}
}
