package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	file "movieexplorer/src/modules/files/services"
	movies "movieexplorer/src/modules/movies/models"
	"movieexplorer/src/utils"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 2 * time.Minute

type CarouselWarmer interface {
	Warm(ctx context.Context) error
	Dashboard(ctx context.Context) []movies.Carousel
}

type SessionPruner interface {
	Prune(ctx context.Context) (int64, error)
}

type ImageSyncer interface {
	Fetch(ctx context.Context, path string) (file.Image, *utils.ServiceError)
}

// Jobs are the periodic tasks of the server. Any of them may be nil.
type Jobs struct {
	Carousels CarouselWarmer
	Sessions  SessionPruner
	Images    ImageSyncer
	// ImageOrigin limits poster sync to images hosted there.
	ImageOrigin string
	Logger      *slog.Logger
}

// SetupBackgroundJobs registers and starts the cron jobs. Stop the returned
// scheduler on shutdown.
func SetupBackgroundJobs(jobs Jobs) (*cron.Cron, error) {
	if jobs.Logger == nil {
		jobs.Logger = slog.Default()
	}
	c := cron.New()

	if jobs.Carousels != nil {
		if _, err := c.AddFunc("@every 15m", jobs.warmCarousels); err != nil {
			return nil, err
		}
	}
	if jobs.Carousels != nil && jobs.Images != nil {
		if _, err := c.AddFunc("@every 30m", jobs.syncPosters); err != nil {
			return nil, err
		}
	}
	if jobs.Sessions != nil {
		if _, err := c.AddFunc("@every 1h", jobs.pruneSessions); err != nil {
			return nil, err
		}
	}

	c.Start()
	jobs.Logger.Info("[Cron] Background jobs initialized", slog.Int("jobs", len(c.Entries())))
	return c, nil
}

func (j Jobs) warmCarousels() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	start := time.Now()
	if err := j.Carousels.Warm(ctx); err != nil {
		j.Logger.Warn("[Cron] carousel warm incomplete", slog.String("error", err.Error()))
		return
	}
	j.Logger.Info("[Cron] carousels warmed", slog.Duration("took", time.Since(start)))
}

func (j Jobs) pruneSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	n, err := j.Sessions.Prune(ctx)
	if err != nil {
		j.Logger.Error("[Cron] session prune failed", slog.String("error", err.Error()))
		return
	}
	j.Logger.Info("[Cron] expired sessions pruned", slog.Int64("count", n))
}

// syncPosters pulls the poster and banner of every dashboard movie through
// the image proxy so they are in object storage before anyone asks.
func (j Jobs) syncPosters() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	seen := map[string]bool{}
	synced, failed := 0, 0
	for _, row := range j.Carousels.Dashboard(ctx) {
		for _, m := range row.Movies {
			for _, raw := range []string{m.PosterURL, m.BannerURL} {
				p, err := imagePath(raw, j.ImageOrigin)
				if err != nil || seen[p] {
					continue
				}
				seen[p] = true
				if _, serr := j.Images.Fetch(ctx, p); serr != nil {
					failed++
					j.Logger.Debug("[Cron] image sync failed", slog.String("path", p), slog.String("error", serr.Error()))
					continue
				}
				synced++
			}
		}
	}
	j.Logger.Info("[Cron] poster sync finished", slog.Int("synced", synced), slog.Int("failed", failed))
}

// imagePath reduces an image URL to the proxy path. Only relative paths and
// URLs on origin are accepted.
func imagePath(raw, origin string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "/" || raw == movies.NotAvailable || raw == movies.PlaceholderPoster {
		return "", fmt.Errorf("no image")
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "/" + strings.TrimPrefix(raw, "/"), nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse image URL: %w", err)
	}
	o, err := url.Parse(origin)
	if err != nil || o.Host == "" || !strings.EqualFold(u.Host, o.Host) {
		return "", fmt.Errorf("image %s is not on the origin", raw)
	}
	if u.Path == "" || u.Path == "/" {
		return "", fmt.Errorf("no image path in %s", raw)
	}
	return u.Path, nil
}
