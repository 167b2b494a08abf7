package movies

import (
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"movieexplorer/src/client"
	auth "movieexplorer/src/modules/auth/models"
	lib "movieexplorer/src/modules/movies/lib"
	models "movieexplorer/src/modules/movies/models"
	"movieexplorer/src/utils"
)

// ErrPremiumRequired is returned when a premium title is opened by a session
// without the premium plan.
var ErrPremiumRequired = &utils.ServiceError{
	StatusCode: http.StatusPaymentRequired,
	Message:    "This movie requires a premium subscription",
	Redirect:   "/sub",
}

// Remote is the part of the catalog client the movie service talks to.
type Remote interface {
	AllMovies(ctx context.Context) ([]models.MovieSummary, error)
	GetMovie(ctx context.Context, token string, id int64) (models.MovieDetail, error)
	CreateMovie(ctx context.Context, token string, in client.MovieInput) (models.MovieSummary, error)
	UpdateMovie(ctx context.Context, token string, id int64, in client.MovieInput) (models.MovieSummary, error)
	DeleteMovie(ctx context.Context, token string, id int64) error
}

type Service struct {
	remote Remote
	logger *slog.Logger
}

func NewService(remote Remote, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{remote: remote, logger: logger}
}

// Detail loads one movie for the detail page. Premium titles are only served
// to sessions on the premium plan.
func (s *Service) Detail(ctx context.Context, sess *auth.Session, id int64) (models.MovieDetail, error) {
	detail, err := s.remote.GetMovie(ctx, sess.Token, id)
	if err != nil {
		s.logger.Warn("[Movies] detail failed", slog.Int64("id", id), slog.String("error", err.Error()))
		return models.MovieDetail{}, err
	}
	if detail.Premium && !sess.IsPremium() {
		s.logger.Info("[Movies] premium title blocked", slog.Int64("id", id), slog.String("plan", sess.PlanType))
		return models.MovieDetail{}, ErrPremiumRequired
	}
	return detail, nil
}

// AllMovies lists every movie whose title contains q, ignoring case, and
// slices out the requested page.
func (s *Service) AllMovies(ctx context.Context, q string, page, perPage int) (map[string]interface{}, error) {
	all, err := s.remote.AllMovies(ctx)
	if err != nil {
		return nil, err
	}
	matched := FilterByTitle(all, q)

	window := utils.CalculateOffset(page, perPage, len(matched))
	result := utils.Paginate(int64(len(matched)), window.CurrentPage, window.ItemsPerPage)
	result["items"] = matched[window.Offset:window.End]
	result["query"] = strings.TrimSpace(q)
	return result, nil
}

// FilterByTitle keeps movies whose title contains q, case-insensitively.
// A blank q keeps everything.
func FilterByTitle(all []models.MovieSummary, q string) []models.MovieSummary {
	needle := strings.ToLower(strings.TrimSpace(q))
	if needle == "" {
		return all
	}
	out := make([]models.MovieSummary, 0, len(all))
	for _, m := range all {
		if strings.Contains(strings.ToLower(m.Title), needle) {
			out = append(out, m)
		}
	}
	return out
}

func (s *Service) Create(ctx context.Context, sess *auth.Session, form lib.MovieForm) (models.MovieSummary, error) {
	in, closeAll, err := movieInput(form)
	if err != nil {
		return models.MovieSummary{}, err
	}
	defer closeAll()

	movie, err := s.remote.CreateMovie(ctx, sess.Token, in)
	if err != nil {
		s.logger.Warn("[Movies] create failed", slog.String("title", form.Title), slog.String("error", err.Error()))
		return models.MovieSummary{}, err
	}
	s.logger.Info("[Movies] created", slog.Int64("id", movie.ID), slog.String("title", movie.Title))
	return movie, nil
}

func (s *Service) Update(ctx context.Context, sess *auth.Session, id int64, form lib.MovieForm) (models.MovieSummary, error) {
	in, closeAll, err := movieInput(form)
	if err != nil {
		return models.MovieSummary{}, err
	}
	defer closeAll()

	movie, err := s.remote.UpdateMovie(ctx, sess.Token, id, in)
	if err != nil {
		s.logger.Warn("[Movies] update failed", slog.Int64("id", id), slog.String("error", err.Error()))
		return models.MovieSummary{}, err
	}
	s.logger.Info("[Movies] updated", slog.Int64("id", id))
	return movie, nil
}

func (s *Service) Delete(ctx context.Context, sess *auth.Session, id int64) error {
	if err := s.remote.DeleteMovie(ctx, sess.Token, id); err != nil {
		s.logger.Warn("[Movies] delete failed", slog.Int64("id", id), slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("[Movies] deleted", slog.Int64("id", id))
	return nil
}

// movieInput converts the bound form into the multipart payload. The returned
// func closes any opened uploads.
func movieInput(form lib.MovieForm) (client.MovieInput, func(), error) {
	in := client.MovieInput{
		Title:             strings.TrimSpace(form.Title),
		Genre:             strings.TrimSpace(form.Genre),
		ReleaseYear:       strconv.Itoa(form.ReleaseYear),
		Director:          strings.TrimSpace(form.Director),
		Duration:          strconv.Itoa(form.Duration),
		Description:       strings.TrimSpace(form.Description),
		MainLead:          strings.TrimSpace(form.MainLead),
		StreamingPlatform: strings.TrimSpace(form.StreamingPlatform),
		Rating:            strconv.FormatFloat(form.Rating, 'f', -1, 64),
		Premium:           form.Premium,
	}

	var opened []io.Closer
	closeAll := func() {
		for _, c := range opened {
			c.Close()
		}
	}
	open := func(fh *multipart.FileHeader) (*client.Upload, error) {
		if fh == nil {
			return nil, nil
		}
		f, err := fh.Open()
		if err != nil {
			return nil, &utils.ServiceError{StatusCode: http.StatusBadRequest, Message: "Could not read uploaded file " + fh.Filename}
		}
		opened = append(opened, f)
		return &client.Upload{Filename: fh.Filename, Body: f}, nil
	}

	var err error
	if in.Poster, err = open(form.Poster); err != nil {
		closeAll()
		return client.MovieInput{}, func() {}, err
	}
	if in.Banner, err = open(form.Banner); err != nil {
		closeAll()
		return client.MovieInput{}, func() {}, err
	}
	return in, closeAll, nil
}
