package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"movieexplorer/src/client"
	lib "movieexplorer/src/modules/auth/lib"
	models "movieexplorer/src/modules/auth/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Remote is the part of the catalog client that deals with accounts.
type Remote interface {
	Login(ctx context.Context, email, password string) (client.AuthResult, error)
	SignUp(ctx context.Context, name, email, password, mobile string) (client.AuthResult, error)
	SignOut(ctx context.Context, token string) error
	SubscriptionStatus(ctx context.Context, token string) (string, error)
	CurrentUser(ctx context.Context, token string) (models.User, error)
}

type Service struct {
	remote Remote
	store  SessionStore
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewService(remote Remote, store SessionStore, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{remote: remote, store: store, ttl: ttl, logger: logger, now: time.Now}
}

func (s *Service) Login(ctx context.Context, req lib.LoginRequest) (*models.Session, error) {
	res, err := s.remote.Login(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, res)
}

func (s *Service) SignUp(ctx context.Context, req lib.SignupRequest) (*models.Session, error) {
	res, err := s.remote.SignUp(ctx, strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), req.Password, strings.TrimSpace(req.MobileNumber))
	if err != nil {
		return nil, err
	}
	return s.open(ctx, res)
}

func (s *Service) open(ctx context.Context, res client.AuthResult) (*models.Session, error) {
	now := s.now()
	sess := &models.Session{
		ID:        uuid.NewString(),
		Token:     res.Token,
		UserData:  string(res.Raw),
		PlanType:  models.PlanBasic,
		ExpiresAt: tokenExpiry(res.Token, now.Add(s.ttl)),
		CreatedAt: now,
	}
	if plan, err := s.remote.SubscriptionStatus(ctx, res.Token); err != nil {
		s.logger.Warn("[Auth] could not read plan after login", slog.String("error", err.Error()))
	} else if plan != "" {
		sess.PlanType = plan
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, err
	}
	s.logger.Info("[Auth] session opened",
		slog.String("session", sess.ID), slog.String("role", sess.User().Role), slog.String("plan", sess.PlanType))
	return sess, nil
}

// Lookup returns the live session with id. Expired sessions are removed and
// reported as missing.
func (s *Service) Lookup(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		if err := s.store.Delete(ctx, id); err != nil {
			s.logger.Warn("[Auth] could not drop expired session", slog.String("error", err.Error()))
		}
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Logout revokes the token remotely and always forgets the local session,
// even when the remote call fails.
func (s *Service) Logout(ctx context.Context, sess *models.Session) error {
	if sess == nil {
		return nil
	}
	if err := s.remote.SignOut(ctx, sess.Token); err != nil && !errors.Is(err, client.ErrNoToken) {
		s.logger.Warn("[Auth] remote sign-out failed", slog.String("session", sess.ID), slog.String("error", err.Error()))
	}
	return s.store.Delete(ctx, sess.ID)
}

// RefreshPlan asks the service for the current plan and stores it on the
// session.
func (s *Service) RefreshPlan(ctx context.Context, sess *models.Session) (string, error) {
	plan, err := s.remote.SubscriptionStatus(ctx, sess.Token)
	if err != nil {
		return sess.PlanType, err
	}
	if plan == "" {
		plan = models.PlanBasic
	}
	return plan, s.SetPlan(ctx, sess, plan)
}

// SetPlan stores a plan the service already reported.
func (s *Service) SetPlan(ctx context.Context, sess *models.Session, plan string) error {
	if plan == "" || plan == sess.PlanType {
		return nil
	}
	if err := s.store.UpdatePlan(ctx, sess.ID, plan); err != nil {
		return err
	}
	sess.PlanType = plan
	return nil
}

// RefreshProfile replaces the stored profile with the one the service
// reports now. When the service cannot answer, the session keeps the profile
// saved at login.
func (s *Service) RefreshProfile(ctx context.Context, sess *models.Session) *models.Session {
	if sess == nil {
		return nil
	}
	user, err := s.remote.CurrentUser(ctx, sess.Token)
	if err != nil {
		s.logger.Warn("[Auth] could not refresh profile", slog.String("session", sess.ID), slog.String("error", err.Error()))
		return sess
	}
	if user.ID == 0 && user.Email == "" {
		return sess
	}
	profile, err := json.Marshal(user)
	if err != nil {
		return sess
	}
	if string(profile) == sess.UserData {
		return sess
	}
	if err := s.store.UpdateUser(ctx, sess.ID, string(profile)); err != nil {
		s.logger.Warn("[Auth] could not store refreshed profile", slog.String("session", sess.ID), slog.String("error", err.Error()))
		return sess
	}
	refreshed := *sess
	refreshed.UserData = string(profile)
	return &refreshed
}

// Prune drops every expired session.
func (s *Service) Prune(ctx context.Context) (int64, error) {
	return s.store.DeleteExpired(ctx, s.now())
}

// tokenExpiry reads the exp claim of a JWT without verifying it; the remote
// service owns the signing key. Opaque tokens get the fallback.
func tokenExpiry(token string, fallback time.Time) time.Time {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, &jwt.RegisteredClaims{})
	if err != nil {
		return fallback
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fallback
	}
	return exp.Time
}
