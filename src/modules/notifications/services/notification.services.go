package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	authmodels "movieexplorer/src/modules/auth/models"
	models "movieexplorer/src/modules/notifications/models"
	"movieexplorer/src/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Remote interface {
	UpdateDeviceToken(ctx context.Context, token, deviceToken string) error
	ToggleNotifications(ctx context.Context, token string, enabled bool) error
}

type PreferenceStore interface {
	Get(ctx context.Context, email string) (models.NotificationPreference, error)
	Save(ctx context.Context, p models.NotificationPreference) error
}

type Service struct {
	remote Remote
	store  PreferenceStore
	logger *slog.Logger
}

func NewService(remote Remote, store PreferenceStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{remote: remote, store: store, logger: logger}
}

// RegisterDevice forwards a push token to the service and remembers it for
// the user.
func (s *Service) RegisterDevice(ctx context.Context, sess *authmodels.Session, deviceToken string) (models.NotificationPreference, error) {
	deviceToken = strings.TrimSpace(deviceToken)
	if len(deviceToken) < models.MinDeviceTokenLength {
		return models.NotificationPreference{}, &utils.ServiceError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid device token",
		}
	}
	if err := s.remote.UpdateDeviceToken(ctx, sess.Token, deviceToken); err != nil {
		return models.NotificationPreference{}, err
	}

	pref, err := s.preference(ctx, sess)
	if err != nil {
		return models.NotificationPreference{}, err
	}
	pref.Enabled = true
	pref.AddToken(deviceToken)
	if err := s.store.Save(ctx, pref); err != nil {
		return models.NotificationPreference{}, err
	}
	s.logger.Info("[Notifications] device registered", slog.String("user", pref.UserEmail), slog.Int("devices", len(pref.DeviceTokens)))
	return pref, nil
}

// Toggle switches push delivery for the user.
func (s *Service) Toggle(ctx context.Context, sess *authmodels.Session, enabled bool) (models.NotificationPreference, error) {
	if err := s.remote.ToggleNotifications(ctx, sess.Token, enabled); err != nil {
		return models.NotificationPreference{}, err
	}
	pref, err := s.preference(ctx, sess)
	if err != nil {
		return models.NotificationPreference{}, err
	}
	pref.Enabled = enabled
	if err := s.store.Save(ctx, pref); err != nil {
		return models.NotificationPreference{}, err
	}
	return pref, nil
}

func (s *Service) Preference(ctx context.Context, sess *authmodels.Session) (models.NotificationPreference, error) {
	return s.preference(ctx, sess)
}

func (s *Service) preference(ctx context.Context, sess *authmodels.Session) (models.NotificationPreference, error) {
	email := sess.User().Email
	if email == "" {
		email = sess.ID
	}
	return s.store.Get(ctx, email)
}

type GormPreferenceStore struct {
	db *gorm.DB
}

func NewGormPreferenceStore(db *gorm.DB) *GormPreferenceStore {
	return &GormPreferenceStore{db: db}
}

// Get returns the stored preference, or a fresh disabled one.
func (s *GormPreferenceStore) Get(ctx context.Context, email string) (models.NotificationPreference, error) {
	var p models.NotificationPreference
	err := s.db.WithContext(ctx).Where("user_email = ?", email).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NotificationPreference{UserEmail: email}, nil
	}
	if err != nil {
		return models.NotificationPreference{}, fmt.Errorf("load notification preference: %w", err)
	}
	return p, nil
}

func (s *GormPreferenceStore) Save(ctx context.Context, p models.NotificationPreference) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_email"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled", "device_tokens", "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return fmt.Errorf("save notification preference: %w", err)
	}
	return nil
}

type MemoryPreferenceStore struct {
	mu    sync.Mutex
	prefs map[string]models.NotificationPreference
}

func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{prefs: make(map[string]models.NotificationPreference)}
}

func (m *MemoryPreferenceStore) Get(_ context.Context, email string) (models.NotificationPreference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.prefs[email]
	if !ok {
		return models.NotificationPreference{UserEmail: email}, nil
	}
	p.DeviceTokens = append(p.DeviceTokens[:0:0], p.DeviceTokens...)
	return p, nil
}

func (m *MemoryPreferenceStore) Save(_ context.Context, p models.NotificationPreference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[p.UserEmail] = p
	return nil
}
