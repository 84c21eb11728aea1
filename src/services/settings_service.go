// backend/src/services/settings_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/username/finansdefter/backend/src/logger"
	"github.com/username/finansdefter/backend/src/models"
	"github.com/username/finansdefter/backend/src/security"
	"github.com/username/finansdefter/backend/src/security/validation"
)

const maxCardExpiryMonths = 24

type SettingsService interface {
	Get(ctx context.Context, username string) (models.UserSettings, error)
	Save(ctx context.Context, st models.UserSettings) (models.UserSettings, error)
}

type settingsServiceImpl struct {
	store               SettingsStore
	defaultExpiryMonths int
}

func NewSettingsService(store SettingsStore, defaultExpiryMonths int) SettingsService {
	return &settingsServiceImpl{store: store, defaultExpiryMonths: defaultExpiryMonths}
}

// Get returns the user's settings, or the defaults when nothing was saved yet.
func (s *settingsServiceImpl) Get(ctx context.Context, username string) (models.UserSettings, error) {
	st, err := s.store.GetSettings(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return models.DefaultUserSettings(username, s.defaultExpiryMonths), nil
	}
	return st, err
}

func (s *settingsServiceImpl) Save(ctx context.Context, st models.UserSettings) (models.UserSettings, error) {
	if err := validation.ValidateTheme(st.CalendarTheme); err != nil {
		return models.UserSettings{}, err
	}
	if st.CardExpiryMonths < 1 || st.CardExpiryMonths > maxCardExpiryMonths {
		return models.UserSettings{}, fmt.Errorf("%w: card expiry warning must be between 1 and %d months",
			validation.ErrValidationFailed, maxCardExpiryMonths)
	}
	saved, err := s.store.SaveSettings(ctx, st)
	if err != nil {
		return models.UserSettings{}, err
	}
	logger.FromContext(ctx).Info("Settings saved", "theme", saved.CalendarTheme, "cardExpiryMonths", saved.CardExpiryMonths)
	return saved, nil
}

type ActivityService interface {
	List(ctx context.Context, role string, limit int) ([]models.ActivityLog, error)
}

type activityServiceImpl struct {
	store ActivityRecorder
}

func NewActivityService(store ActivityRecorder) ActivityService {
	return &activityServiceImpl{store: store}
}

func (s *activityServiceImpl) List(ctx context.Context, role string, limit int) ([]models.ActivityLog, error) {
	if !security.IsAdmin(role) {
		return nil, ErrForbidden
	}
	logs, err := s.store.ListActivity(ctx, limit)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []models.ActivityLog{}
	}
	return logs, nil
}
