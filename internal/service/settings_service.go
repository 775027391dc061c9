package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hallpass-api/internal/models"
	appErrors "github.com/noah-isme/hallpass-api/pkg/errors"
)

type settingsRepository interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, setting *models.Setting) error
	List(ctx context.Context) ([]models.Setting, error)
}

// SettingsService reads and writes runtime settings. Writing the
// custom-periods key re-applies the override on the schedule clock.
type SettingsService struct {
	repo     settingsRepository
	schedule *ScheduleService
	logger   *zap.Logger
}

// NewSettingsService constructs the settings service.
func NewSettingsService(repo settingsRepository, schedule *ScheduleService, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, schedule: schedule, logger: logger}
}

var knownSettings = map[string]struct{}{
	models.SettingHallPassLocked:  {},
	models.SettingBlackoutStart:   {},
	models.SettingBlackoutEnd:     {},
	models.SettingCooldownMinutes: {},
	models.SettingGraceMinutes:    {},
	models.SettingDayTypeOverride: {},
	models.SettingCustomPeriods:   {},
}

// Get returns a setting, or appErrors.ErrNotFound.
func (s *SettingsService) Get(ctx context.Context, key string) (*models.Setting, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("setting %q not found", key))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load setting")
	}
	return setting, nil
}

// Set writes a setting. Unknown keys are rejected so typos don't create
// dead configuration.
func (s *SettingsService) Set(ctx context.Context, key, value string) (*models.Setting, error) {
	if _, ok := knownSettings[key]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown setting %q", key))
	}

	setting := &models.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save setting")
	}

	if key == models.SettingCustomPeriods && s.schedule != nil {
		if err := s.schedule.ApplyCustomPeriods(ctx); err != nil {
			return nil, err
		}
	}

	s.logger.Info("setting updated", zap.String("key", key))
	return setting, nil
}

// List returns all stored settings.
func (s *SettingsService) List(ctx context.Context) ([]models.Setting, error) {
	settings, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list settings")
	}
	return settings, nil
}
