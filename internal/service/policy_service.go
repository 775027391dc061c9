package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/hallpass-api/internal/models"
	"github.com/noah-isme/hallpass-api/pkg/config"
)

type policySettingsRepository interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
}

// PolicyService resolves runtime policy knobs. Deployment config supplies
// the defaults; rows in the settings store override them without a restart.
type PolicyService struct {
	settings policySettingsRepository
	schedule config.ScheduleConfig
	hallPass config.HallPassConfig
	logger   *zap.Logger
}

// NewPolicyService constructs the policy resolver.
func NewPolicyService(settings policySettingsRepository, scheduleCfg config.ScheduleConfig, hallPassCfg config.HallPassConfig, logger *zap.Logger) *PolicyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PolicyService{settings: settings, schedule: scheduleCfg, hallPass: hallPassCfg, logger: logger}
}

func (s *PolicyService) intSetting(ctx context.Context, key string, fallback int) int {
	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to read setting, using default", zap.String("key", key), zap.Error(err))
		}
		return fallback
	}
	value, err := strconv.Atoi(setting.Value)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

func (s *PolicyService) boolSetting(ctx context.Context, key string, fallback bool) bool {
	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to read setting, using default", zap.String("key", key), zap.Error(err))
		}
		return fallback
	}
	value, err := strconv.ParseBool(setting.Value)
	if err != nil {
		return fallback
	}
	return value
}

// GraceMinutes is how long after the bell still counts as on time.
func (s *PolicyService) GraceMinutes(ctx context.Context) int {
	return s.intSetting(ctx, models.SettingGraceMinutes, s.schedule.GraceMinutes)
}

// CooldownMinutes is the wait between hall-pass trips for one student.
func (s *PolicyService) CooldownMinutes(ctx context.Context) int {
	return s.intSetting(ctx, models.SettingCooldownMinutes, s.hallPass.CooldownMinutes)
}

// BlackoutWindow returns the minutes after start / before end during which
// passes are blocked.
func (s *PolicyService) BlackoutWindow(ctx context.Context) (startMinutes, endMinutes int) {
	return s.intSetting(ctx, models.SettingBlackoutStart, s.hallPass.BlackoutStartMinutes),
		s.intSetting(ctx, models.SettingBlackoutEnd, s.hallPass.BlackoutEndMinutes)
}

// HallPassLocked reports the teacher's manual lock switch.
func (s *PolicyService) HallPassLocked(ctx context.Context) bool {
	return s.boolSetting(ctx, models.SettingHallPassLocked, false)
}

// DayTypeOverride returns a forced day type, empty when the weekday rules
// apply.
func (s *PolicyService) DayTypeOverride(ctx context.Context) string {
	setting, err := s.settings.Get(ctx, models.SettingDayTypeOverride)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to read setting, using default", zap.String("key", models.SettingDayTypeOverride), zap.Error(err))
		}
		return s.schedule.DayTypeOverride
	}
	return setting.Value
}
