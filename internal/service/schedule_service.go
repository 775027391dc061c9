package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hallpass-api/internal/bell"
	"github.com/noah-isme/hallpass-api/internal/models"
	appErrors "github.com/noah-isme/hallpass-api/pkg/errors"
)

type settingsReader interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
}

// ScheduleService answers clock questions against the bell schedule and
// applies the custom-periods override from settings.
type ScheduleService struct {
	clock    *bell.Clock
	settings settingsReader
	policy   *PolicyService
	logger   *zap.Logger
}

// NewScheduleService constructs the schedule query service.
func NewScheduleService(clock *bell.Clock, settings settingsReader, policy *PolicyService, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{clock: clock, settings: settings, policy: policy, logger: logger}
}

// customPeriod is the stored shape of one custom-day period.
type customPeriod struct {
	Number int    `json:"number"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// DayTypes lists the known day types.
func (s *ScheduleService) DayTypes(ctx context.Context) []string {
	return s.clock.DayTypes()
}

// DayType resolves the effective day type for now: the settings override
// wins, then the weekday default.
func (s *ScheduleService) DayType(ctx context.Context, now time.Time) string {
	if override := s.policy.DayTypeOverride(ctx); override != "" {
		return override
	}
	return s.clock.DefaultDayType(now)
}

// ClockView is the combined answer to "what does the clock say right now"
// for one period.
type ClockView struct {
	DayType   string          `json:"day_type"`
	Period    int             `json:"period"`
	Window    *bell.Window    `json:"window,omitempty"`
	Countdown *bell.Countdown `json:"countdown,omitempty"`
	Blackout  bell.Blackout   `json:"blackout"`
}

// Clock reports the period window, the countdown to its start, and the
// hall-pass blackout state for the given period. An empty dayType uses the
// effective day type.
func (s *ScheduleService) Clock(ctx context.Context, dayType string, period int, now time.Time) (*ClockView, error) {
	if dayType == "" {
		dayType = s.DayType(ctx, now)
	}
	if _, ok := s.clock.Day(dayType); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown day type %q", dayType))
	}

	startMin, endMin := s.policy.BlackoutWindow(ctx)
	view := &ClockView{
		DayType:   dayType,
		Period:    period,
		Window:    s.clock.PeriodWindow(dayType, period, now),
		Countdown: s.clock.TimeUntilClass(dayType, period, now),
		Blackout:  s.clock.PassBlackout(dayType, period, now, startMin, endMin),
	}
	return view, nil
}

// ApplyCustomPeriods loads the custom-periods setting, if any, and
// installs it as the custom day. Call at startup and after the setting
// changes.
func (s *ScheduleService) ApplyCustomPeriods(ctx context.Context) error {
	setting, err := s.settings.Get(ctx, models.SettingCustomPeriods)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load custom periods")
	}

	var stored []customPeriod
	if err := json.Unmarshal([]byte(setting.Value), &stored); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed custom periods setting")
	}

	periods := make([]bell.Period, 0, len(stored))
	for _, p := range stored {
		start, err := bell.ParseClockTime(p.Start)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
				fmt.Sprintf("invalid start time for period %d", p.Number))
		}
		end, err := bell.ParseClockTime(p.End)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
				fmt.Sprintf("invalid end time for period %d", p.Number))
		}
		periods = append(periods, bell.Period{Number: p.Number, Start: start, End: end})
	}

	s.clock.OverrideCustom(periods)
	s.logger.Info("custom periods applied", zap.Int("periods", len(periods)))
	return nil
}
