package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hallpass-api/internal/bell"
	"github.com/noah-isme/hallpass-api/internal/models"
	appErrors "github.com/noah-isme/hallpass-api/pkg/errors"
)

type attendanceRepository interface {
	InsertIfAbsent(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, bool, error)
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)
	StudentHistory(ctx context.Context, studentID, from, to string) ([]models.AttendanceRecord, error)
}

type streakTracker interface {
	Update(ctx context.Context, studentID string, wasOnTime bool, date string, now time.Time) (*models.Streak, error)
	Get(ctx context.Context, studentID string) (*models.Streak, error)
}

type dayTypePolicy interface {
	GraceMinutes(ctx context.Context) int
	DayTypeOverride(ctx context.Context) string
}

// CheckInService records arrivals. Creation is idempotent per
// (student, date, period): the keyed lock plus the repository's
// insert-if-absent make racing check-ins converge on one record, and the
// streak tracker fires only for the call that created it.
type CheckInService struct {
	repo      attendanceRepository
	streaks   streakTracker
	clock     *bell.Clock
	policy    dayTypePolicy
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCheckInService constructs the check-in recorder.
func NewCheckInService(repo attendanceRepository, streaks streakTracker, clock *bell.Clock, policy dayTypePolicy, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *CheckInService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckInService{
		repo:      repo,
		streaks:   streaks,
		clock:     clock,
		policy:    policy,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		locks:     make(map[string]*sync.Mutex),
	}
}

// CheckInRequest is the arrival payload.
type CheckInRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Period    int    `json:"period" validate:"required,min=1"`
	DayType   string `json:"day_type"`
	Source    string `json:"source" validate:"omitempty,oneof=self teacher"`
}

// CheckInResult bundles the record with the streak after the check-in.
type CheckInResult struct {
	Record    *models.AttendanceRecord `json:"record"`
	Streak    *models.Streak           `json:"streak"`
	Duplicate bool                     `json:"duplicate"`
}

func (s *CheckInService) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// DayType resolves the effective day type: request value, then settings
// override, then the weekday default.
func (s *CheckInService) DayType(ctx context.Context, requested string, now time.Time) string {
	if requested != "" {
		return requested
	}
	if override := s.policy.DayTypeOverride(ctx); override != "" {
		return override
	}
	return s.clock.DefaultDayType(now)
}

// CheckIn classifies the arrival and records it. A repeat call for the
// same (student, date, period) returns the original record untouched and
// leaves the streak alone.
func (s *CheckInService) CheckIn(ctx context.Context, req CheckInRequest, now time.Time) (*CheckInResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid check-in payload")
	}

	dayType := s.DayType(ctx, req.DayType, now)
	verdict := s.clock.ClassifyArrival(dayType, req.Period, now, s.policy.GraceMinutes(ctx))
	if !verdict.Scheduled {
		return nil, appErrors.Clone(appErrors.ErrNoScheduledClass,
			fmt.Sprintf("no period %d scheduled for day type %q", req.Period, dayType))
	}

	source := models.CheckInSource(req.Source)
	if source == "" {
		source = models.CheckInSourceSelf
	}

	date := verdict.Window.Start.Format(models.DateLayout)
	key := fmt.Sprintf("%s|%s|%d", req.StudentID, date, req.Period)
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	record := &models.AttendanceRecord{
		StudentID:   req.StudentID,
		Date:        date,
		Period:      req.Period,
		CheckInTime: now,
		IsLate:      !verdict.OnTime,
		MinutesLate: verdict.MinutesLate,
		SecondsLate: verdict.SecondsLate,
		PeriodStart: verdict.Window.Start,
		PeriodEnd:   verdict.Window.End,
		Source:      source,
	}

	stored, created, err := s.repo.InsertIfAbsent(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record check-in")
	}

	if !created {
		streak, err := s.streaks.Get(ctx, req.StudentID)
		if err != nil {
			return nil, err
		}
		return &CheckInResult{Record: stored, Streak: streak, Duplicate: true}, nil
	}

	streak, err := s.streaks.Update(ctx, req.StudentID, verdict.OnTime, date, now)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveCheckIn(verdict.OnTime)
	s.logger.Info("check-in recorded",
		zap.String("student_id", req.StudentID),
		zap.String("date", date),
		zap.Int("period", req.Period),
		zap.Bool("on_time", verdict.OnTime),
		zap.Int("minutes_late", verdict.MinutesLate),
	)

	return &CheckInResult{Record: stored, Streak: streak}, nil
}

// List returns records for a date or student.
func (s *CheckInService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list check-ins")
	}
	return rows, nil
}

// History returns a student's records over the trailing N days.
func (s *CheckInService) History(ctx context.Context, studentID string, days int, now time.Time) ([]models.AttendanceRecord, error) {
	if days <= 0 {
		days = 30
	}
	to := now.Format(models.DateLayout)
	from := now.AddDate(0, 0, -days).Format(models.DateLayout)
	rows, err := s.repo.StudentHistory(ctx, studentID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance history")
	}
	return rows, nil
}
