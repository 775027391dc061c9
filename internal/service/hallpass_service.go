package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hallpass-api/internal/bell"
	"github.com/noah-isme/hallpass-api/internal/models"
	appErrors "github.com/noah-isme/hallpass-api/pkg/errors"
)

type hallPassRepository interface {
	Insert(ctx context.Context, trip *models.HallPassTrip) error
	FindByID(ctx context.Context, id string) (*models.HallPassTrip, error)
	Update(ctx context.Context, trip *models.HallPassTrip) error
	Active(ctx context.Context, date string) (*models.HallPassTrip, error)
	Queue(ctx context.Context, date string) ([]models.HallPassTrip, error)
	LastReturned(ctx context.Context, studentID, date string) (*models.HallPassTrip, error)
	ListByDate(ctx context.Context, date string) ([]models.HallPassTrip, error)
}

type passPolicy interface {
	DayTypeOverride(ctx context.Context) string
	CooldownMinutes(ctx context.Context) int
	BlackoutWindow(ctx context.Context) (int, int)
	HallPassLocked(ctx context.Context) bool
}

// HallPassService runs the trip lifecycle: request gates (lock, blackout,
// cooldown), the single-active-trip rule with a FIFO queue, completion
// arithmetic, and promotion. The per-date mutex keeps the active/queued
// decision atomic across concurrent requests.
type HallPassService struct {
	repo      hallPassRepository
	clock     *bell.Clock
	policy    passPolicy
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewHallPassService constructs the hall-pass lifecycle service.
func NewHallPassService(repo hallPassRepository, clock *bell.Clock, policy passPolicy, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *HallPassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HallPassService{
		repo:      repo,
		clock:     clock,
		policy:    policy,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		locks:     make(map[string]*sync.Mutex),
	}
}

// TripRequest is the checkout payload.
type TripRequest struct {
	StudentID        string `json:"student_id" validate:"required"`
	Reason           string `json:"reason" validate:"required"`
	CommittedMinutes int    `json:"committed_minutes" validate:"required,min=1,max=60"`
	Period           int    `json:"period" validate:"required,min=1"`
	DayType          string `json:"day_type"`
}

func (s *HallPassService) dateLock(date string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[date]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[date] = lock
	}
	return lock
}

func (s *HallPassService) dayType(ctx context.Context, requested string, now time.Time) string {
	if requested != "" {
		return requested
	}
	if override := s.policy.DayTypeOverride(ctx); override != "" {
		return override
	}
	return s.clock.DefaultDayType(now)
}

// Request checks a student out (or queues them when someone is already
// out). Gates run in order: global lock, period blackout, cooldown.
func (s *HallPassService) Request(ctx context.Context, req TripRequest, now time.Time) (*models.HallPassTrip, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid hall pass request")
	}

	if s.policy.HallPassLocked(ctx) {
		return nil, appErrors.ErrPassLocked
	}

	dayType := s.dayType(ctx, req.DayType, now)
	startMin, endMin := s.policy.BlackoutWindow(ctx)
	if blackout := s.clock.PassBlackout(dayType, req.Period, now, startMin, endMin); blackout.Blackout {
		return nil, appErrors.Clone(appErrors.ErrPassBlackout, blackout.Reason)
	}

	date := now.Format(models.DateLayout)
	lock := s.dateLock(date)
	lock.Lock()
	defer lock.Unlock()

	cooldown, err := s.cooldown(ctx, req.StudentID, date, now)
	if err != nil {
		return nil, err
	}
	if cooldown.OnCooldown {
		return nil, appErrors.Clone(appErrors.ErrOnCooldown,
			fmt.Sprintf("hall pass available in %d minutes", cooldown.RemainingMinutes))
	}

	status := models.TripStatusOut
	if _, err := s.repo.Active(ctx, date); err == nil {
		status = models.TripStatusQueued
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check active trip")
	}

	trip := &models.HallPassTrip{
		StudentID:           req.StudentID,
		Date:                date,
		Reason:              req.Reason,
		CommittedMinutes:    req.CommittedMinutes,
		CheckOutTime:        now,
		CommittedReturnTime: now.Add(time.Duration(req.CommittedMinutes) * time.Minute),
		Status:              status,
	}
	if err := s.repo.Insert(ctx, trip); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create trip")
	}

	s.metrics.ObserveTrip(status)
	s.logger.Info("hall pass requested",
		zap.String("trip_id", trip.ID),
		zap.String("student_id", req.StudentID),
		zap.String("status", string(status)),
		zap.Int("committed_minutes", req.CommittedMinutes),
	)
	return trip, nil
}

// Complete marks a trip returned and computes its duration arithmetic.
// Unknown IDs return (nil, nil); terminal trips come back unchanged.
func (s *HallPassService) Complete(ctx context.Context, tripID string, now time.Time) (*models.HallPassTrip, error) {
	trip, err := s.repo.FindByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trip")
	}
	if trip.Status.Terminal() {
		return trip, nil
	}

	duration := int(math.Round(now.Sub(trip.CheckOutTime).Minutes()))
	overUnder := int(math.Round(now.Sub(trip.CommittedReturnTime).Minutes()))
	returned := now
	trip.ActualReturnTime = &returned
	trip.Status = models.TripStatusReturned
	trip.DurationMinutes = &duration
	trip.OverUnderMinutes = &overUnder

	if err := s.repo.Update(ctx, trip); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete trip")
	}

	s.metrics.ObserveTrip(models.TripStatusReturned)
	s.logger.Info("hall pass completed",
		zap.String("trip_id", trip.ID),
		zap.String("student_id", trip.StudentID),
		zap.Int("duration_minutes", duration),
		zap.Int("over_under_minutes", overUnder),
	)
	return trip, nil
}

// Cancel moves a queued or out trip to cancelled. No cooldown attaches to
// a cancelled trip. Terminal trips come back unchanged.
func (s *HallPassService) Cancel(ctx context.Context, tripID string) (*models.HallPassTrip, error) {
	trip, err := s.repo.FindByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trip")
	}
	if trip.Status.Terminal() {
		return trip, nil
	}

	trip.Status = models.TripStatusCancelled
	if err := s.repo.Update(ctx, trip); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel trip")
	}

	s.metrics.ObserveTrip(models.TripStatusCancelled)
	s.logger.Info("hall pass cancelled", zap.String("trip_id", trip.ID), zap.String("student_id", trip.StudentID))
	return trip, nil
}

// Promote moves the head of the queue out. It refuses while another trip
// is still out, and restamps the checkout clock so the promoted student's
// committed window starts now rather than when they queued.
func (s *HallPassService) Promote(ctx context.Context, date string, now time.Time) (*models.HallPassTrip, error) {
	if date == "" {
		date = now.Format(models.DateLayout)
	}
	lock := s.dateLock(date)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.repo.Active(ctx, date); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a student is already out")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check active trip")
	}

	queue, err := s.repo.Queue(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load queue")
	}
	if len(queue) == 0 {
		return nil, nil
	}

	trip := &queue[0]
	trip.Status = models.TripStatusOut
	trip.CheckOutTime = now
	trip.CommittedReturnTime = now.Add(time.Duration(trip.CommittedMinutes) * time.Minute)
	if err := s.repo.Update(ctx, trip); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to promote trip")
	}

	s.metrics.ObserveTrip(models.TripStatusOut)
	s.logger.Info("hall pass promoted", zap.String("trip_id", trip.ID), zap.String("student_id", trip.StudentID))
	return trip, nil
}

// Active returns the trip currently out for the date, or nil.
func (s *HallPassService) Active(ctx context.Context, date string) (*models.HallPassTrip, error) {
	trip, err := s.repo.Active(ctx, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active trip")
	}
	return trip, nil
}

// Queue returns queued trips for the date in checkout order.
func (s *HallPassService) Queue(ctx context.Context, date string) ([]models.HallPassTrip, error) {
	queue, err := s.repo.Queue(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load queue")
	}
	return queue, nil
}

// ListByDate returns the day's full trip log.
func (s *HallPassService) ListByDate(ctx context.Context, date string) ([]models.HallPassTrip, error) {
	trips, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list trips")
	}
	return trips, nil
}

// Cooldown reports whether the student must wait before another pass.
func (s *HallPassService) Cooldown(ctx context.Context, studentID string, now time.Time) (*models.CooldownStatus, error) {
	return s.cooldown(ctx, studentID, now.Format(models.DateLayout), now)
}

// cooldown counts from the student's last returned trip that day. Only
// returned trips start a cooldown; queued, out, and cancelled do not.
func (s *HallPassService) cooldown(ctx context.Context, studentID, date string, now time.Time) (*models.CooldownStatus, error) {
	last, err := s.repo.LastReturned(ctx, studentID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.CooldownStatus{}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check cooldown")
	}
	if last.ActualReturnTime == nil {
		return &models.CooldownStatus{}, nil
	}

	end := last.ActualReturnTime.Add(time.Duration(s.policy.CooldownMinutes(ctx)) * time.Minute)
	if !now.Before(end) {
		return &models.CooldownStatus{}, nil
	}
	remaining := int(math.Ceil(end.Sub(now).Minutes()))
	return &models.CooldownStatus{OnCooldown: true, RemainingMinutes: remaining}, nil
}
