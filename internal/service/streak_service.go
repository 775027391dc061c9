package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hallpass-api/internal/models"
	appErrors "github.com/noah-isme/hallpass-api/pkg/errors"
)

type streakRepository interface {
	Get(ctx context.Context, studentID string) (*models.Streak, error)
	Upsert(ctx context.Context, streak *models.Streak) error
}

// StreakService maintains per-student on-time streaks. Updates are
// read-modify-write over a single row, so each student's updates run
// under a per-student lock and apply in arrival order.
type StreakService struct {
	repo    streakRepository
	logger  *zap.Logger
	metrics *MetricsService

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStreakService constructs the streak tracker.
func NewStreakService(repo streakRepository, logger *zap.Logger, metrics *MetricsService) *StreakService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreakService{repo: repo, logger: logger, metrics: metrics, locks: make(map[string]*sync.Mutex)}
}

func (s *StreakService) studentLock(studentID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[studentID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[studentID] = lock
	}
	return lock
}

// Get returns the student's streak, defaulting to the zero streak when the
// student has never checked in.
func (s *StreakService) Get(ctx context.Context, studentID string) (*models.Streak, error) {
	streak, err := s.repo.Get(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			zero := models.NewStreak(studentID)
			return &zero, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load streak")
	}
	return streak, nil
}

// Update applies one check-in outcome. It is invoked exactly once per
// first check-in per period per day; duplicate check-ins never reach it.
func (s *StreakService) Update(ctx context.Context, studentID string, wasOnTime bool, date string, now time.Time) (*models.Streak, error) {
	lock := s.studentLock(studentID)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}

	next := current.Advance(wasOnTime, date, now.UTC())
	if !wasOnTime && next.StreakInDanger && !current.StreakInDanger {
		s.logger.Info("streak protection used",
			zap.String("student_id", studentID),
			zap.Int("current_streak", next.CurrentStreak),
		)
		s.metrics.ObserveStreakProtection()
	}

	if err := s.repo.Upsert(ctx, &next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist streak")
	}
	return &next, nil
}
