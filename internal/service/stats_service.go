package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/hallpass-api/internal/models"
	appErrors "github.com/noah-isme/hallpass-api/pkg/errors"
)

type attendanceStatsRepository interface {
	Stats(ctx context.Context, fromDate string) (total, late int, err error)
}

// StatsService computes attendance aggregates with a Redis cache in front
// of the repository. A nil Redis client degrades to uncached reads.
type StatsService struct {
	repo    attendanceStatsRepository
	redis   *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
	metrics *MetricsService
}

// NewStatsService constructs the stats service.
func NewStatsService(repo attendanceStatsRepository, redisClient *redis.Client, ttl time.Duration, logger *zap.Logger, metrics *MetricsService) *StatsService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{repo: repo, redis: redisClient, ttl: ttl, logger: logger, metrics: metrics}
}

// AttendanceStats returns on-time rates over the trailing N days.
func (s *StatsService) AttendanceStats(ctx context.Context, days int, now time.Time) (*models.AttendanceStats, error) {
	if days <= 0 {
		days = 30
	}

	key := fmt.Sprintf("stats:attendance:%d:%s", days, now.Format(models.DateLayout))
	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	from := now.AddDate(0, 0, -days).Format(models.DateLayout)
	total, late, err := s.repo.Stats(ctx, from)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute attendance stats")
	}

	stats := &models.AttendanceStats{
		Days:           days,
		TotalCheckins:  total,
		OnTimeCheckins: total - late,
		LateCheckins:   late,
		GeneratedAt:    now,
	}
	if total > 0 {
		stats.OnTimeRate = int(math.Round(float64(total-late) / float64(total) * 100))
	}

	s.toCache(ctx, key, stats)
	return stats, nil
}

func (s *StatsService) fromCache(ctx context.Context, key string) *models.AttendanceStats {
	if s.redis == nil {
		return nil
	}
	raw, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		s.metrics.RecordCacheOperation(false)
		return nil
	}
	var stats models.AttendanceStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		s.logger.Warn("corrupt stats cache entry", zap.String("key", key), zap.Error(err))
		return nil
	}
	s.metrics.RecordCacheOperation(true)
	return &stats
}

func (s *StatsService) toCache(ctx context.Context, key string, stats *models.AttendanceStats) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.logger.Warn("failed to cache stats", zap.String("key", key), zap.Error(err))
	}
}
