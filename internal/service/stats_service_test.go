package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStatsRepo struct {
	total int
	late  int
	calls int
}

func (m *mockStatsRepo) Stats(ctx context.Context, fromDate string) (int, int, error) {
	m.calls++
	return m.total, m.late, nil
}

func TestAttendanceStatsComputesRate(t *testing.T) {
	repo := &mockStatsRepo{total: 40, late: 6}
	svc := NewStatsService(repo, nil, time.Minute, zap.NewNop(), nil)

	stats, err := svc.AttendanceStats(context.Background(), 30, monday(9, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 30, stats.Days)
	assert.Equal(t, 40, stats.TotalCheckins)
	assert.Equal(t, 34, stats.OnTimeCheckins)
	assert.Equal(t, 6, stats.LateCheckins)
	assert.Equal(t, 85, stats.OnTimeRate)
	assert.Equal(t, 1, repo.calls)
}

func TestAttendanceStatsEmptyWindow(t *testing.T) {
	svc := NewStatsService(&mockStatsRepo{}, nil, time.Minute, zap.NewNop(), nil)

	stats, err := svc.AttendanceStats(context.Background(), 0, monday(9, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 30, stats.Days)
	assert.Equal(t, 0, stats.OnTimeRate)
}
