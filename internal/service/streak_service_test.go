package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/hallpass-api/internal/models"
)

type mockStreakRepo struct {
	streaks map[string]*models.Streak
}

func (m *mockStreakRepo) Get(ctx context.Context, studentID string) (*models.Streak, error) {
	if s, ok := m.streaks[studentID]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStreakRepo) Upsert(ctx context.Context, streak *models.Streak) error {
	if m.streaks == nil {
		m.streaks = make(map[string]*models.Streak)
	}
	copied := *streak
	m.streaks[streak.StudentID] = &copied
	return nil
}

func TestStreakGetDefaultsToZero(t *testing.T) {
	svc := NewStreakService(&mockStreakRepo{}, zap.NewNop(), nil)

	streak, err := svc.Get(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.False(t, streak.StreakInDanger)
}

func TestStreakProtectionSequence(t *testing.T) {
	svc := NewStreakService(&mockStreakRepo{}, zap.NewNop(), nil)
	ctx := context.Background()
	now := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

	// Ten on-time check-ins build a protected streak.
	var streak *models.Streak
	var err error
	for i := 0; i < 10; i++ {
		date := now.AddDate(0, 0, i).Format(models.DateLayout)
		streak, err = svc.Update(ctx, "stu-1", true, date, now)
		require.NoError(t, err)
	}
	assert.Equal(t, 10, streak.CurrentStreak)
	assert.Equal(t, 10, streak.LongestStreak)
	assert.False(t, streak.StreakInDanger)

	// First late arrival: streak survives but enters danger.
	streak, err = svc.Update(ctx, "stu-1", false, "2025-03-13", now)
	require.NoError(t, err)
	assert.Equal(t, 10, streak.CurrentStreak)
	assert.True(t, streak.StreakInDanger)

	// Second late arrival: the forgiveness is spent, streak resets.
	streak, err = svc.Update(ctx, "stu-1", false, "2025-03-14", now)
	require.NoError(t, err)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.False(t, streak.StreakInDanger)
	assert.Equal(t, 10, streak.LongestStreak)
}

func TestStreakDangerClearedByOnTime(t *testing.T) {
	repo := &mockStreakRepo{streaks: map[string]*models.Streak{
		"stu-1": {StudentID: "stu-1", CurrentStreak: 12, LongestStreak: 12, StreakInDanger: true},
	}}
	svc := NewStreakService(repo, zap.NewNop(), nil)

	streak, err := svc.Update(context.Background(), "stu-1", true, "2025-03-05", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 13, streak.CurrentStreak)
	assert.False(t, streak.StreakInDanger)
	require.NotNil(t, streak.LastOnTimeDate)
	assert.Equal(t, "2025-03-05", *streak.LastOnTimeDate)
}

func TestStreakBelowThresholdResetsImmediately(t *testing.T) {
	repo := &mockStreakRepo{streaks: map[string]*models.Streak{
		"stu-1": {StudentID: "stu-1", CurrentStreak: 9, LongestStreak: 9},
	}}
	svc := NewStreakService(repo, zap.NewNop(), nil)

	streak, err := svc.Update(context.Background(), "stu-1", false, "2025-03-05", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.False(t, streak.StreakInDanger)
	assert.Equal(t, 9, streak.LongestStreak)
}
