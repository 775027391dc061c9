package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/hallpass-api/internal/bell"
	"github.com/noah-isme/hallpass-api/internal/models"
	appErrors "github.com/noah-isme/hallpass-api/pkg/errors"
)

type mockHallPassRepo struct {
	trips  []*models.HallPassTrip
	nextID int
}

func (m *mockHallPassRepo) Insert(ctx context.Context, trip *models.HallPassTrip) error {
	m.nextID++
	trip.ID = fmt.Sprintf("trip-%d", m.nextID)
	copied := *trip
	m.trips = append(m.trips, &copied)
	return nil
}

func (m *mockHallPassRepo) FindByID(ctx context.Context, id string) (*models.HallPassTrip, error) {
	for _, t := range m.trips {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockHallPassRepo) Update(ctx context.Context, trip *models.HallPassTrip) error {
	for i, t := range m.trips {
		if t.ID == trip.ID {
			copied := *trip
			m.trips[i] = &copied
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockHallPassRepo) Active(ctx context.Context, date string) (*models.HallPassTrip, error) {
	for _, t := range m.trips {
		if t.Date == date && t.Status == models.TripStatusOut {
			copied := *t
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockHallPassRepo) Queue(ctx context.Context, date string) ([]models.HallPassTrip, error) {
	var out []models.HallPassTrip
	for _, t := range m.trips {
		if t.Date == date && t.Status == models.TripStatusQueued {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockHallPassRepo) LastReturned(ctx context.Context, studentID, date string) (*models.HallPassTrip, error) {
	var last *models.HallPassTrip
	for _, t := range m.trips {
		if t.StudentID != studentID || t.Date != date || t.Status != models.TripStatusReturned {
			continue
		}
		if last == nil || t.ActualReturnTime.After(*last.ActualReturnTime) {
			last = t
		}
	}
	if last == nil {
		return nil, sql.ErrNoRows
	}
	copied := *last
	return &copied, nil
}

func (m *mockHallPassRepo) ListByDate(ctx context.Context, date string) ([]models.HallPassTrip, error) {
	var out []models.HallPassTrip
	for _, t := range m.trips {
		if t.Date == date {
			out = append(out, *t)
		}
	}
	return out, nil
}

func newTestHallPassService(repo *mockHallPassRepo, policy *stubPolicy) *HallPassService {
	clock := bell.NewClock(nil, time.UTC)
	return NewHallPassService(repo, clock, policy, nil, zap.NewNop(), nil)
}

func defaultPassPolicy() *stubPolicy {
	return &stubPolicy{grace: 2, cooldown: 20, start: 10, end: 10}
}

func passRequest(studentID string) TripRequest {
	return TripRequest{StudentID: studentID, Reason: "washroom", CommittedMinutes: 5, Period: 1}
}

func TestHallPassRequestGoesOut(t *testing.T) {
	repo := &mockHallPassRepo{}
	svc := newTestHallPassService(repo, defaultPassPolicy())

	// Monday period 1 runs 08:40-10:00; 09:00 clears both blackout edges.
	trip, err := svc.Request(context.Background(), passRequest("stu-1"), monday(9, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, models.TripStatusOut, trip.Status)
	assert.Equal(t, monday(9, 5, 0), trip.CommittedReturnTime)
}

func TestHallPassSecondRequestQueues(t *testing.T) {
	repo := &mockHallPassRepo{}
	svc := newTestHallPassService(repo, defaultPassPolicy())

	_, err := svc.Request(context.Background(), passRequest("stu-1"), monday(9, 0, 0))
	require.NoError(t, err)

	second, err := svc.Request(context.Background(), passRequest("stu-2"), monday(9, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, models.TripStatusQueued, second.Status)
}

func TestHallPassLocked(t *testing.T) {
	policy := defaultPassPolicy()
	policy.locked = true
	svc := newTestHallPassService(&mockHallPassRepo{}, policy)

	_, err := svc.Request(context.Background(), passRequest("stu-1"), monday(9, 0, 0))
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrPassLocked.Code, appErr.Code)
}

func TestHallPassBlackoutAtPeriodStart(t *testing.T) {
	svc := newTestHallPassService(&mockHallPassRepo{}, defaultPassPolicy())

	// 08:45 is five minutes into a ten-minute opening blackout.
	_, err := svc.Request(context.Background(), passRequest("stu-1"), monday(8, 45, 0))
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrPassBlackout.Code, appErr.Code)
	assert.Equal(t, "available in 5 minutes", appErr.Message)
}

func TestHallPassCompleteArithmetic(t *testing.T) {
	repo := &mockHallPassRepo{}
	svc := newTestHallPassService(repo, defaultPassPolicy())

	trip, err := svc.Request(context.Background(), passRequest("stu-1"), monday(9, 0, 0))
	require.NoError(t, err)

	// Out 9:00, committed 5 minutes, back 9:10: duration 10, over by 5.
	done, err := svc.Complete(context.Background(), trip.ID, monday(9, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, models.TripStatusReturned, done.Status)
	require.NotNil(t, done.DurationMinutes)
	require.NotNil(t, done.OverUnderMinutes)
	assert.Equal(t, 10, *done.DurationMinutes)
	assert.Equal(t, 5, *done.OverUnderMinutes)
}

func TestHallPassCompleteEarlyReturn(t *testing.T) {
	repo := &mockHallPassRepo{}
	svc := newTestHallPassService(repo, defaultPassPolicy())

	trip, err := svc.Request(context.Background(), passRequest("stu-1"), monday(9, 0, 0))
	require.NoError(t, err)

	done, err := svc.Complete(context.Background(), trip.ID, monday(9, 3, 0))
	require.NoError(t, err)
	assert.Equal(t, 3, *done.DurationMinutes)
	assert.Equal(t, -2, *done.OverUnderMinutes)
}

func TestHallPassCompleteUnknownTrip(t *testing.T) {
	svc := newTestHallPassService(&mockHallPassRepo{}, defaultPassPolicy())

	done, err := svc.Complete(context.Background(), "missing", monday(9, 10, 0))
	require.NoError(t, err)
	assert.Nil(t, done)
}

func TestHallPassCompleteTerminalIsNoop(t *testing.T) {
	repo := &mockHallPassRepo{}
	svc := newTestHallPassService(repo, defaultPassPolicy())

	trip, err := svc.Request(context.Background(), passRequest("stu-1"), monday(9, 0, 0))
	require.NoError(t, err)
	first, err := svc.Complete(context.Background(), trip.ID, monday(9, 10, 0))
	require.NoError(t, err)

	again, err := svc.Complete(context.Background(), trip.ID, monday(9, 30, 0))
	require.NoError(t, err)
	assert.Equal(t, *first.DurationMinutes, *again.DurationMinutes)
	assert.Equal(t, first.ActualReturnTime.Unix(), again.ActualReturnTime.Unix())
}

func TestHallPassCooldown(t *testing.T) {
	repo := &mockHallPassRepo{}
	svc := newTestHallPassService(repo, defaultPassPolicy())

	trip, err := svc.Request(context.Background(), passRequest("stu-1"), monday(9, 0, 0))
	require.NoError(t, err)
	_, err = svc.Complete(context.Background(), trip.ID, monday(9, 5, 0))
	require.NoError(t, err)

	// 19 minutes after return: still cooling down, one minute to go.
	status, err := svc.Cooldown(context.Background(), "stu-1", monday(9, 24, 0))
	require.NoError(t, err)
	assert.True(t, status.OnCooldown)
	assert.Equal(t, 1, status.RemainingMinutes)

	// Exactly 20 minutes after return: clear.
	status, err = svc.Cooldown(context.Background(), "stu-1", monday(9, 25, 0))
	require.NoError(t, err)
	assert.False(t, status.OnCooldown)

	_, err = svc.Request(context.Background(), passRequest("stu-1"), monday(9, 24, 0))
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrOnCooldown.Code, appErr.Code)
}

func TestHallPassCancelledTripStartsNoCooldown(t *testing.T) {
	repo := &mockHallPassRepo{}
	svc := newTestHallPassService(repo, defaultPassPolicy())

	trip, err := svc.Request(context.Background(), passRequest("stu-1"), monday(9, 0, 0))
	require.NoError(t, err)
	cancelled, err := svc.Cancel(context.Background(), trip.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TripStatusCancelled, cancelled.Status)

	status, err := svc.Cooldown(context.Background(), "stu-1", monday(9, 1, 0))
	require.NoError(t, err)
	assert.False(t, status.OnCooldown)
}

func TestHallPassPromoteFIFO(t *testing.T) {
	repo := &mockHallPassRepo{}
	svc := newTestHallPassService(repo, defaultPassPolicy())

	active, err := svc.Request(context.Background(), passRequest("stu-1"), monday(9, 0, 0))
	require.NoError(t, err)
	queuedFirst, err := svc.Request(context.Background(), passRequest("stu-2"), monday(9, 1, 0))
	require.NoError(t, err)
	_, err = svc.Request(context.Background(), passRequest("stu-3"), monday(9, 2, 0))
	require.NoError(t, err)

	// Promotion refuses while someone is still out.
	_, err = svc.Promote(context.Background(), "", monday(9, 3, 0))
	require.Error(t, err)

	_, err = svc.Complete(context.Background(), active.ID, monday(9, 4, 0))
	require.NoError(t, err)

	promoted, err := svc.Promote(context.Background(), "", monday(9, 5, 0))
	require.NoError(t, err)
	require.NotNil(t, promoted)
	assert.Equal(t, queuedFirst.ID, promoted.ID)
	assert.Equal(t, models.TripStatusOut, promoted.Status)
	// The committed window restarts at promotion, not at queue entry.
	assert.Equal(t, monday(9, 5, 0), promoted.CheckOutTime)
	assert.Equal(t, monday(9, 10, 0), promoted.CommittedReturnTime)
}

func TestHallPassPromoteEmptyQueue(t *testing.T) {
	svc := newTestHallPassService(&mockHallPassRepo{}, defaultPassPolicy())

	promoted, err := svc.Promote(context.Background(), "", monday(9, 0, 0))
	require.NoError(t, err)
	assert.Nil(t, promoted)
}
