package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hallpass-api/internal/models"
)

func hallPassRows(trips ...models.HallPassTrip) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "student_id", "date", "reason", "committed_minutes", "check_out_time",
		"committed_return_time", "actual_return_time", "status", "duration_minutes",
		"over_under_minutes", "created_at", "updated_at",
	})
	for _, trip := range trips {
		rows.AddRow(
			trip.ID, trip.StudentID, trip.Date, trip.Reason, trip.CommittedMinutes, trip.CheckOutTime,
			trip.CommittedReturnTime, trip.ActualReturnTime, trip.Status, trip.DurationMinutes,
			trip.OverUnderMinutes, trip.CreatedAt, trip.UpdatedAt,
		)
	}
	return rows
}

func TestHallPassRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewHallPassRepository(db)

	now := time.Now().UTC()
	trip := models.HallPassTrip{
		StudentID:           "stu-1",
		Date:                "2025-03-03",
		Reason:              "washroom",
		CommittedMinutes:    5,
		CheckOutTime:        now,
		CommittedReturnTime: now.Add(5 * time.Minute),
		Status:              models.TripStatusOut,
	}

	mock.ExpectExec("INSERT INTO hallpass_trips").
		WithArgs(sqlmock.AnyArg(), "stu-1", "2025-03-03", "washroom", 5, sqlmock.AnyArg(), sqlmock.AnyArg(), nil, models.TripStatusOut, nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Insert(context.Background(), &trip))
	assert.NotEmpty(t, trip.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHallPassRepositoryActiveNone(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewHallPassRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM hallpass_trips WHERE date").
		WithArgs("2025-03-03", models.TripStatusOut).
		WillReturnError(sql.ErrNoRows)

	trip, err := repo.Active(context.Background(), "2025-03-03")
	assert.Nil(t, trip)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHallPassRepositoryQueueOrder(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewHallPassRepository(db)

	now := time.Now().UTC()
	first := models.HallPassTrip{ID: "trip-1", StudentID: "stu-1", Date: "2025-03-03", Status: models.TripStatusQueued, CheckOutTime: now, CreatedAt: now, UpdatedAt: now}
	second := models.HallPassTrip{ID: "trip-2", StudentID: "stu-2", Date: "2025-03-03", Status: models.TripStatusQueued, CheckOutTime: now.Add(time.Minute), CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery("SELECT (.+) FROM hallpass_trips WHERE date").
		WithArgs("2025-03-03", models.TripStatusQueued).
		WillReturnRows(hallPassRows(first, second))

	queue, err := repo.Queue(context.Background(), "2025-03-03")
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, "trip-1", queue[0].ID)
	assert.Equal(t, "trip-2", queue[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHallPassRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewHallPassRepository(db)

	now := time.Now().UTC()
	duration := 20
	over := 5
	trip := models.HallPassTrip{
		ID:                  "trip-1",
		CheckOutTime:        now.Add(-20 * time.Minute),
		CommittedReturnTime: now.Add(-5 * time.Minute),
		ActualReturnTime:    &now,
		Status:              models.TripStatusReturned,
		DurationMinutes:     &duration,
		OverUnderMinutes:    &over,
	}

	mock.ExpectExec("UPDATE hallpass_trips").
		WithArgs("trip-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), models.TripStatusReturned, &duration, &over, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), &trip))
	assert.NoError(t, mock.ExpectationsWereMet())
}
