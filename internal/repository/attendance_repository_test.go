package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hallpass-api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func attendanceRows(record models.AttendanceRecord) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "student_id", "date", "period", "check_in_time", "is_late",
		"minutes_late", "seconds_late", "period_start", "period_end", "source", "created_at",
	}).AddRow(
		record.ID, record.StudentID, record.Date, record.Period, record.CheckInTime, record.IsLate,
		record.MinutesLate, record.SecondsLate, record.PeriodStart, record.PeriodEnd, record.Source, record.CreatedAt,
	)
}

func TestAttendanceRepositoryInsertIfAbsentCreates(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	now := time.Now().UTC()
	record := models.AttendanceRecord{
		StudentID:   "stu-1",
		Date:        "2025-03-03",
		Period:      1,
		CheckInTime: now,
		PeriodStart: now.Add(-time.Minute),
		PeriodEnd:   now.Add(79 * time.Minute),
		Source:      models.CheckInSourceSelf,
	}

	mock.ExpectQuery("INSERT INTO attendance").
		WithArgs(sqlmock.AnyArg(), "stu-1", "2025-03-03", 1, sqlmock.AnyArg(), false, 0, 0, sqlmock.AnyArg(), sqlmock.AnyArg(), models.CheckInSourceSelf, sqlmock.AnyArg()).
		WillReturnRows(attendanceRows(models.AttendanceRecord{ID: "att-1", StudentID: "stu-1", Date: "2025-03-03", Period: 1, CheckInTime: now, Source: models.CheckInSourceSelf, CreatedAt: now}))

	stored, created, err := repo.InsertIfAbsent(context.Background(), &record)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "att-1", stored.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryInsertIfAbsentReturnsExisting(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	now := time.Now().UTC()
	existing := models.AttendanceRecord{
		ID: "att-first", StudentID: "stu-1", Date: "2025-03-03", Period: 1,
		CheckInTime: now.Add(-5 * time.Minute), Source: models.CheckInSourceSelf, CreatedAt: now.Add(-5 * time.Minute),
	}

	// ON CONFLICT DO NOTHING yields no row, then the existing row is fetched.
	mock.ExpectQuery("INSERT INTO attendance").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT (.+) FROM attendance WHERE student_id").
		WithArgs("stu-1", "2025-03-03", 1).
		WillReturnRows(attendanceRows(existing))

	record := models.AttendanceRecord{StudentID: "stu-1", Date: "2025-03-03", Period: 1, CheckInTime: now}
	stored, created, err := repo.InsertIfAbsent(context.Background(), &record)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "att-first", stored.ID)
	assert.Equal(t, existing.CheckInTime, stored.CheckInTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryStats(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("2025-02-01").
		WillReturnRows(sqlmock.NewRows([]string{"total", "late"}).AddRow(40, 6))

	total, late, err := repo.Stats(context.Background(), "2025-02-01")
	require.NoError(t, err)
	assert.Equal(t, 40, total)
	assert.Equal(t, 6, late)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryStudentHistory(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM attendance WHERE student_id").
		WithArgs("stu-1", "2025-02-01", "2025-03-03").
		WillReturnRows(attendanceRows(models.AttendanceRecord{ID: "att-1", StudentID: "stu-1", Date: "2025-02-10", Period: 2, CheckInTime: now, CreatedAt: now, Source: models.CheckInSourceSelf}))

	rows, err := repo.StudentHistory(context.Background(), "stu-1", "2025-02-01", "2025-03-03")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Period)
	assert.NoError(t, mock.ExpectationsWereMet())
}
