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

func TestStreakRepositoryGet(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStreakRepository(db)

	date := "2025-03-03"
	mock.ExpectQuery("SELECT (.+) FROM streaks").
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "current_streak", "longest_streak", "streak_in_danger", "last_on_time_date", "updated_at"}).
			AddRow("stu-1", 7, 12, false, &date, time.Now()))

	streak, err := repo.Get(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, 7, streak.CurrentStreak)
	assert.Equal(t, 12, streak.LongestStreak)
	assert.False(t, streak.StreakInDanger)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStreakRepositoryGetAbsent(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStreakRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM streaks").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	streak, err := repo.Get(context.Background(), "ghost")
	assert.Nil(t, streak)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStreakRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStreakRepository(db)

	date := "2025-03-03"
	streak := models.Streak{StudentID: "stu-1", CurrentStreak: 8, LongestStreak: 12, LastOnTimeDate: &date}

	mock.ExpectExec("INSERT INTO streaks").
		WithArgs("stu-1", 8, 12, false, &date, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), &streak))
	assert.NoError(t, mock.ExpectationsWereMet())
}
