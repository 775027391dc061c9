package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hallpass-api/internal/models"
)

// StreakRepository persists the one-row-per-student streak store.
type StreakRepository struct {
	db *sqlx.DB
}

// NewStreakRepository constructs the repository.
func NewStreakRepository(db *sqlx.DB) *StreakRepository {
	return &StreakRepository{db: db}
}

// Get returns the student's streak, or sql.ErrNoRows when the student has
// never checked in. Callers default to the zero streak in that case.
func (r *StreakRepository) Get(ctx context.Context, studentID string) (*models.Streak, error) {
	query := `SELECT student_id, current_streak, longest_streak, streak_in_danger, last_on_time_date, updated_at
FROM streaks WHERE student_id = $1`
	var streak models.Streak
	if err := r.db.GetContext(ctx, &streak, query, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get streak: %w", err)
	}
	return &streak, nil
}

// Upsert writes the streak row, creating it on first reference.
func (r *StreakRepository) Upsert(ctx context.Context, streak *models.Streak) error {
	if streak.UpdatedAt.IsZero() {
		streak.UpdatedAt = time.Now().UTC()
	}
	query := `INSERT INTO streaks (student_id, current_streak, longest_streak, streak_in_danger, last_on_time_date, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (student_id)
DO UPDATE SET current_streak = EXCLUDED.current_streak,
	longest_streak = EXCLUDED.longest_streak,
	streak_in_danger = EXCLUDED.streak_in_danger,
	last_on_time_date = EXCLUDED.last_on_time_date,
	updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query,
		streak.StudentID, streak.CurrentStreak, streak.LongestStreak,
		streak.StreakInDanger, streak.LastOnTimeDate, streak.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert streak: %w", err)
	}
	return nil
}
