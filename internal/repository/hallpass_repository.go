package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hallpass-api/internal/models"
)

const hallPassColumns = `id, student_id, date, reason, committed_minutes, check_out_time, committed_return_time, actual_return_time, status, duration_minutes, over_under_minutes, created_at, updated_at`

// HallPassRepository persists hall-pass trips.
type HallPassRepository struct {
	db *sqlx.DB
}

// NewHallPassRepository constructs the repository.
func NewHallPassRepository(db *sqlx.DB) *HallPassRepository {
	return &HallPassRepository{db: db}
}

// Insert stores a new trip.
func (r *HallPassRepository) Insert(ctx context.Context, trip *models.HallPassTrip) error {
	now := time.Now().UTC()
	if trip.ID == "" {
		trip.ID = uuid.NewString()
	}
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = now
	}
	trip.UpdatedAt = now

	query := `INSERT INTO hallpass_trips (id, student_id, date, reason, committed_minutes, check_out_time, committed_return_time, actual_return_time, status, duration_minutes, over_under_minutes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err := r.db.ExecContext(ctx, query,
		trip.ID, trip.StudentID, trip.Date, trip.Reason, trip.CommittedMinutes,
		trip.CheckOutTime, trip.CommittedReturnTime, trip.ActualReturnTime,
		trip.Status, trip.DurationMinutes, trip.OverUnderMinutes,
		trip.CreatedAt, trip.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert hall pass trip: %w", err)
	}
	return nil
}

// FindByID returns a trip or sql.ErrNoRows.
func (r *HallPassRepository) FindByID(ctx context.Context, id string) (*models.HallPassTrip, error) {
	query := fmt.Sprintf(`SELECT %s FROM hallpass_trips WHERE id = $1`, hallPassColumns)
	var trip models.HallPassTrip
	if err := r.db.GetContext(ctx, &trip, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find hall pass trip: %w", err)
	}
	return &trip, nil
}

// Update rewrites a trip's mutable lifecycle fields.
func (r *HallPassRepository) Update(ctx context.Context, trip *models.HallPassTrip) error {
	trip.UpdatedAt = time.Now().UTC()
	query := `UPDATE hallpass_trips
SET check_out_time = $2, committed_return_time = $3, actual_return_time = $4, status = $5,
	duration_minutes = $6, over_under_minutes = $7, updated_at = $8
WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		trip.ID, trip.CheckOutTime, trip.CommittedReturnTime, trip.ActualReturnTime,
		trip.Status, trip.DurationMinutes, trip.OverUnderMinutes, trip.UpdatedAt,
	); err != nil {
		return fmt.Errorf("update hall pass trip: %w", err)
	}
	return nil
}

// Active returns the trip currently out for the date, or sql.ErrNoRows.
// The single-active-trip rule is a service invariant; the query just
// reflects it.
func (r *HallPassRepository) Active(ctx context.Context, date string) (*models.HallPassTrip, error) {
	query := fmt.Sprintf(`SELECT %s FROM hallpass_trips WHERE date = $1 AND status = $2 ORDER BY check_out_time ASC LIMIT 1`, hallPassColumns)
	var trip models.HallPassTrip
	if err := r.db.GetContext(ctx, &trip, query, date, models.TripStatusOut); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("active hall pass trip: %w", err)
	}
	return &trip, nil
}

// Queue returns queued trips for the date, FIFO by checkout instant.
func (r *HallPassRepository) Queue(ctx context.Context, date string) ([]models.HallPassTrip, error) {
	query := fmt.Sprintf(`SELECT %s FROM hallpass_trips WHERE date = $1 AND status = $2 ORDER BY check_out_time ASC`, hallPassColumns)
	var trips []models.HallPassTrip
	if err := r.db.SelectContext(ctx, &trips, query, date, models.TripStatusQueued); err != nil {
		return nil, fmt.Errorf("hall pass queue: %w", err)
	}
	return trips, nil
}

// LastReturned returns a student's most recent returned trip for the date,
// or sql.ErrNoRows when the student has no returned trips that day.
func (r *HallPassRepository) LastReturned(ctx context.Context, studentID, date string) (*models.HallPassTrip, error) {
	query := fmt.Sprintf(`SELECT %s FROM hallpass_trips WHERE student_id = $1 AND date = $2 AND status = $3 ORDER BY actual_return_time DESC LIMIT 1`, hallPassColumns)
	var trip models.HallPassTrip
	if err := r.db.GetContext(ctx, &trip, query, studentID, date, models.TripStatusReturned); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("last returned hall pass trip: %w", err)
	}
	return &trip, nil
}

// ListByDate returns all trips for the date regardless of status, oldest
// first.
func (r *HallPassRepository) ListByDate(ctx context.Context, date string) ([]models.HallPassTrip, error) {
	query := fmt.Sprintf(`SELECT %s FROM hallpass_trips WHERE date = $1 ORDER BY check_out_time ASC`, hallPassColumns)
	var trips []models.HallPassTrip
	if err := r.db.SelectContext(ctx, &trips, query, date); err != nil {
		return nil, fmt.Errorf("list hall pass trips: %w", err)
	}
	return trips, nil
}
