package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hallpass-api/internal/models"
)

const attendanceColumns = `id, student_id, date, period, check_in_time, is_late, minutes_late, seconds_late, period_start, period_end, source, created_at`

// AttendanceRepository handles persistence for attendance records. The
// attendance table carries a unique index on (student_id, date, period);
// InsertIfAbsent leans on it so racing check-ins can never create two rows.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// InsertIfAbsent atomically creates the record unless one already exists
// for the same (student, date, period). It returns the stored record and
// whether this call created it.
func (r *AttendanceRepository) InsertIfAbsent(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, bool, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO attendance (id, student_id, date, period, check_in_time, is_late, minutes_late, seconds_late, period_start, period_end, source, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (student_id, date, period) DO NOTHING
RETURNING ` + attendanceColumns

	var stored models.AttendanceRecord
	err := r.db.GetContext(ctx, &stored, query,
		record.ID, record.StudentID, record.Date, record.Period,
		record.CheckInTime, record.IsLate, record.MinutesLate, record.SecondsLate,
		record.PeriodStart, record.PeriodEnd, record.Source, record.CreatedAt,
	)
	if err == nil {
		return &stored, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("insert attendance: %w", err)
	}

	existing, err := r.Find(ctx, record.StudentID, record.Date, record.Period)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// Find returns the record for (student, date, period) or sql.ErrNoRows.
func (r *AttendanceRepository) Find(ctx context.Context, studentID, date string, period int) (*models.AttendanceRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance WHERE student_id = $1 AND date = $2 AND period = $3`, attendanceColumns)
	var record models.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, query, studentID, date, period); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return &record, nil
}

// List returns records matching the filter, newest check-in first.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Date != "" {
		where = append(where, fmt.Sprintf("date = $%d", len(args)+1))
		args = append(args, filter.Date)
	}
	if filter.StudentID != "" {
		where = append(where, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Period != nil {
		where = append(where, fmt.Sprintf("period = $%d", len(args)+1))
		args = append(args, *filter.Period)
	}

	query := fmt.Sprintf(`SELECT %s FROM attendance WHERE %s ORDER BY check_in_time DESC`,
		attendanceColumns, strings.Join(where, " AND "))

	var rows []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return rows, nil
}

// StudentHistory returns a student's records between two dates inclusive,
// oldest first.
func (r *AttendanceRepository) StudentHistory(ctx context.Context, studentID, from, to string) ([]models.AttendanceRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance WHERE student_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC, period ASC`, attendanceColumns)
	var rows []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &rows, query, studentID, from, to); err != nil {
		return nil, fmt.Errorf("student attendance history: %w", err)
	}
	return rows, nil
}

// Stats aggregates check-in counts from a starting date onward.
func (r *AttendanceRepository) Stats(ctx context.Context, fromDate string) (total, late int, err error) {
	query := `SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE is_late) AS late FROM attendance WHERE date >= $1`
	row := struct {
		Total int `db:"total"`
		Late  int `db:"late"`
	}{}
	if err := r.db.GetContext(ctx, &row, query, fromDate); err != nil {
		return 0, 0, fmt.Errorf("attendance stats: %w", err)
	}
	return row.Total, row.Late, nil
}
