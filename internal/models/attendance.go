package models

import "time"

// CheckInSource identifies who triggered a check-in.
type CheckInSource string

const (
	CheckInSourceSelf    CheckInSource = "self"
	CheckInSourceTeacher CheckInSource = "teacher"
)

// Valid returns true when the source is a supported value.
func (s CheckInSource) Valid() bool {
	switch s {
	case CheckInSourceSelf, CheckInSourceTeacher:
		return true
	default:
		return false
	}
}

// AttendanceRecord is one student's arrival for one period on one day.
// At most one row exists per (student_id, date, period); creation is
// idempotent and rows are never mutated afterwards. The resolved period
// window is stored alongside the verdict so it stays auditable after
// schedule edits.
type AttendanceRecord struct {
	ID          string        `db:"id" json:"id"`
	StudentID   string        `db:"student_id" json:"student_id"`
	Date        string        `db:"date" json:"date"`
	Period      int           `db:"period" json:"period"`
	CheckInTime time.Time     `db:"check_in_time" json:"check_in_time"`
	IsLate      bool          `db:"is_late" json:"is_late"`
	MinutesLate int           `db:"minutes_late" json:"minutes_late"`
	SecondsLate int           `db:"seconds_late" json:"seconds_late"`
	PeriodStart time.Time     `db:"period_start" json:"period_start"`
	PeriodEnd   time.Time     `db:"period_end" json:"period_end"`
	Source      CheckInSource `db:"source" json:"source"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}

// AttendanceFilter defines query filters for listing records.
type AttendanceFilter struct {
	Date      string
	StudentID string
	Period    *int
}

// AttendanceStats aggregates check-ins over a window of days.
type AttendanceStats struct {
	Days           int       `json:"days"`
	TotalCheckins  int       `json:"total_checkins"`
	OnTimeCheckins int       `json:"on_time_checkins"`
	LateCheckins   int       `json:"late_checkins"`
	OnTimeRate     int       `json:"on_time_rate"`
	GeneratedAt    time.Time `json:"generated_at"`
}
