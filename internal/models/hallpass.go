package models

import "time"

// TripStatus is the hall-pass trip lifecycle tag.
// queued → out → returned; cancelled is terminal from queued or out.
type TripStatus string

const (
	TripStatusQueued    TripStatus = "queued"
	TripStatusOut       TripStatus = "out"
	TripStatusReturned  TripStatus = "returned"
	TripStatusCancelled TripStatus = "cancelled"
)

// Valid returns true when the status is a supported value.
func (s TripStatus) Valid() bool {
	switch s {
	case TripStatusQueued, TripStatusOut, TripStatusReturned, TripStatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is allowed.
func (s TripStatus) Terminal() bool {
	return s == TripStatusReturned || s == TripStatusCancelled
}

// HallPassTrip is one supervised absence. CommittedReturnTime is advisory;
// over/under minutes are only computed retrospectively on return.
type HallPassTrip struct {
	ID                  string     `db:"id" json:"id"`
	StudentID           string     `db:"student_id" json:"student_id"`
	Date                string     `db:"date" json:"date"`
	Reason              string     `db:"reason" json:"reason"`
	CommittedMinutes    int        `db:"committed_minutes" json:"committed_minutes"`
	CheckOutTime        time.Time  `db:"check_out_time" json:"check_out_time"`
	CommittedReturnTime time.Time  `db:"committed_return_time" json:"committed_return_time"`
	ActualReturnTime    *time.Time `db:"actual_return_time" json:"actual_return_time,omitempty"`
	Status              TripStatus `db:"status" json:"status"`
	DurationMinutes     *int       `db:"duration_minutes" json:"duration_minutes,omitempty"`
	OverUnderMinutes    *int       `db:"over_under_minutes" json:"over_under_minutes,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// CooldownStatus reports whether a student must wait before another pass.
type CooldownStatus struct {
	OnCooldown       bool `json:"on_cooldown"`
	RemainingMinutes int  `json:"remaining_minutes,omitempty"`
}
