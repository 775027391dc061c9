package models

import "time"

// StreakPhase tags the protection state machine. A streak that has reached
// double digits survives exactly one late arrival: the first late flips it
// to danger, the next late (or any late below ten) resets the counter.
type StreakPhase string

const (
	StreakPhaseNormal StreakPhase = "normal"
	StreakPhaseDanger StreakPhase = "danger"
)

// ProtectionThreshold is the streak length at which one late arrival is
// forgiven before the reset.
const ProtectionThreshold = 10

// Streak is the per-student on-time counter. Exactly one row per student,
// created lazily with zero defaults on first reference.
type Streak struct {
	StudentID      string     `db:"student_id" json:"student_id"`
	CurrentStreak  int        `db:"current_streak" json:"current_streak"`
	LongestStreak  int        `db:"longest_streak" json:"longest_streak"`
	StreakInDanger bool       `db:"streak_in_danger" json:"streak_in_danger"`
	LastOnTimeDate *string   `db:"last_on_time_date" json:"last_on_time_date,omitempty"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Phase reports which state of the protection machine the streak is in.
func (s Streak) Phase() StreakPhase {
	if s.StreakInDanger {
		return StreakPhaseDanger
	}
	return StreakPhaseNormal
}

// NewStreak returns the zero-value streak for a student.
func NewStreak(studentID string) Streak {
	return Streak{StudentID: studentID}
}

// Advance applies one check-in outcome to the streak and returns the next
// state. longest never decreases; the danger flag survives at most one
// transition.
func (s Streak) Advance(onTime bool, date string, now time.Time) Streak {
	next := s
	next.UpdatedAt = now

	if onTime {
		next.CurrentStreak++
		if next.CurrentStreak > next.LongestStreak {
			next.LongestStreak = next.CurrentStreak
		}
		next.StreakInDanger = false
		d := date
		next.LastOnTimeDate = &d
		return next
	}

	switch s.Phase() {
	case StreakPhaseNormal:
		if s.CurrentStreak >= ProtectionThreshold {
			next.StreakInDanger = true
			return next
		}
		next.CurrentStreak = 0
		return next
	default: // danger: the one forgiveness is spent
		next.CurrentStreak = 0
		next.StreakInDanger = false
		return next
	}
}
