package bell

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime is a time of day with no date attached.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses an "HH:MM" string.
func ParseClockTime(raw string) (ClockTime, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return ClockTime{}, fmt.Errorf("invalid clock time %q", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q", raw)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("clock time %q out of range", raw)
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}

// MustClockTime parses an "HH:MM" string and panics on failure. Used for
// the static bell table.
func MustClockTime(raw string) ClockTime {
	t, err := ParseClockTime(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// On anchors the time of day to the calendar date of the given instant,
// in that instant's location.
func (t ClockTime) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

// String renders "HH:MM".
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Period is one class block within a day schedule.
type Period struct {
	Number int       `json:"period"`
	Start  ClockTime `json:"-"`
	End    ClockTime `json:"-"`
}

// Block is an informational non-period block (lunch, FIT, collab). The
// engine never consumes these; they exist for display.
type Block struct {
	Start ClockTime
	End   ClockTime
}

// DaySchedule is the ordered period list for one day type.
type DaySchedule struct {
	Name      string
	Periods   []Period
	Lunch     *Block
	FIT       *Block
	Collab    *Block
	Dismissal *ClockTime
}

// Schedule maps day-type tags to day schedules.
type Schedule map[string]DaySchedule

// Day-type tags.
const (
	DayMonday    = "monday"
	DayTuesday   = "tuesday"
	DayWednesday = "wednesday"
	DayThursday  = "thursday"
	DayFriday    = "friday"
	DayCollabAM  = "collab-am"
	DayCollabPM  = "collab-pm"
	DayEarly     = "early"
	DayCustom    = "custom"
)

func block(start, end string) *Block {
	return &Block{Start: MustClockTime(start), End: MustClockTime(end)}
}

func periods(times ...string) []Period {
	if len(times)%2 != 0 {
		panic("periods requires start/end pairs")
	}
	out := make([]Period, 0, len(times)/2)
	for i := 0; i < len(times); i += 2 {
		out = append(out, Period{
			Number: i/2 + 1,
			Start:  MustClockTime(times[i]),
			End:    MustClockTime(times[i+1]),
		})
	}
	return out
}

// DefaultSchedule returns the Britannia Secondary 2024-25 bell schedule.
func DefaultSchedule() Schedule {
	earlyDismissal := MustClockTime("14:05")
	return Schedule{
		DayMonday: {
			Name:    "Monday (No FIT)",
			Periods: periods("08:40", "10:00", "10:10", "11:30", "12:15", "13:35", "13:45", "15:05"),
			Lunch:   block("11:30", "12:15"),
		},
		DayTuesday: {
			Name:    "Tuesday (PM FIT)",
			Periods: periods("08:40", "10:00", "10:10", "11:30", "12:15", "13:15", "13:25", "14:25"),
			FIT:     block("14:25", "15:05"),
			Lunch:   block("11:30", "12:15"),
		},
		DayWednesday: {
			Name:    "Wednesday (AM FIT)",
			FIT:     block("08:40", "09:20"),
			Periods: periods("09:20", "10:20", "10:30", "11:30", "12:15", "13:35", "13:45", "15:05"),
			Lunch:   block("11:30", "12:15"),
		},
		DayThursday: {
			Name:    "Thursday (PM FIT)",
			Periods: periods("08:40", "10:00", "10:10", "11:30", "12:15", "13:15", "13:25", "14:05"),
			FIT:     block("14:05", "15:05"),
			Lunch:   block("11:30", "12:15"),
		},
		DayFriday: {
			Name:    "Friday (AM FIT)",
			FIT:     block("08:40", "09:20"),
			Periods: periods("09:20", "10:20", "10:30", "11:30", "12:15", "13:35", "13:45", "15:05"),
			Lunch:   block("11:30", "12:15"),
		},
		DayCollabAM: {
			Name:    "Collab Day (AM)",
			Collab:  block("08:40", "10:00"),
			Periods: periods("10:00", "10:40", "10:50", "11:30", "12:15", "13:35", "13:45", "15:05"),
			Lunch:   block("11:30", "12:15"),
		},
		DayCollabPM: {
			Name:    "Collab Day (PM)",
			Periods: periods("08:40", "10:00", "10:10", "11:30", "12:15", "12:55", "13:05", "13:45"),
			Collab:  block("13:45", "15:05"),
			Lunch:   block("11:30", "12:15"),
		},
		DayEarly: {
			Name:      "Early Dismissal",
			Periods:   periods("08:40", "10:00", "10:10", "11:30", "12:15", "13:05", "13:15", "14:05"),
			Lunch:     block("11:30", "12:15"),
			Dismissal: &earlyDismissal,
		},
		DayCustom: {
			Name:    "Custom",
			Periods: periods("08:40", "10:00", "10:10", "11:30", "12:15", "13:35", "13:45", "15:05"),
			Lunch:   block("11:30", "12:15"),
		},
	}
}
