package bell

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Clock resolves bell-schedule questions against wall-clock instants.
// Period windows are always anchored to the calendar date of the instant
// passed in, never to a stored date.
type Clock struct {
	mu       sync.RWMutex
	schedule Schedule
	loc      *time.Location
}

// NewClock builds a Clock over the given schedule. A nil location falls
// back to time.Local.
func NewClock(schedule Schedule, loc *time.Location) *Clock {
	if loc == nil {
		loc = time.Local
	}
	if schedule == nil {
		schedule = DefaultSchedule()
	}
	return &Clock{schedule: schedule, loc: loc}
}

// DayTypes lists the known day-type tags, sorted.
func (c *Clock) DayTypes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tags := make([]string, 0, len(c.schedule))
	for tag := range c.schedule {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Day returns the schedule for a day type, or false when unknown.
func (c *Clock) Day(dayType string) (DaySchedule, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	day, ok := c.schedule[dayType]
	return day, ok
}

// OverrideCustom replaces the "custom" day type's periods. This is the only
// runtime mutation the schedule supports.
func (c *Clock) OverrideCustom(periods []Period) {
	c.mu.Lock()
	defer c.mu.Unlock()
	day := c.schedule[DayCustom]
	day.Name = "Custom"
	day.Periods = periods
	c.schedule[DayCustom] = day
}

// DefaultDayType maps the instant's weekday to a day-type tag. Weekends
// default to monday; the engine has no "no school" state.
func (c *Clock) DefaultDayType(now time.Time) string {
	switch now.In(c.loc).Weekday() {
	case time.Tuesday:
		return DayTuesday
	case time.Wednesday:
		return DayWednesday
	case time.Thursday:
		return DayThursday
	case time.Friday:
		return DayFriday
	default:
		return DayMonday
	}
}

// Window is a period's start/end resolved onto a concrete date.
type Window struct {
	DayType string    `json:"day_type"`
	Period  int       `json:"period"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// PeriodWindow resolves a period onto the calendar date of now. Unknown
// day types and period numbers yield nil: callers must treat that as "no
// active class", not as an error from the clock.
func (c *Clock) PeriodWindow(dayType string, period int, now time.Time) *Window {
	c.mu.RLock()
	defer c.mu.RUnlock()
	day, ok := c.schedule[dayType]
	if !ok {
		return nil
	}
	for _, p := range day.Periods {
		if p.Number == period {
			anchored := now.In(c.loc)
			return &Window{
				DayType: dayType,
				Period:  period,
				Start:   p.Start.On(anchored),
				End:     p.End.On(anchored),
			}
		}
	}
	return nil
}

// Countdown reports time until a period starts.
type Countdown struct {
	Until   time.Duration `json:"-"`
	Seconds int64         `json:"seconds"`
	Started bool          `json:"started"`
	Ended   bool          `json:"ended"`
}

// TimeUntilClass returns the signed duration to period start, nil when the
// period is unknown.
func (c *Clock) TimeUntilClass(dayType string, period int, now time.Time) *Countdown {
	window := c.PeriodWindow(dayType, period, now)
	if window == nil {
		return nil
	}
	diff := window.Start.Sub(now)
	return &Countdown{
		Until:   diff,
		Seconds: int64(diff / time.Second),
		Started: diff <= 0,
		Ended:   now.After(window.End),
	}
}

// Verdict is an arrival classification. Scheduled is false when no window
// exists for the day type and period; callers distinguish "no class" from
// "arrived late" by checking it before the lateness fields.
type Verdict struct {
	Scheduled   bool    `json:"scheduled"`
	OnTime      bool    `json:"on_time"`
	MinutesLate int     `json:"minutes_late"`
	SecondsLate int     `json:"seconds_late"`
	Window      *Window `json:"window,omitempty"`
}

// ClassifyArrival decides on-time versus late. Arrival within graceMinutes
// of the start is on time with zero lateness; anything after is late,
// measured from the scheduled start rather than the end of the grace
// window.
func (c *Clock) ClassifyArrival(dayType string, period int, now time.Time, graceMinutes int) Verdict {
	window := c.PeriodWindow(dayType, period, now)
	if window == nil {
		return Verdict{}
	}
	graceEnd := window.Start.Add(time.Duration(graceMinutes) * time.Minute)
	if !now.After(graceEnd) {
		return Verdict{Scheduled: true, OnTime: true, Window: window}
	}
	late := now.Sub(window.Start)
	return Verdict{
		Scheduled:   true,
		MinutesLate: int(late / time.Minute),
		SecondsLate: int((late % time.Minute) / time.Second),
		Window:      window,
	}
}

// Blackout reports whether hall passes are disallowed right now.
type Blackout struct {
	Blackout bool   `json:"blackout"`
	Reason   string `json:"reason,omitempty"`
}

// PassBlackout gates hall passes near period boundaries: blocked until
// startMinutes past the start ("available in N minutes", N rounded up)
// and again from endMinutes before the end ("class ending soon"). An
// unknown period is always a blackout.
func (c *Clock) PassBlackout(dayType string, period int, now time.Time, startMinutes, endMinutes int) Blackout {
	window := c.PeriodWindow(dayType, period, now)
	if window == nil {
		return Blackout{Blackout: true, Reason: "unknown period"}
	}

	openAt := window.Start.Add(time.Duration(startMinutes) * time.Minute)
	if now.Before(openAt) {
		remaining := ceilMinutes(openAt.Sub(now))
		return Blackout{Blackout: true, Reason: fmt.Sprintf("available in %d minutes", remaining)}
	}

	closeAt := window.End.Add(-time.Duration(endMinutes) * time.Minute)
	if now.After(closeAt) {
		return Blackout{Blackout: true, Reason: "class ending soon"}
	}

	return Blackout{}
}

func ceilMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	m := d / time.Minute
	if d%time.Minute != 0 {
		m++
	}
	return int(m)
}
