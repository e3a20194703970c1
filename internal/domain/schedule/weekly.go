package schedule

import (
	"errors"
	"time"

	"salon-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrInvalidWeekday   = errors.New("day of week must be between 0 and 6")
	ErrInvalidWindow    = errors.New("schedule window start must be before end")
	ErrDuplicateWeekday = errors.New("duplicate schedule entry for day of week")
)

// DayWindow is one weekly schedule entry. Minutes are counted from local midnight.
type DayWindow struct {
	Weekday     time.Weekday
	Available   bool
	StartMinute int
	EndMinute   int
}

func NewDayWindow(weekday int, available bool, startMinute, endMinute int) (DayWindow, error) {
	if weekday < 0 || weekday > 6 {
		return DayWindow{}, ErrInvalidWeekday
	}
	if available {
		if err := clock.ValidateMinute(startMinute); err != nil {
			return DayWindow{}, err
		}
		if err := clock.ValidateMinute(endMinute); err != nil {
			return DayWindow{}, err
		}
		if startMinute >= endMinute {
			return DayWindow{}, ErrInvalidWindow
		}
	}
	return DayWindow{
		Weekday:     time.Weekday(weekday),
		Available:   available,
		StartMinute: startMinute,
		EndMinute:   endMinute,
	}, nil
}

// On returns the window as concrete instants on day's calendar date.
func (w DayWindow) On(day time.Time) Interval {
	return Interval{
		Start: clock.AtMinute(day, w.StartMinute),
		End:   clock.AtMinute(day, w.EndMinute),
	}
}

type WeeklySchedule struct {
	days [7]*DayWindow
}

func NewWeeklySchedule(windows []DayWindow) (WeeklySchedule, error) {
	var s WeeklySchedule
	for _, w := range windows {
		if w.Weekday < time.Sunday || w.Weekday > time.Saturday {
			return WeeklySchedule{}, ErrInvalidWeekday
		}
		if s.days[w.Weekday] != nil {
			return WeeklySchedule{}, ErrDuplicateWeekday
		}
		if w.Available && w.StartMinute >= w.EndMinute {
			return WeeklySchedule{}, ErrInvalidWindow
		}
		s.days[w.Weekday] = &w
	}
	return s, nil
}

// For returns the open window for weekday. ok is false when the day has no
// entry or is marked unavailable.
func (s WeeklySchedule) For(weekday time.Weekday) (DayWindow, bool) {
	if weekday < time.Sunday || weekday > time.Saturday {
		return DayWindow{}, false
	}
	w := s.days[weekday]
	if w == nil || !w.Available {
		return DayWindow{}, false
	}
	return *w, true
}

type Staff struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Active   bool
	Schedule WeeklySchedule
}
